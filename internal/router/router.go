package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes and the protected /v1/me
// profile endpoints. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token and returns a fresh pair.
	g.POST("/refresh", a.Refresh)
	// Revokes one session (refresh_token in body) or, with a bearer
	// token and no body, every session of the caller.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAgent),
	)
	auth.GET("/me", a.Me)
	auth.PUT("/me/device-tokens", a.UpdateDeviceTokens)
	// Authenticated logout without a body revokes every session.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers unauthenticated catalog browse endpoints.
// These are read-only and sit behind the optional response cache
// middleware passed by the caller.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/v1/restaurants", p.ListRestaurants, mw...)
	e.GET("/v1/restaurants/:id", p.GetRestaurant, mw...)
	e.GET("/v1/restaurants/:id/products", p.ListProducts, mw...)
}
