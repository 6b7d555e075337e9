package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1. All
// routes require a valid JWT and the CUSTOMER role. Customers can place
// reservations with a pre-order, edit or cancel them while the
// lifecycle allows it, soft-delete them from their history and browse
// their own reservations.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.List)
	// /count must be registered before /:id so Echo does not swallow it.
	g.GET("/reservations/count", h.Count)
	g.GET("/reservations/:id", h.Get)
	g.PUT("/reservations/:id", h.Edit)
	g.PUT("/reservations/:id/cancel", h.Cancel)
	g.DELETE("/reservations/:id", h.Delete)
}
