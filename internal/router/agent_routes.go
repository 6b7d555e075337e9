package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RegisterAgent registers restaurant-agent endpoints under
// /v1/agent/reservations. All routes require a valid JWT carrying the
// AGENT role and the restaurant_id claim. Agents drive the lifecycle
// of reservations placed at their restaurant and manage walk-in
// blocks entered at the door.
func RegisterAgent(e *echo.Echo, h *handler.AgentReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/agent/reservations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAgent),
	)
	g.GET("", h.List)
	// Static segments before /:id so Echo routes them correctly.
	g.GET("/all", h.ListAll)
	g.GET("/count", h.Count)
	g.GET("/external", h.ListExternal)
	g.POST("/external", h.CreateExternal)
	g.DELETE("/external/:id", h.DeleteExternal)
	g.GET("/:id", h.Get)
	g.PUT("/:id/accept", h.Accept)
	g.PUT("/:id/reject", h.Reject)
	g.PUT("/:id/cancel", h.Cancel)
	g.PUT("/:id/complete", h.Complete)
}
