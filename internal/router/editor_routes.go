package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/handler"
	"github.com/cineboard/backoffice/internal/middleware"
)

// RegisterEditor registers the seat-map editing endpoints under /v1.  All
// routes require a valid JWT and the OPERATOR role; sessions belong to the
// operator who opened them.
func RegisterEditor(e *echo.Echo, h *handler.EditorHandler, jwtSecret string) {
	g := e.Group(
		"/v1/editor",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleOperator),
	)
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:id", h.GetSession)
	g.POST("/sessions/:id/resize", h.ResizeGrid)
	g.POST("/sessions/:id/paint", h.PaintCell)
	g.POST("/sessions/:id/paint-drag", h.PaintDrag)
	g.POST("/sessions/:id/submit", h.SubmitSession)
	g.DELETE("/sessions/:id", h.DiscardSession)
}

// RegisterSchedule registers the programming-desk endpoints under /v1.
// The conflict check is a read-only dry run; the show update re-validates
// and then writes through to the backend.
func RegisterSchedule(e *echo.Echo, h *handler.ScheduleHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleOperator),
	)
	g.POST("/schedule/check", h.Check)
	g.PUT("/shows/:id", h.UpdateShow)
	g.PATCH("/shows/:id", h.UpdateShow)
}
