package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/handler"
)

// RegisterBrowse registers unauthenticated read-only catalogue routes.
// The caller passes the Redis response-cache middleware so browse traffic
// does not hit the storefront backend on every editor page load; pass nil
// middlewares when Redis is unavailable.
func RegisterBrowse(e *echo.Echo, h *handler.BrowseHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/halls/:id/seats", h.GetHallSeats)
	g.GET("/halls/:id/shows", h.GetHallShows)
	g.GET("/movies/:id", h.GetMovie)
}
