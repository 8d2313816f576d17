package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/backend"
)

// BrowseHandler proxies read-only catalogue lookups to the backend.  These
// routes are unauthenticated and sit behind the Redis response cache, so
// the storefront backend is not hammered by editor page loads.
type BrowseHandler struct {
	Backend *backend.Client
}

// NewBrowseHandler constructs a BrowseHandler and panics on a nil client.
func NewBrowseHandler(client *backend.Client) *BrowseHandler {
	if client == nil {
		panic("nil backend client passed to NewBrowseHandler")
	}
	return &BrowseHandler{Backend: client}
}

func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// GetHallSeats handles GET /v1/halls/:id/seats.
func (h *BrowseHandler) GetHallSeats(c echo.Context) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	seats, err := h.Backend.ListSeatsByHall(c.Request().Context(), hallID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "seat lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hall_id": hallID, "seats": seats})
}

// GetHallShows handles GET /v1/halls/:id/shows.
func (h *BrowseHandler) GetHallShows(c echo.Context) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	shows, err := h.Backend.ListShowsByHall(c.Request().Context(), hallID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "show lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hall_id": hallID, "shows": shows})
}

// GetMovie handles GET /v1/movies/:id.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	movie, err := h.Backend.GetMovie(c.Request().Context(), movieID)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "movie lookup failed"})
	}
	return c.JSON(http.StatusOK, movie)
}
