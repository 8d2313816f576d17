package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/backend"
	"github.com/cineboard/backoffice/internal/config"
	"github.com/cineboard/backoffice/internal/queue"
	"github.com/cineboard/backoffice/internal/schedule"
	queue_publisher "github.com/cineboard/backoffice/internal/service"
)

// ScheduleHandler exposes the programming-desk surface: dry-run conflict
// checks and the reschedule operation that re-validates before writing.
type ScheduleHandler struct {
	Checker *schedule.Checker
	Backend *backend.Client
	Cfg     config.Config
}

// NewScheduleHandler constructs a ScheduleHandler and panics on nil
// dependencies.
func NewScheduleHandler(checker *schedule.Checker, client *backend.Client, cfg config.Config) *ScheduleHandler {
	if checker == nil || client == nil {
		panic("nil dependency passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Checker: checker, Backend: client, Cfg: cfg}
}

type checkReq struct {
	HallID        uint64 `json:"hall_id"`
	StartsAt      string `json:"starts_at"`
	DurationMin   int    `json:"duration_min"`
	ExcludeShowID uint64 `json:"exclude_show_id"`
}

type conflictView struct {
	ShowID  uint64 `json:"show_id"`
	MovieID uint64 `json:"movie_id"`
	Starts  string `json:"blocked_from"`
	Ends    string `json:"blocked_until"`
	Message string `json:"message"`
}

func conflictViewOf(cf *schedule.Conflict) conflictView {
	return conflictView{
		ShowID:  cf.ShowID,
		MovieID: cf.MovieID,
		Starts:  cf.Start.UTC().Format(time.RFC3339),
		Ends:    cf.End.UTC().Format(time.RFC3339),
		Message: cf.Message(),
	}
}

// Check handles POST /v1/schedule/check.  It never mutates anything; a 409
// means the slot is taken, a 502 means availability could not be proven
// because the backend did not answer.
func (h *ScheduleHandler) Check(c echo.Context) error {
	var req checkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}
	if req.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
	}
	start, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	cf, err := h.Checker.CheckAvailability(c.Request().Context(), req.HallID, start, req.DurationMin, req.ExcludeShowID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "availability could not be verified"})
	}
	if cf != nil {
		return c.JSON(http.StatusConflict, echo.Map{"available": false, "conflict": conflictViewOf(cf)})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": true})
}

type rescheduleReq struct {
	HallID   uint64 `json:"hall_id"`
	MovieID  uint64 `json:"movie_id"`
	StartsAt string `json:"starts_at"`
}

// UpdateShow handles PUT /v1/shows/:id.  The new slot is re-validated
// against the hall's schedule (excluding the show itself) immediately
// before the write, so a stale dry-run check cannot slip a conflict
// through.
func (h *ScheduleHandler) UpdateShow(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req rescheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.HallID == 0 || req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id and movie_id are required"})
	}
	start, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	ctx := c.Request().Context()
	movie, err := h.Backend.GetMovie(ctx, req.MovieID)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "movie lookup failed"})
	}
	if movie.Duration <= 0 {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "movie has no usable duration"})
	}

	cf, err := h.Checker.CheckAvailability(ctx, req.HallID, start, movie.Duration, showID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "availability could not be verified"})
	}
	if cf != nil {
		return c.JSON(http.StatusConflict, echo.Map{"available": false, "conflict": conflictViewOf(cf)})
	}

	if err := h.Backend.UpdateShow(ctx, showID, backend.ShowUpdate{
		MovieID:   req.MovieID,
		HallID:    req.HallID,
		StartTime: start,
	}); err != nil {
		if backend.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "show update failed"})
	}

	end := start.Add(time.Duration(movie.Duration) * time.Minute)
	if err := queue_publisher.PublishShowRescheduled(ctx, queue.ShowRescheduledEvent{
		ShowID:     showID,
		HallID:     req.HallID,
		MovieID:    req.MovieID,
		OperatorID: uid,
		StartsAt:   start.UTC().Format(time.RFC3339),
		EndsAt:     end.UTC().Format(time.RFC3339),
		ChangedAt:  time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("schedule: publish show.rescheduled failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show_id":   showID,
		"hall_id":   req.HallID,
		"movie_id":  req.MovieID,
		"starts_at": start.UTC().Format(time.RFC3339),
		"ends_at":   end.UTC().Format(time.RFC3339),
	})
}
