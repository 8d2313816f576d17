package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/backend"
	"github.com/cineboard/backoffice/internal/config"
	"github.com/cineboard/backoffice/internal/queue"
	"github.com/cineboard/backoffice/internal/seatgrid"
	"github.com/cineboard/backoffice/internal/session"
	queue_publisher "github.com/cineboard/backoffice/internal/service"
)

// EditorHandler owns the seat-map editing surface: it opens sessions,
// applies paint/resize operations to the session's grid and submits the
// result to the backend as a full-replace seat sync.
type EditorHandler struct {
	Sessions *session.Store
	Backend  *backend.Client
	Cfg      config.Config
}

// NewEditorHandler constructs an EditorHandler and panics on nil
// dependencies.
func NewEditorHandler(sessions *session.Store, client *backend.Client, cfg config.Config) *EditorHandler {
	if sessions == nil || client == nil {
		panic("nil dependency passed to NewEditorHandler")
	}
	return &EditorHandler{Sessions: sessions, Backend: client, Cfg: cfg}
}

func (h *EditorHandler) limits() seatgrid.Limits {
	return seatgrid.Limits{MaxRows: h.Cfg.GridMaxRows, MaxCols: h.Cfg.GridMaxCols}
}

// gridView is the JSON representation of a session returned to the editing
// client after every mutation, so the client never has to track state.
type gridView struct {
	SessionID string     `json:"session_id"`
	HallID    uint64     `json:"hall_id"`
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	SeatCount int        `json:"seat_count"`
	Cells     [][]string `json:"cells"`
}

func viewOf(sess *session.Session) gridView {
	return gridView{
		SessionID: sess.ID,
		HallID:    sess.HallID,
		Rows:      sess.Grid.Rows(),
		Cols:      sess.Grid.Cols(),
		SeatCount: sess.Grid.SeatCount(),
		Cells:     sess.Grid.Matrix(),
	}
}

// CreateSession handles POST /v1/editor/sessions.  A session either starts
// from a blank grid of the requested dimensions or, with load_existing,
// from the hall's currently persisted seat list.
func (h *EditorHandler) CreateSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		HallID          uint64 `json:"hall_id"`
		Rows            int    `json:"rows"`
		Cols            int    `json:"cols"`
		DefaultCategory string `json:"default_category"`
		LoadExisting    bool   `json:"load_existing"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}

	var grid *seatgrid.Grid
	if body.LoadExisting {
		seats, err := h.Backend.ListSeatsByHall(c.Request().Context(), body.HallID)
		if err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load seats from backend"})
		}
		records := make([]seatgrid.SeatRecord, 0, len(seats))
		for _, s := range seats {
			cat, ok := seatgrid.ParseCategory(s.SeatType)
			if !ok {
				// the backend is the source of truth; an identifier we
				// cannot map means our mapping is stale, not the data
				return c.JSON(http.StatusBadGateway, echo.Map{"error": "backend returned unknown seat type: " + s.SeatType})
			}
			records = append(records, seatgrid.SeatRecord{
				HallID:   s.HallID,
				Row:      s.RowNumber,
				Column:   s.SeatNumber,
				Category: cat,
			})
		}
		grid = seatgrid.Load(records, h.limits())
	} else {
		def := seatgrid.Standard
		if body.DefaultCategory != "" {
			cat, ok := seatgrid.ParseCategory(body.DefaultCategory)
			if !ok {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid default_category"})
			}
			def = cat
		}
		grid = seatgrid.New(body.Rows, body.Cols, def, h.limits())
	}

	sess, err := h.Sessions.Create(uid, body.HallID, grid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusCreated, viewOf(sess))
}

// GetSession handles GET /v1/editor/sessions/:id.
func (h *EditorHandler) GetSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var view gridView
	if err := h.Sessions.View(c.Param("id"), uid, func(sess *session.Session) {
		view = viewOf(sess)
	}); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, view)
}

// ResizeGrid handles POST /v1/editor/sessions/:id/resize.  Dimensions are
// clamped by the grid itself; surviving cells keep their state and cleared
// positions are never resurrected.
func (h *EditorHandler) ResizeGrid(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var view gridView
	if err := h.Sessions.Update(c.Param("id"), uid, func(sess *session.Session) {
		sess.Grid.Resize(body.Rows, body.Cols)
		view = viewOf(sess)
	}); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, view)
}

// PaintCell handles POST /v1/editor/sessions/:id/paint.  Out-of-range
// targets are ignored by the grid rather than rejected; only an unknown
// category is a client error.
func (h *EditorHandler) PaintCell(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Row      int    `json:"row"`
		Column   int    `json:"column"`
		Category string `json:"category"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cat, ok := seatgrid.ParseCategory(body.Category)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	var view gridView
	if err := h.Sessions.Update(c.Param("id"), uid, func(sess *session.Session) {
		sess.Grid.PaintCell(body.Row, body.Column, cat)
		view = viewOf(sess)
	}); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, view)
}

// PaintDrag handles POST /v1/editor/sessions/:id/paint-drag and applies one
// continuous pointer gesture to the grid.
func (h *EditorHandler) PaintDrag(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Path     []seatgrid.Position `json:"path"`
		Category string              `json:"category"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cat, ok := seatgrid.ParseCategory(body.Category)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	var view gridView
	if err := h.Sessions.Update(c.Param("id"), uid, func(sess *session.Session) {
		sess.Grid.PaintDrag(body.Path, cat)
		view = viewOf(sess)
	}); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, view)
}

// SubmitSession handles POST /v1/editor/sessions/:id/submit.  It serializes
// the grid, full-replaces the hall's seat list on the backend, refreshes
// the hall's dimensions/capacity and discards the session.  The backend
// applies last-write-wins semantics; there is no concurrency token.
func (h *EditorHandler) SubmitSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	var (
		hallID     uint64
		rows, cols int
		records    []seatgrid.SeatRecord
	)
	if err := h.Sessions.View(id, uid, func(sess *session.Session) {
		hallID = sess.HallID
		rows = sess.Grid.Rows()
		cols = sess.Grid.Cols()
		records = sess.Grid.Serialize(sess.HallID)
	}); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}

	seats := make([]backend.Seat, 0, len(records))
	for _, rec := range records {
		seats = append(seats, backend.Seat{
			HallID:     rec.HallID,
			RowNumber:  rec.Row,
			SeatNumber: rec.Column,
			SeatType:   rec.Category.String(),
		})
	}

	ctx := c.Request().Context()
	if err := h.Backend.SyncSeats(ctx, hallID, seats); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "seat sync failed"})
	}
	if err := h.Backend.UpdateHall(ctx, hallID, backend.HallUpdate{
		SeatRows: rows,
		SeatCols: cols,
		Capacity: len(seats),
	}); err != nil {
		// seats are synced but the hall metadata is stale; surface it so
		// the operator re-submits
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "hall capacity update failed"})
	}

	if err := queue_publisher.PublishSeatmapSynced(ctx, queue.SeatmapSyncedEvent{
		HallID:     hallID,
		OperatorID: uid,
		Rows:       rows,
		Cols:       cols,
		SeatCount:  len(seats),
		SyncedAt:   time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("editor: publish seatmap.synced failed: %v", err)
	}

	if err := h.Sessions.Delete(id, uid); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		log.Printf("editor: discard session %s failed: %v", id, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hall_id":      hallID,
		"synced_seats": len(seats),
		"rows":         rows,
		"cols":         cols,
	})
}

// DiscardSession handles DELETE /v1/editor/sessions/:id.
func (h *EditorHandler) DiscardSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Sessions.Delete(c.Param("id"), uid); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
