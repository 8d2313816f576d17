package backend

import "time"

// Seat is the backend's flat seat record.  RowNumber and SeatNumber are
// 1-based grid coordinates; SeatType carries the canonical category
// identifier (STANDARD, PREMIUM, VIP).
type Seat struct {
	ID         uint64 `json:"id,omitempty"`
	HallID     uint64 `json:"hall_id"`
	RowNumber  int    `json:"row_number"`
	SeatNumber int    `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// Show is a scheduled screening of one movie in one hall.  StartTime is an
// ISO-8601 instant interpreted in UTC.
type Show struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movie_id"`
	HallID    uint64    `json:"hall_id"`
	StartTime time.Time `json:"start_time"`
}

// Movie carries the fields the back-office needs; Duration is in minutes.
type Movie struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
}

// ShowUpdate is the PUT /shows/{id} payload committing a new schedule.
type ShowUpdate struct {
	MovieID   uint64    `json:"movie_id"`
	HallID    uint64    `json:"hall_id"`
	StartTime time.Time `json:"start_time"`
}

// HallUpdate is the PUT /halls/{id} payload refreshing a hall's seating
// dimensions and capacity after a seat sync.
type HallUpdate struct {
	SeatRows int `json:"seat_rows"`
	SeatCols int `json:"seat_cols"`
	Capacity int `json:"capacity"`
}
