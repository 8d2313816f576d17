// Package queue defines the domain events published to the message broker
// and the background consumer that turns them into an audit trail.
package queue

// SeatmapSyncedEvent is published after a hall's seat list has been
// full-replaced on the backend.  It carries enough detail for downstream
// consumers to audit or notify without querying the backend again.
type SeatmapSyncedEvent struct {
	HallID     uint64 `json:"hall_id"`
	OperatorID uint64 `json:"operator_id"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	SeatCount  int    `json:"seat_count"`
	SyncedAt   string `json:"synced_at"`
}

// ShowRescheduledEvent is published after a show's schedule change was
// committed to the backend following a successful conflict check.
type ShowRescheduledEvent struct {
	ShowID     uint64 `json:"show_id"`
	HallID     uint64 `json:"hall_id"`
	MovieID    uint64 `json:"movie_id"`
	OperatorID uint64 `json:"operator_id"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	ChangedAt  string `json:"changed_at"`
}
