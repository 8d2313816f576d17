package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient(server.URL, server.Client())
	c.retryBase = time.Millisecond
	c.retryCap = 2 * time.Millisecond
	return c
}

func TestGetJSON_Non2xxReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad hall"))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.ListShowsByHall(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || !strings.Contains(apiErr.Body, "bad hall") {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"title":"Solaris","duration":120}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	m, err := client.GetMovie(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if m.Duration != 120 || m.Title != "Solaris" {
		t.Fatalf("unexpected movie: %+v", m)
	}
}

func TestGetJSON_DoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetMovie(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt for 404, got %d", attempts)
	}
}

func TestListSeatsByHall_FiltersClientSide(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"hall_id":1,"row_number":1,"seat_number":1,"seat_type":"STANDARD"},
			{"id":2,"hall_id":2,"row_number":1,"seat_number":1,"seat_type":"VIP"},
			{"id":3,"hall_id":1,"row_number":1,"seat_number":2,"seat_type":"PREMIUM"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server)
	seats, err := client.ListSeatsByHall(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats for hall 1, got %d", len(seats))
	}
	for _, s := range seats {
		if s.HallID != 1 {
			t.Fatalf("seat from wrong hall leaked through: %+v", s)
		}
	}
}

func TestSyncSeats_PostsFullReplacePayload(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody []Seat
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode sync body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server)
	seats := []Seat{
		{HallID: 4, RowNumber: 1, SeatNumber: 1, SeatType: "STANDARD"},
		{HallID: 4, RowNumber: 1, SeatNumber: 2, SeatType: "VIP"},
	}
	if err := client.SyncSeats(context.Background(), 4, seats); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/seats/halls/4/sync" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if len(gotBody) != 2 || gotBody[1].SeatType != "VIP" {
		t.Fatalf("unexpected sync payload: %+v", gotBody)
	}
}

func TestSendJSON_WritesAreSingleAttempt(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.UpdateHall(context.Background(), 2, HallUpdate{SeatRows: 3, SeatCols: 3, Capacity: 9})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected writes to never retry, got %d attempts", attempts)
	}
}
