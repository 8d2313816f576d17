// Package seatgrid implements the in-memory seat map used by the back-office
// editor.  A Grid is a rectangular matrix of positions; each position either
// holds a seat of some category or is an explicit gap ("none", e.g. an
// aisle).  The grid lives only for the duration of one editing session and
// is persisted by serializing it to a flat seat list for a full-replace
// sync against the backend.
//
// Every operation on a Grid is a total function over in-memory state: no
// operation returns an error for any row/column input.  Out-of-range paint
// targets are ignored, never errored, because this is operator-facing
// editing state, not a validated external input boundary.
package seatgrid

import (
	"sort"
	"strings"
)

// Category classifies a grid position.  None means no seat exists at the
// position; the remaining values are the seat classes offered for sale.
type Category uint8

const (
	None Category = iota
	Standard
	Premium
	VIP
)

// String returns the canonical backend identifier for the category.
func (c Category) String() string {
	switch c {
	case Standard:
		return "STANDARD"
	case Premium:
		return "PREMIUM"
	case VIP:
		return "VIP"
	default:
		return "NONE"
	}
}

// ParseCategory maps a backend identifier to a Category.  Matching is
// case-insensitive and tolerant of surrounding whitespace.  The boolean is
// false for unknown identifiers; callers at the collaborator boundary must
// reject those rather than guessing.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return None, true
	case "STANDARD":
		return Standard, true
	case "PREMIUM":
		return Premium, true
	case "VIP":
		return VIP, true
	default:
		return None, false
	}
}

// Limits caps the grid dimensions.  The defaults mirror the largest hall
// the storefront renders; both are overridable through configuration.
type Limits struct {
	MaxRows int
	MaxCols int
}

// DefaultLimits returns the stock 15x20 cap.
func DefaultLimits() Limits {
	return Limits{MaxRows: 15, MaxCols: 20}
}

// Position identifies a cell by 1-based row and column.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// SeatRecord is one entry of the serialized flat seat list.
type SeatRecord struct {
	HallID   uint64
	Row      int
	Column   int
	Category Category
}

// Grid holds the editable seat map.  Active seats live in seats; positions
// the operator cleared live in none.  Every in-bounds position is in exactly
// one of the two sets.
type Grid struct {
	limits Limits
	rows   int
	cols   int
	seats  map[Position]Category
	none   map[Position]struct{}
}

// New creates a grid with every position set to def.  Dimensions are
// clamped to [1, limits.MaxRows] x [1, limits.MaxCols] before use.
func New(rows, cols int, def Category, limits Limits) *Grid {
	if limits.MaxRows < 1 {
		limits.MaxRows = DefaultLimits().MaxRows
	}
	if limits.MaxCols < 1 {
		limits.MaxCols = DefaultLimits().MaxCols
	}
	g := &Grid{
		limits: limits,
		rows:   clamp(rows, 1, limits.MaxRows),
		cols:   clamp(cols, 1, limits.MaxCols),
		seats:  make(map[Position]Category),
		none:   make(map[Position]struct{}),
	}
	for r := 1; r <= g.rows; r++ {
		for c := 1; c <= g.cols; c++ {
			g.set(Position{Row: r, Column: c}, def)
		}
	}
	return g
}

// Load rebuilds a grid from a previously persisted flat seat list.  The
// dimensions are inferred from the maximum row/column present (records with
// the None sentinel still count toward bounds).  Every inferred in-bounds
// position absent from records becomes an explicit gap.
func Load(records []SeatRecord, limits Limits) *Grid {
	rows, cols := 1, 1
	for _, rec := range records {
		if rec.Row > rows {
			rows = rec.Row
		}
		if rec.Column > cols {
			cols = rec.Column
		}
	}
	g := New(rows, cols, None, limits)
	for _, rec := range records {
		g.PaintCell(rec.Row, rec.Column, rec.Category)
	}
	return g
}

// Rows reports the current row count.
func (g *Grid) Rows() int { return g.rows }

// Cols reports the current column count.
func (g *Grid) Cols() int { return g.cols }

// SeatCount reports how many active seats the grid holds.
func (g *Grid) SeatCount() int { return len(g.seats) }

// CategoryAt returns the category at a position.  Gaps and out-of-bounds
// positions report None.
func (g *Grid) CategoryAt(row, col int) Category {
	if !g.inBounds(row, col) {
		return None
	}
	return g.seats[Position{Row: row, Column: col}]
}

// Resize changes the grid dimensions.  Positions inside both the old and
// new bounds keep their state: painted seats keep their category and cleared
// positions stay cleared, never resurrected as default seats.  Positions
// newly exposed by growing default to Standard.  Positions falling outside
// the new bounds are dropped silently.  Calling Resize twice with identical
// arguments is a no-op the second time.
func (g *Grid) Resize(rows, cols int) {
	newRows := clamp(rows, 1, g.limits.MaxRows)
	newCols := clamp(cols, 1, g.limits.MaxCols)
	oldRows, oldCols := g.rows, g.cols
	g.rows, g.cols = newRows, newCols

	for p := range g.seats {
		if p.Row > newRows || p.Column > newCols {
			delete(g.seats, p)
		}
	}
	for p := range g.none {
		if p.Row > newRows || p.Column > newCols {
			delete(g.none, p)
		}
	}
	for r := 1; r <= newRows; r++ {
		for c := 1; c <= newCols; c++ {
			if r <= oldRows && c <= oldCols {
				continue // survived the resize, state preserved
			}
			g.set(Position{Row: r, Column: c}, Standard)
		}
	}
}

// PaintCell assigns a category to a single cell.  Painting None records the
// position as a gap and removes it from the active seat set; any other
// category does the reverse.  Targets outside the current bounds are
// ignored.  Repeated application is idempotent.
func (g *Grid) PaintCell(row, col int, cat Category) {
	if !g.inBounds(row, col) {
		return
	}
	g.set(Position{Row: row, Column: col}, cat)
}

// PaintDrag applies PaintCell to every position of path in order.  The path
// comes from one continuous pointer gesture and may revisit cells; no
// deduplication is needed because painting is idempotent.
func (g *Grid) PaintDrag(path []Position, cat Category) {
	for _, p := range path {
		g.PaintCell(p.Row, p.Column, cat)
	}
}

// Serialize emits the flat seat list for hallID, ordered by row then
// column.  Gap positions are excluded and no (row, column) pair appears
// twice.
func (g *Grid) Serialize(hallID uint64) []SeatRecord {
	out := make([]SeatRecord, 0, len(g.seats))
	for p, cat := range g.seats {
		out = append(out, SeatRecord{HallID: hallID, Row: p.Row, Column: p.Column, Category: cat})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// Matrix renders the grid as rows x cols category identifiers, row 1 first.
// Handlers use it to return the full grid state to the editing client.
func (g *Grid) Matrix() [][]string {
	m := make([][]string, g.rows)
	for r := 1; r <= g.rows; r++ {
		row := make([]string, g.cols)
		for c := 1; c <= g.cols; c++ {
			row[c-1] = g.CategoryAt(r, c).String()
		}
		m[r-1] = row
	}
	return m
}

func (g *Grid) set(p Position, cat Category) {
	if cat == None {
		delete(g.seats, p)
		g.none[p] = struct{}{}
		return
	}
	delete(g.none, p)
	g.seats[p] = cat
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 1 && row <= g.rows && col >= 1 && col <= g.cols
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
