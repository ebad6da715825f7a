package dataset

import (
	"errors"
	"fmt"

	"tothemoon/internal/model"
)

// ErrUnknownSymbol is returned when a symbol is not part of the store.
var ErrUnknownSymbol = errors.New("dataset: unknown symbol")

// ring is a fixed-capacity FIFO of feature rows. Appending at capacity
// evicts the oldest row.
type ring struct {
	rows  []model.FeatureRow
	start int
	count int
}

func newRing(capacity int) *ring {
	return &ring{rows: make([]model.FeatureRow, capacity)}
}

func (r *ring) append(row model.FeatureRow) {
	if r.count == len(r.rows) {
		r.rows[r.start] = row
		r.start = (r.start + 1) % len(r.rows)
		return
	}
	r.rows[(r.start+r.count)%len(r.rows)] = row
	r.count++
}

// lastCloses returns the close prices of the last n rows in arrival order.
func (r *ring) lastCloses(n int) []float64 {
	closes := make([]float64, 0, n)
	for i := r.count - n; i < r.count; i++ {
		closes = append(closes, r.rows[(r.start+i)%len(r.rows)].Close)
	}
	return closes
}

// Store holds one bounded rolling series of feature rows per symbol. The
// capacity equals the Bollinger period, so a full series is exactly one
// Bollinger window.
type Store struct {
	capacity int
	series   map[string]*ring
}

// NewStore creates an empty store with the given per-symbol capacity.
func NewStore(capacity int) *Store {
	return &Store{capacity: capacity, series: make(map[string]*ring)}
}

// Add registers a symbol with an empty series. Adding an existing symbol is
// a no-op.
func (s *Store) Add(symbol string) {
	if _, ok := s.series[symbol]; !ok {
		s.series[symbol] = newRing(s.capacity)
	}
}

// Remove drops a symbol's series entirely.
func (s *Store) Remove(symbol string) {
	delete(s.series, symbol)
}

// Has reports whether the symbol is tracked.
func (s *Store) Has(symbol string) bool {
	_, ok := s.series[symbol]
	return ok
}

// Symbols returns the tracked symbols in unspecified order.
func (s *Store) Symbols() []string {
	symbols := make([]string, 0, len(s.series))
	for sym := range s.series {
		symbols = append(symbols, sym)
	}
	return symbols
}

// Append adds a row to the symbol's series, evicting the oldest row once the
// series is at capacity.
func (s *Store) Append(symbol string, row model.FeatureRow) error {
	r, ok := s.series[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	r.append(row)
	return nil
}

// Len returns the number of rows currently stored for the symbol.
func (s *Store) Len(symbol string) int {
	if r, ok := s.series[symbol]; ok {
		return r.count
	}
	return 0
}

// Window returns the close prices of the last n rows in arrival order.
// Requesting more rows than are stored means the warm-up invariant was
// violated upstream and is reported as an error, not a soft fallback.
func (s *Store) Window(symbol string, n int) ([]float64, error) {
	r, ok := s.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if r.count < n {
		return nil, fmt.Errorf("dataset: %s has %d rows, window of %d requested", symbol, r.count, n)
	}
	return r.lastCloses(n), nil
}

// Rows returns a copy of the symbol's stored rows in arrival order.
func (s *Store) Rows(symbol string) []model.FeatureRow {
	r, ok := s.series[symbol]
	if !ok {
		return nil
	}
	rows := make([]model.FeatureRow, 0, r.count)
	for i := 0; i < r.count; i++ {
		rows = append(rows, r.rows[(r.start+i)%len(r.rows)])
	}
	return rows
}
