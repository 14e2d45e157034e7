// Package memory is an in-process payment mirror for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"vencehoje/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.PaymentRow
}

func New() *Store {
	return &Store{}
}

// AppendPayment stores the row and returns a synthetic reference.
func (s *Store) AppendPayment(_ context.Context, row sheets.PaymentRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.PaymentRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.PaymentRow(nil), s.rows...)
}
