// Package memory is an in-process sheets.Exporter. The worker uses it when
// no spreadsheet is configured so the mirror pipeline still runs end to end.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budget/internal/core"
	ports "budget/internal/sheets"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.Transaction
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// Append stores the row and returns a synthetic row reference.
func (e *Exporter) Append(_ context.Context, t core.Transaction) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.rows {
		if r.ID == t.ID {
			return fmt.Sprintf("mem:%d", i+1), nil
		}
	}
	e.rows = append(e.rows, t)
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

func (e *Exporter) DeleteTransaction(_ context.Context, id string) (int, error) {
	return e.deleteWhere(func(t core.Transaction) bool { return t.ID == id }), nil
}

func (e *Exporter) DeleteAccount(_ context.Context, accountID string) (int, error) {
	return e.deleteWhere(func(t core.Transaction) bool { return t.AccountID == accountID }), nil
}

func (e *Exporter) ExportedIDs(context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, len(e.rows))
	for i, r := range e.rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// Rows returns a copy of the exported rows in insertion order.
func (e *Exporter) Rows() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Transaction(nil), e.rows...)
}

func (e *Exporter) deleteWhere(match func(core.Transaction) bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.rows[:0]
	removed := 0
	for _, r := range e.rows {
		if match(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	e.rows = kept
	return removed
}
