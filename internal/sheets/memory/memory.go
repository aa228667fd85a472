package memory

import (
	"context"
	"fmt"
	"sync"

	ports "fintrack/internal/sheets"
)

// Exporter keeps exported rows in memory. It stands in for the spreadsheet
// when none is configured.
type Exporter struct {
	mu        sync.Mutex
	ledger    []ports.LedgerRow
	reminders []ports.ReminderRow
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// AppendLedgerRow stores the row and returns a synthetic row reference.
func (e *Exporter) AppendLedgerRow(_ context.Context, row ports.LedgerRow) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger = append(e.ledger, row)
	return fmt.Sprintf("mem:ledger:%d", len(e.ledger)), nil
}

func (e *Exporter) AppendReminderRow(_ context.Context, row ports.ReminderRow) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reminders = append(e.reminders, row)
	return fmt.Sprintf("mem:reminders:%d", len(e.reminders)), nil
}

// LedgerRows returns a copy of the exported ledger rows.
func (e *Exporter) LedgerRows() []ports.LedgerRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.LedgerRow(nil), e.ledger...)
}

func (e *Exporter) ReminderRows() []ports.ReminderRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.ReminderRow(nil), e.reminders...)
}
