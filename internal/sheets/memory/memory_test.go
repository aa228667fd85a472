package memory

import (
	"context"
	"testing"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

func TestExporter(t *testing.T) {
	ctx := context.Background()
	e := New()

	ref, err := e.AppendLedgerRow(ctx, ports.IncomeRow(core.Income{ID: 1, Date: "2024-03-01", Amount: core.MustParseMoney("10")}, "Main"))
	if err != nil || ref != "mem:ledger:1" {
		t.Fatalf("AppendLedgerRow() = %q, %v", ref, err)
	}
	ref, err = e.AppendReminderRow(ctx, ports.ReminderRow{ID: 4})
	if err != nil || ref != "mem:reminders:1" {
		t.Fatalf("AppendReminderRow() = %q, %v", ref, err)
	}

	rows := e.LedgerRows()
	rows[0].Accounts = "mutated"
	if e.LedgerRows()[0].Accounts != "Main" {
		t.Error("LedgerRows must return a copy")
	}
	if len(e.ReminderRows()) != 1 {
		t.Errorf("reminder rows = %d", len(e.ReminderRows()))
	}
}
