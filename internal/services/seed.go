package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// DemoAccounts are created by SeedDemoAccounts.
var DemoAccounts = []core.AccountInput{
	{Name: "Main Checking", Type: core.Checking, AccountNumber: "****1234", InitialBalance: "5420.50"},
	{Name: "Emergency Savings", Type: core.Savings, AccountNumber: "****5678", InitialBalance: "15000.00"},
	{Name: "Business Account", Type: core.Checking, AccountNumber: "****9012", InitialBalance: "8750.25"},
	{Name: "Credit Card", Type: core.Credit, AccountNumber: "****3456", InitialBalance: "-1250.00"},
	{Name: "Vacation Fund", Type: core.Savings, AccountNumber: "****7890", InitialBalance: "3200.00"},
}

// SeedDemoAccounts creates the demo accounts when the store has none. It
// returns the number of accounts created.
func SeedDemoAccounts(ctx context.Context, store ports.AccountStore, opts ...Option) (int, error) {
	n, err := store.CountAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Accounts already present, skipping demo seed", applog.FieldComponent, applog.ComponentLedger, "count", n)
		return 0, nil
	}

	ledger := NewLedger(store, opts...)
	for _, in := range DemoAccounts {
		if _, err := ledger.CreateAccount(ctx, in); err != nil {
			return 0, fmt.Errorf("seed %q: %w", in.Name, err)
		}
	}
	slog.InfoContext(ctx, "Demo accounts seeded",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpSeed,
		"count", len(DemoAccounts))
	return len(DemoAccounts), nil
}
