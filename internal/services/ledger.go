package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// Ledger owns accounts and their balances.
type Ledger struct {
	store ports.AccountStore
	opts  options
}

func NewLedger(store ports.AccountStore, opts ...Option) *Ledger {
	return &Ledger{store: store, opts: buildOptions(opts)}
}

// ListAccounts returns every account ordered by id.
func (l *Ledger) ListAccounts(ctx context.Context) ([]core.Account, error) {
	accounts, err := l.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	return accounts, nil
}

// GetAccount returns core.ErrNotFound for unknown ids.
func (l *Ledger) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return l.store.GetAccount(ctx, id)
}

// CreateAccount validates the input; the balance defaults to 0.00.
func (l *Ledger) CreateAccount(ctx context.Context, in core.AccountInput) (core.Account, error) {
	acc, err := in.Parse()
	if err != nil {
		return core.Account{}, err
	}
	acc.CreatedAt = l.opts.now().UTC()

	saved, err := l.store.CreateAccount(ctx, acc)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldAccountID, saved.ID,
		applog.FieldBalance, saved.Balance.String())
	return saved, nil
}

// AdjustBalance adds delta to the account balance and returns the account.
func (l *Ledger) AdjustBalance(ctx context.Context, id int64, delta core.Money) (core.Account, error) {
	return adjustBalance(ctx, l.store, id, delta)
}

// adjustBalance is shared with the recorder, which calls it on a
// transactional store.
func adjustBalance(ctx context.Context, store ports.AccountStore, id int64, delta core.Money) (core.Account, error) {
	acc, err := store.AdjustBalance(ctx, id, delta)
	if err != nil {
		return core.Account{}, err
	}
	slog.DebugContext(ctx, "Balance adjusted",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpAdjust,
		applog.FieldAccountID, id,
		applog.FieldAmount, delta.String(),
		applog.FieldBalance, acc.Balance.String())
	return acc, nil
}
