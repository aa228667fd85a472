// Package ports declares the storage interfaces the services depend on.
package ports

import (
	"context"

	"fintrack/internal/core"
)

// Ports implemented by storage adapters.
type (
	AccountStore interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
		// GetAccount returns core.ErrNotFound for unknown ids.
		GetAccount(ctx context.Context, id int64) (core.Account, error)
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		// AdjustBalance applies balance = balance + delta as one atomic step
		// and returns the updated account.
		AdjustBalance(ctx context.Context, id int64, delta core.Money) (core.Account, error)
		CountAccounts(ctx context.Context) (int64, error)
	}

	// Transaction lists are ordered newest created first. An empty month
	// means no filter.
	IncomeStore interface {
		CreateIncome(ctx context.Context, in core.Income) (core.Income, error)
		GetIncome(ctx context.Context, id int64) (core.Income, error)
		ListIncome(ctx context.Context, month string) ([]core.Income, error)
		RecentIncome(ctx context.Context, limit int) ([]core.Income, error)
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		ListExpenses(ctx context.Context, month string) ([]core.Expense, error)
		RecentExpenses(ctx context.Context, limit int) ([]core.Expense, error)
	}

	TransferStore interface {
		CreateTransfer(ctx context.Context, t core.Transfer) (core.Transfer, error)
		GetTransfer(ctx context.Context, id int64) (core.Transfer, error)
		ListTransfers(ctx context.Context) ([]core.Transfer, error)
		RecentTransfers(ctx context.Context, limit int) ([]core.Transfer, error)
	}

	// ObligationStore keeps receivables and payables in separate collections
	// selected by kind.
	ObligationStore interface {
		CreateObligation(ctx context.Context, o core.Obligation) (core.Obligation, error)
		GetObligation(ctx context.Context, kind core.ObligationKind, id int64) (core.Obligation, error)
		ListObligations(ctx context.Context, kind core.ObligationKind) ([]core.Obligation, error)
		UpdateObligationStatus(ctx context.Context, kind core.ObligationKind, id int64, status core.ObligationStatus) (core.Obligation, error)
	}

	Store interface {
		AccountStore
		IncomeStore
		ExpenseStore
		TransferStore
		ObligationStore
	}

	// TxRunner runs fn against a transactional view of the store. The unit is
	// committed when fn returns nil and rolled back otherwise.
	TxRunner interface {
		InTx(ctx context.Context, fn func(tx Store) error) error
	}

	TransactionalStore interface {
		Store
		TxRunner
	}

	// Backend is a fully wired store as produced by the backend factory.
	Backend interface {
		TransactionalStore
		Ping(ctx context.Context) error
		Close() error
	}
)
