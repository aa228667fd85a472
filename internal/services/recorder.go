package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// Recorder records income, expenses and transfers. Each recording persists
// the row and applies its balance effect in one store transaction, then
// publishes a ledger event.
type Recorder struct {
	store ports.TransactionalStore
	opts  options
}

func NewRecorder(store ports.TransactionalStore, opts ...Option) *Recorder {
	return &Recorder{store: store, opts: buildOptions(opts)}
}

// RecordIncome credits the target account.
func (r *Recorder) RecordIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	income, err := in.Parse()
	if err != nil {
		return core.Income{}, err
	}
	income.CreatedAt = r.opts.now().UTC()

	var saved core.Income
	err = r.store.InTx(ctx, func(tx ports.Store) error {
		if _, err := tx.GetAccount(ctx, income.AccountID); err != nil {
			return err
		}
		if saved, err = tx.CreateIncome(ctx, income); err != nil {
			return err
		}
		_, err = adjustBalance(ctx, tx, income.AccountID, income.Amount)
		return err
	})
	if err != nil {
		return core.Income{}, fmt.Errorf("record income: %w", err)
	}

	r.logRecorded(ctx, core.KindIncome, saved.ID, saved.Amount)
	r.publish(ctx, amqp.EventIncomeRecorded, saved.ID)
	return saved, nil
}

// RecordExpense debits the source account.
func (r *Recorder) RecordExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	expense, err := in.Parse()
	if err != nil {
		return core.Expense{}, err
	}
	expense.CreatedAt = r.opts.now().UTC()

	var saved core.Expense
	err = r.store.InTx(ctx, func(tx ports.Store) error {
		if _, err := tx.GetAccount(ctx, expense.AccountID); err != nil {
			return err
		}
		if saved, err = tx.CreateExpense(ctx, expense); err != nil {
			return err
		}
		_, err = adjustBalance(ctx, tx, expense.AccountID, expense.Amount.Neg())
		return err
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("record expense: %w", err)
	}

	r.logRecorded(ctx, core.KindExpense, saved.ID, saved.Amount)
	r.publish(ctx, amqp.EventExpenseRecorded, saved.ID)
	return saved, nil
}

// RecordTransfer moves the amount from one account to another. Both sides
// are applied or neither is.
func (r *Recorder) RecordTransfer(ctx context.Context, in core.TransferInput) (core.Transfer, error) {
	transfer, err := in.Parse()
	if err != nil {
		return core.Transfer{}, err
	}
	transfer.CreatedAt = r.opts.now().UTC()

	var saved core.Transfer
	err = r.store.InTx(ctx, func(tx ports.Store) error {
		for _, id := range []int64{transfer.FromAccountID, transfer.ToAccountID} {
			if _, err := tx.GetAccount(ctx, id); err != nil {
				return err
			}
		}
		if saved, err = tx.CreateTransfer(ctx, transfer); err != nil {
			return err
		}
		if _, err := adjustBalance(ctx, tx, transfer.FromAccountID, transfer.Amount.Neg()); err != nil {
			return err
		}
		_, err = adjustBalance(ctx, tx, transfer.ToAccountID, transfer.Amount)
		return err
	})
	if err != nil {
		return core.Transfer{}, fmt.Errorf("record transfer: %w", err)
	}

	slog.InfoContext(ctx, "Transfer recorded",
		applog.NewFields().
			WithComponent(applog.ComponentRecorder).
			WithTransaction(core.KindTransfer, saved.ID, saved.Amount).
			ToSlice()...)
	r.publish(ctx, amqp.EventTransferRecorded, saved.ID)
	return saved, nil
}

func (r *Recorder) ListIncome(ctx context.Context) ([]core.Income, error) {
	return orEmpty(r.store.ListIncome(ctx, ""))
}

// ListIncomeByMonth filters on the YYYY-MM prefix of the date.
func (r *Recorder) ListIncomeByMonth(ctx context.Context, month string) ([]core.Income, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	return orEmpty(r.store.ListIncome(ctx, month))
}

func (r *Recorder) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return orEmpty(r.store.ListExpenses(ctx, ""))
}

func (r *Recorder) ListExpensesByMonth(ctx context.Context, month string) ([]core.Expense, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	return orEmpty(r.store.ListExpenses(ctx, month))
}

func (r *Recorder) ListTransfers(ctx context.Context) ([]core.Transfer, error) {
	return orEmpty(r.store.ListTransfers(ctx))
}

func (r *Recorder) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	return r.store.GetIncome(ctx, id)
}

func (r *Recorder) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return r.store.GetExpense(ctx, id)
}

func (r *Recorder) GetTransfer(ctx context.Context, id int64) (core.Transfer, error) {
	return r.store.GetTransfer(ctx, id)
}

func (r *Recorder) logRecorded(ctx context.Context, kind core.TransactionKind, id int64, amount core.Money) {
	slog.InfoContext(ctx, "Transaction recorded",
		applog.NewFields().
			WithComponent(applog.ComponentRecorder).
			WithTransaction(kind, id, amount).
			ToSlice()...)
}

// publish never fails the caller; the record is already committed.
func (r *Recorder) publish(ctx context.Context, kind amqp.EventKind, id int64) {
	publishEvent(ctx, r.opts.publisher, kind, id)
}

func publishEvent(ctx context.Context, p EventPublisher, kind amqp.EventKind, id int64) {
	if p == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event", applog.FieldKind, kind, applog.FieldRecordID, id)
		return
	}
	if err := p.Publish(ctx, amqp.NewLedgerEvent(kind, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldKind, kind,
			applog.FieldRecordID, id,
			applog.FieldError, err)
	}
}

func orEmpty[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
