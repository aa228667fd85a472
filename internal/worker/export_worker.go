package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
	"fintrack/internal/sheets"
)

// ExportWorker appends a spreadsheet row for every ledger event it receives.
type ExportWorker struct {
	store    ports.Store
	exporter sheets.Exporter
}

func NewExportWorker(store ports.Store, exporter sheets.Exporter) *ExportWorker {
	return &ExportWorker{store: store, exporter: exporter}
}

// HandleEvent loads the record an event refers to and exports it. Events for
// records that no longer exist are logged and acknowledged.
func (w *ExportWorker) HandleEvent(ctx context.Context, event amqp.LedgerEvent) error {
	logger := slog.With(
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldEventID, event.EventID.String(),
		applog.FieldKind, string(event.Kind),
		applog.FieldRecordID, event.ID)

	var (
		ref string
		err error
	)
	switch event.Kind {
	case amqp.EventIncomeRecorded:
		ref, err = w.exportIncome(ctx, event.ID)
	case amqp.EventExpenseRecorded:
		ref, err = w.exportExpense(ctx, event.ID)
	case amqp.EventTransferRecorded:
		ref, err = w.exportTransfer(ctx, event.ID)
	case amqp.EventReceivableDue:
		ref, err = w.exportReminder(ctx, core.Receivable, event.ID)
	case amqp.EventPayableDue:
		ref, err = w.exportReminder(ctx, core.Payable, event.ID)
	default:
		logger.WarnContext(ctx, "Ignoring event of unknown kind")
		return nil
	}

	if errors.Is(err, core.ErrNotFound) {
		logger.WarnContext(ctx, "Record referenced by event not found, skipping", applog.FieldError, err)
		return nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "Export failed", applog.FieldError, err)
		return err
	}

	logger.InfoContext(ctx, "Event exported", applog.FieldOperation, applog.OpExport, "sheets_ref", ref)
	return nil
}

func (w *ExportWorker) exportIncome(ctx context.Context, id int64) (string, error) {
	in, err := w.store.GetIncome(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get income: %w", err)
	}
	account, err := w.accountName(ctx, in.AccountID)
	if err != nil {
		return "", err
	}
	return w.appendLedger(ctx, sheets.IncomeRow(in, account))
}

func (w *ExportWorker) exportExpense(ctx context.Context, id int64) (string, error) {
	e, err := w.store.GetExpense(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get expense: %w", err)
	}
	account, err := w.accountName(ctx, e.AccountID)
	if err != nil {
		return "", err
	}
	return w.appendLedger(ctx, sheets.ExpenseRow(e, account))
}

func (w *ExportWorker) exportTransfer(ctx context.Context, id int64) (string, error) {
	t, err := w.store.GetTransfer(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get transfer: %w", err)
	}
	from, err := w.accountName(ctx, t.FromAccountID)
	if err != nil {
		return "", err
	}
	to, err := w.accountName(ctx, t.ToAccountID)
	if err != nil {
		return "", err
	}
	return w.appendLedger(ctx, sheets.TransferRow(t, from, to))
}

func (w *ExportWorker) exportReminder(ctx context.Context, kind core.ObligationKind, id int64) (string, error) {
	o, err := w.store.GetObligation(ctx, kind, id)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", kind, err)
	}
	ref, err := w.exporter.AppendReminderRow(ctx, sheets.ObligationRow(o))
	if err != nil {
		return "", fmt.Errorf("append reminder row: %w", err)
	}
	return ref, nil
}

func (w *ExportWorker) appendLedger(ctx context.Context, row sheets.LedgerRow) (string, error) {
	ref, err := w.exporter.AppendLedgerRow(ctx, row)
	if err != nil {
		return "", fmt.Errorf("append ledger row: %w", err)
	}
	return ref, nil
}

// accountName resolves an account id, falling back to a placeholder for
// accounts that have gone missing.
func (w *ExportWorker) accountName(ctx context.Context, id int64) (string, error) {
	a, err := w.store.GetAccount(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.UnknownAccountName, nil
	}
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}
	return a.Name, nil
}
