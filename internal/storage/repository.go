package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"

	_ "modernc.org/sqlite"
)

// timestampLayout is fixed width so created_at columns order lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
	*store
}

// store implements ports.Store over a Queries bound to the database or to a
// transaction.
type store struct {
	queries *Queries
}

var (
	_ ports.Backend = (*SQLiteRepository)(nil)
	_ ports.Store   = (*store)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %w", core.ErrStoreUnavailable, err)
	}
	// A single connection serialises writers; SQLite allows only one anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", core.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:    db,
		store: &store{queries: New(db)},
	}, nil
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements ports.Backend
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	return nil
}

// InTx implements ports.TxRunner
func (r *SQLiteRepository) InTx(ctx context.Context, fn func(tx ports.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", core.ErrStoreUnavailable, err)
	}
	if err := fn(&store{queries: r.queries.WithTx(tx)}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Accounts

func (s *store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.queries.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]core.Account, len(rows))
	for i, a := range rows {
		out[i] = toAccount(a)
	}
	return out, nil
}

func (s *store) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	a, err := s.queries.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, notFound(err, "account", id)
	}
	return toAccount(a), nil
}

func (s *store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	row, err := s.queries.CreateAccount(ctx, CreateAccountParams{
		Name:          a.Name,
		Type:          string(a.Type),
		AccountNumber: a.AccountNumber,
		BalanceCents:  a.Balance.Cents(),
		CreatedAt:     formatTimestamp(a.CreatedAt),
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved to SQLite", "id", row.ID, "type", row.Type, "balance_cents", row.BalanceCents)
	return toAccount(row), nil
}

func (s *store) AdjustBalance(ctx context.Context, id int64, delta core.Money) (core.Account, error) {
	row, err := s.queries.AdjustAccountBalance(ctx, AdjustAccountBalanceParams{DeltaCents: delta.Cents(), ID: id})
	if err != nil {
		return core.Account{}, notFound(err, "account", id)
	}
	return toAccount(row), nil
}

func (s *store) CountAccounts(ctx context.Context) (int64, error) {
	n, err := s.queries.CountAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// Income

func (s *store) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	row, err := s.queries.CreateIncome(ctx, CreateIncomeParams{
		Date:        in.Date,
		AmountCents: in.Amount.Cents(),
		Source:      string(in.Source),
		AccountID:   in.AccountID,
		Description: in.Description,
		CreatedAt:   formatTimestamp(in.CreatedAt),
	})
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}
	return toIncome(row), nil
}

func (s *store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row, err := s.queries.GetIncome(ctx, id)
	if err != nil {
		return core.Income{}, notFound(err, "income", id)
	}
	return toIncome(row), nil
}

func (s *store) ListIncome(ctx context.Context, month string) ([]core.Income, error) {
	rows, err := s.queries.ListIncome(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	return mapRows(rows, toIncome), nil
}

func (s *store) RecentIncome(ctx context.Context, limit int) ([]core.Income, error) {
	rows, err := s.queries.RecentIncome(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent income: %w", err)
	}
	return mapRows(rows, toIncome), nil
}

// Expenses

func (s *store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row, err := s.queries.CreateExpense(ctx, CreateExpenseParams{
		Date:        e.Date,
		AmountCents: e.Amount.Cents(),
		Category:    string(e.Category),
		AccountID:   e.AccountID,
		Description: e.Description,
		CreatedAt:   formatTimestamp(e.CreatedAt),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return toExpense(row), nil
}

func (s *store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row, err := s.queries.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, notFound(err, "expense", id)
	}
	return toExpense(row), nil
}

func (s *store) ListExpenses(ctx context.Context, month string) ([]core.Expense, error) {
	rows, err := s.queries.ListExpenses(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return mapRows(rows, toExpense), nil
}

func (s *store) RecentExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := s.queries.RecentExpenses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}
	return mapRows(rows, toExpense), nil
}

// Transfers

func (s *store) CreateTransfer(ctx context.Context, t core.Transfer) (core.Transfer, error) {
	row, err := s.queries.CreateTransfer(ctx, CreateTransferParams{
		Date:          t.Date,
		AmountCents:   t.Amount.Cents(),
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Description:   t.Description,
		CreatedAt:     formatTimestamp(t.CreatedAt),
	})
	if err != nil {
		return core.Transfer{}, fmt.Errorf("create transfer: %w", err)
	}
	return toTransfer(row), nil
}

func (s *store) GetTransfer(ctx context.Context, id int64) (core.Transfer, error) {
	row, err := s.queries.GetTransfer(ctx, id)
	if err != nil {
		return core.Transfer{}, notFound(err, "transfer", id)
	}
	return toTransfer(row), nil
}

func (s *store) ListTransfers(ctx context.Context) ([]core.Transfer, error) {
	return s.RecentTransfers(ctx, -1)
}

func (s *store) RecentTransfers(ctx context.Context, limit int) ([]core.Transfer, error) {
	rows, err := s.queries.ListTransfers(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return mapRows(rows, toTransfer), nil
}

// Obligations

func (s *store) CreateObligation(ctx context.Context, o core.Obligation) (core.Obligation, error) {
	arg := CreateObligationParams{
		Date:         o.Date,
		AmountCents:  o.Amount.Cents(),
		Counterparty: o.Counterparty,
		Description:  o.Description,
		DueDate:      o.DueDate,
		Status:       string(o.Status),
		CreatedAt:    formatTimestamp(o.CreatedAt),
	}
	var (
		row Obligation
		err error
	)
	switch o.Kind {
	case core.Receivable:
		row, err = s.queries.CreateReceivable(ctx, arg)
	case core.Payable:
		row, err = s.queries.CreatePayable(ctx, arg)
	default:
		return core.Obligation{}, core.ErrInvalidKind
	}
	if err != nil {
		return core.Obligation{}, fmt.Errorf("create %s: %w", o.Kind, err)
	}
	return toObligation(o.Kind, row), nil
}

func (s *store) GetObligation(ctx context.Context, kind core.ObligationKind, id int64) (core.Obligation, error) {
	var (
		row Obligation
		err error
	)
	switch kind {
	case core.Receivable:
		row, err = s.queries.GetReceivable(ctx, id)
	case core.Payable:
		row, err = s.queries.GetPayable(ctx, id)
	default:
		return core.Obligation{}, core.ErrInvalidKind
	}
	if err != nil {
		return core.Obligation{}, notFound(err, string(kind), id)
	}
	return toObligation(kind, row), nil
}

func (s *store) ListObligations(ctx context.Context, kind core.ObligationKind) ([]core.Obligation, error) {
	var (
		rows []Obligation
		err  error
	)
	switch kind {
	case core.Receivable:
		rows, err = s.queries.ListReceivables(ctx)
	case core.Payable:
		rows, err = s.queries.ListPayables(ctx)
	default:
		return nil, core.ErrInvalidKind
	}
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	out := make([]core.Obligation, len(rows))
	for i, row := range rows {
		out[i] = toObligation(kind, row)
	}
	return out, nil
}

func (s *store) UpdateObligationStatus(ctx context.Context, kind core.ObligationKind, id int64, status core.ObligationStatus) (core.Obligation, error) {
	var (
		row Obligation
		err error
	)
	switch kind {
	case core.Receivable:
		row, err = s.queries.UpdateReceivableStatus(ctx, id, string(status))
	case core.Payable:
		row, err = s.queries.UpdatePayableStatus(ctx, id, string(status))
	default:
		return core.Obligation{}, core.ErrInvalidKind
	}
	if err != nil {
		return core.Obligation{}, notFound(err, string(kind), id)
	}

	slog.InfoContext(ctx, "Obligation status updated in SQLite", "kind", kind, "id", id, "status", status)
	return toObligation(kind, row), nil
}

// Row mapping

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFound(entity, id)
	}
	return fmt.Errorf("get %s %d: %w", entity, id, err)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp leaves the time zero for unreadable values; callers sort on
// the calendar date in that case.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}

func mapRows[R, T any](rows []R, fn func(R) T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}

func toAccount(a Account) core.Account {
	return core.Account{
		ID:            a.ID,
		Name:          a.Name,
		Type:          core.AccountType(a.Type),
		AccountNumber: a.AccountNumber,
		Balance:       core.NewMoneyFromCents(a.BalanceCents),
		CreatedAt:     parseTimestamp(a.CreatedAt),
	}
}

func toIncome(i Income) core.Income {
	return core.Income{
		ID:          i.ID,
		Date:        i.Date,
		Amount:      core.NewMoneyFromCents(i.AmountCents),
		Source:      core.IncomeSource(i.Source),
		AccountID:   i.AccountID,
		Description: i.Description,
		CreatedAt:   parseTimestamp(i.CreatedAt),
	}
}

func toExpense(e Expense) core.Expense {
	return core.Expense{
		ID:          e.ID,
		Date:        e.Date,
		Amount:      core.NewMoneyFromCents(e.AmountCents),
		Category:    core.ExpenseCategory(e.Category),
		AccountID:   e.AccountID,
		Description: e.Description,
		CreatedAt:   parseTimestamp(e.CreatedAt),
	}
}

func toTransfer(t Transfer) core.Transfer {
	return core.Transfer{
		ID:            t.ID,
		Date:          t.Date,
		Amount:        core.NewMoneyFromCents(t.AmountCents),
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Description:   t.Description,
		CreatedAt:     parseTimestamp(t.CreatedAt),
	}
}

func toObligation(kind core.ObligationKind, o Obligation) core.Obligation {
	return core.Obligation{
		ID:           o.ID,
		Kind:         kind,
		Date:         o.Date,
		Amount:       core.NewMoneyFromCents(o.AmountCents),
		Counterparty: o.Counterparty,
		Description:  o.Description,
		DueDate:      o.DueDate,
		Status:       core.ObligationStatus(o.Status),
		CreatedAt:    parseTimestamp(o.CreatedAt),
	}
}
