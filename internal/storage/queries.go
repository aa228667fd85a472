package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// Accounts

const accountColumns = `id, name, type, account_number, balance_cents, created_at`

func scanAccount(s scanner) (Account, error) {
	var a Account
	err := s.Scan(&a.ID, &a.Name, &a.Type, &a.AccountNumber, &a.BalanceCents, &a.CreatedAt)
	return a, err
}

type CreateAccountParams struct {
	Name          string
	Type          string
	AccountNumber string
	BalanceCents  int64
	CreatedAt     string
}

const createAccount = `INSERT INTO accounts (name, type, account_number, balance_cents, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + accountColumns

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, createAccount, arg.Name, arg.Type, arg.AccountNumber, arg.BalanceCents, arg.CreatedAt)
	return scanAccount(row)
}

const getAccount = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

func (q *Queries) GetAccount(ctx context.Context, id int64) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccount, id))
}

const listAccounts = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const countAccounts = `SELECT COUNT(*) FROM accounts`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAccounts).Scan(&n)
	return n, err
}

type AdjustAccountBalanceParams struct {
	DeltaCents int64
	ID         int64
}

const adjustAccountBalance = `UPDATE accounts SET balance_cents = balance_cents + ?
WHERE id = ?
RETURNING ` + accountColumns

// AdjustAccountBalance returns sql.ErrNoRows when the account does not exist.
func (q *Queries) AdjustAccountBalance(ctx context.Context, arg AdjustAccountBalanceParams) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, adjustAccountBalance, arg.DeltaCents, arg.ID))
}

// Income

const incomeColumns = `id, date, amount_cents, source, account_id, description, created_at`

func scanIncome(s scanner) (Income, error) {
	var i Income
	err := s.Scan(&i.ID, &i.Date, &i.AmountCents, &i.Source, &i.AccountID, &i.Description, &i.CreatedAt)
	return i, err
}

type CreateIncomeParams struct {
	Date        string
	AmountCents int64
	Source      string
	AccountID   int64
	Description string
	CreatedAt   string
}

const createIncome = `INSERT INTO income (date, amount_cents, source, account_id, description, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + incomeColumns

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (Income, error) {
	row := q.db.QueryRowContext(ctx, createIncome, arg.Date, arg.AmountCents, arg.Source, arg.AccountID, arg.Description, arg.CreatedAt)
	return scanIncome(row)
}

const getIncome = `SELECT ` + incomeColumns + ` FROM income WHERE id = ?`

func (q *Queries) GetIncome(ctx context.Context, id int64) (Income, error) {
	return scanIncome(q.db.QueryRowContext(ctx, getIncome, id))
}

const listIncome = `SELECT ` + incomeColumns + ` FROM income
WHERE date LIKE ?
ORDER BY created_at DESC, id DESC`

// ListIncome filters on a date prefix; pass "" for every row.
func (q *Queries) ListIncome(ctx context.Context, datePrefix string) ([]Income, error) {
	return queryIncome(ctx, q.db, listIncome, datePrefix+"%")
}

const recentIncome = `SELECT ` + incomeColumns + ` FROM income
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (q *Queries) RecentIncome(ctx context.Context, limit int64) ([]Income, error) {
	return queryIncome(ctx, q.db, recentIncome, limit)
}

func queryIncome(ctx context.Context, db DBTX, query string, args ...interface{}) ([]Income, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Expenses

const expenseColumns = `id, date, amount_cents, category, account_id, description, created_at`

func scanExpense(s scanner) (Expense, error) {
	var e Expense
	err := s.Scan(&e.ID, &e.Date, &e.AmountCents, &e.Category, &e.AccountID, &e.Description, &e.CreatedAt)
	return e, err
}

type CreateExpenseParams struct {
	Date        string
	AmountCents int64
	Category    string
	AccountID   int64
	Description string
	CreatedAt   string
}

const createExpense = `INSERT INTO expenses (date, amount_cents, category, account_id, description, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + expenseColumns

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Date, arg.AmountCents, arg.Category, arg.AccountID, arg.Description, arg.CreatedAt)
	return scanExpense(row)
}

const getExpense = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	return scanExpense(q.db.QueryRowContext(ctx, getExpense, id))
}

const listExpenses = `SELECT ` + expenseColumns + ` FROM expenses
WHERE date LIKE ?
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListExpenses(ctx context.Context, datePrefix string) ([]Expense, error) {
	return queryExpenses(ctx, q.db, listExpenses, datePrefix+"%")
}

const recentExpenses = `SELECT ` + expenseColumns + ` FROM expenses
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (q *Queries) RecentExpenses(ctx context.Context, limit int64) ([]Expense, error) {
	return queryExpenses(ctx, q.db, recentExpenses, limit)
}

func queryExpenses(ctx context.Context, db DBTX, query string, args ...interface{}) ([]Expense, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Transfers

const transferColumns = `id, date, amount_cents, from_account_id, to_account_id, description, created_at`

func scanTransfer(s scanner) (Transfer, error) {
	var t Transfer
	err := s.Scan(&t.ID, &t.Date, &t.AmountCents, &t.FromAccountID, &t.ToAccountID, &t.Description, &t.CreatedAt)
	return t, err
}

type CreateTransferParams struct {
	Date          string
	AmountCents   int64
	FromAccountID int64
	ToAccountID   int64
	Description   string
	CreatedAt     string
}

const createTransfer = `INSERT INTO transfers (date, amount_cents, from_account_id, to_account_id, description, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + transferColumns

func (q *Queries) CreateTransfer(ctx context.Context, arg CreateTransferParams) (Transfer, error) {
	row := q.db.QueryRowContext(ctx, createTransfer, arg.Date, arg.AmountCents, arg.FromAccountID, arg.ToAccountID, arg.Description, arg.CreatedAt)
	return scanTransfer(row)
}

const getTransfer = `SELECT ` + transferColumns + ` FROM transfers WHERE id = ?`

func (q *Queries) GetTransfer(ctx context.Context, id int64) (Transfer, error) {
	return scanTransfer(q.db.QueryRowContext(ctx, getTransfer, id))
}

const listTransfers = `SELECT ` + transferColumns + ` FROM transfers
ORDER BY created_at DESC, id DESC
LIMIT ?`

// ListTransfers returns at most limit rows; a negative limit means no limit.
func (q *Queries) ListTransfers(ctx context.Context, limit int64) ([]Transfer, error) {
	rows, err := q.db.QueryContext(ctx, listTransfers, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Receivables and payables share a shape; only the table and the
// counterparty column differ.

type obligationTable struct {
	create, get, list, updateStatus string
}

func newObligationTable(table, counterparty string) obligationTable {
	cols := fmt.Sprintf("id, date, amount_cents, %s, description, due_date, status, created_at", counterparty)
	return obligationTable{
		create: fmt.Sprintf(`INSERT INTO %s (date, amount_cents, %s, description, due_date, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING %s`, table, counterparty, cols),
		get:  fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, cols, table),
		list: fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC, id DESC`, cols, table),
		updateStatus: fmt.Sprintf(`UPDATE %s SET status = ? WHERE id = ?
RETURNING %s`, table, cols),
	}
}

var (
	receivablesTable = newObligationTable("receivables", "customer_name")
	payablesTable    = newObligationTable("payables", "vendor_name")
)

func scanObligation(s scanner) (Obligation, error) {
	var o Obligation
	err := s.Scan(&o.ID, &o.Date, &o.AmountCents, &o.Counterparty, &o.Description, &o.DueDate, &o.Status, &o.CreatedAt)
	return o, err
}

type CreateObligationParams struct {
	Date         string
	AmountCents  int64
	Counterparty string
	Description  string
	DueDate      string
	Status       string
	CreatedAt    string
}

func (q *Queries) createObligation(ctx context.Context, t obligationTable, arg CreateObligationParams) (Obligation, error) {
	row := q.db.QueryRowContext(ctx, t.create, arg.Date, arg.AmountCents, arg.Counterparty, arg.Description, arg.DueDate, arg.Status, arg.CreatedAt)
	return scanObligation(row)
}

func (q *Queries) getObligation(ctx context.Context, t obligationTable, id int64) (Obligation, error) {
	return scanObligation(q.db.QueryRowContext(ctx, t.get, id))
}

func (q *Queries) listObligations(ctx context.Context, t obligationTable) ([]Obligation, error) {
	rows, err := q.db.QueryContext(ctx, t.list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

func (q *Queries) updateObligationStatus(ctx context.Context, t obligationTable, id int64, status string) (Obligation, error) {
	return scanObligation(q.db.QueryRowContext(ctx, t.updateStatus, status, id))
}

func (q *Queries) CreateReceivable(ctx context.Context, arg CreateObligationParams) (Obligation, error) {
	return q.createObligation(ctx, receivablesTable, arg)
}

func (q *Queries) GetReceivable(ctx context.Context, id int64) (Obligation, error) {
	return q.getObligation(ctx, receivablesTable, id)
}

func (q *Queries) ListReceivables(ctx context.Context) ([]Obligation, error) {
	return q.listObligations(ctx, receivablesTable)
}

func (q *Queries) UpdateReceivableStatus(ctx context.Context, id int64, status string) (Obligation, error) {
	return q.updateObligationStatus(ctx, receivablesTable, id, status)
}

func (q *Queries) CreatePayable(ctx context.Context, arg CreateObligationParams) (Obligation, error) {
	return q.createObligation(ctx, payablesTable, arg)
}

func (q *Queries) GetPayable(ctx context.Context, id int64) (Obligation, error) {
	return q.getObligation(ctx, payablesTable, id)
}

func (q *Queries) ListPayables(ctx context.Context) ([]Obligation, error) {
	return q.listObligations(ctx, payablesTable)
}

func (q *Queries) UpdatePayableStatus(ctx context.Context, id int64, status string) (Obligation, error) {
	return q.updateObligationStatus(ctx, payablesTable, id, status)
}
