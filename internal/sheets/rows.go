package sheets

import (
	"strconv"

	"fintrack/internal/core"
)

// LedgerRow is one line of the ledger sheet.
type LedgerRow struct {
	Date         string
	Kind         core.TransactionKind
	Amount       core.Money
	SignedAmount core.Money // effect on net worth; zero for transfers
	Accounts     string
	Label        string // income source or expense category
	Description  string
	ID           int64
}

// Values returns the cells in sheet column order.
func (r LedgerRow) Values() []any {
	return []any{
		r.Date,
		string(r.Kind),
		r.Amount.String(),
		r.SignedAmount.String(),
		r.Accounts,
		r.Label,
		r.Description,
		strconv.FormatInt(r.ID, 10),
	}
}

// ReminderRow is one line of the reminders sheet.
type ReminderRow struct {
	DueDate      string
	Kind         core.ObligationKind
	Counterparty string
	Amount       core.Money
	Status       core.ObligationStatus
	ID           int64
}

func (r ReminderRow) Values() []any {
	return []any{
		r.DueDate,
		string(r.Kind),
		r.Counterparty,
		r.Amount.String(),
		string(r.Status),
		strconv.FormatInt(r.ID, 10),
	}
}

func IncomeRow(in core.Income, account string) LedgerRow {
	return LedgerRow{
		Date:         in.Date,
		Kind:         core.KindIncome,
		Amount:       in.Amount,
		SignedAmount: in.Amount,
		Accounts:     account,
		Label:        string(in.Source),
		Description:  in.Description,
		ID:           in.ID,
	}
}

func ExpenseRow(e core.Expense, account string) LedgerRow {
	return LedgerRow{
		Date:         e.Date,
		Kind:         core.KindExpense,
		Amount:       e.Amount,
		SignedAmount: e.Amount.Neg(),
		Accounts:     account,
		Label:        string(e.Category),
		Description:  e.Description,
		ID:           e.ID,
	}
}

func TransferRow(t core.Transfer, from, to string) LedgerRow {
	return LedgerRow{
		Date:         t.Date,
		Kind:         core.KindTransfer,
		Amount:       t.Amount,
		SignedAmount: core.Zero,
		Accounts:     from + " -> " + to,
		Description:  t.Description,
		ID:           t.ID,
	}
}

func ObligationRow(o core.Obligation) ReminderRow {
	return ReminderRow{
		DueDate:      o.DueDate,
		Kind:         o.Kind,
		Counterparty: o.Counterparty,
		Amount:       o.Amount,
		Status:       o.Status,
		ID:           o.ID,
	}
}
