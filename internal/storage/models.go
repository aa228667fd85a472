package storage

// Row shapes as stored in SQLite. Money is kept in integer cents and
// timestamps as fixed-width UTC text so they sort lexically.

type Account struct {
	ID            int64
	Name          string
	Type          string
	AccountNumber string
	BalanceCents  int64
	CreatedAt     string
}

type Income struct {
	ID          int64
	Date        string
	AmountCents int64
	Source      string
	AccountID   int64
	Description string
	CreatedAt   string
}

type Expense struct {
	ID          int64
	Date        string
	AmountCents int64
	Category    string
	AccountID   int64
	Description string
	CreatedAt   string
}

type Transfer struct {
	ID            int64
	Date          string
	AmountCents   int64
	FromAccountID int64
	ToAccountID   int64
	Description   string
	CreatedAt     string
}

// Obligation is a row of either the receivables or the payables table.
// Counterparty maps to customer_name or vendor_name respectively.
type Obligation struct {
	ID           int64
	Date         string
	AmountCents  int64
	Counterparty string
	Description  string
	DueDate      string
	Status       string
	CreatedAt    string
}
