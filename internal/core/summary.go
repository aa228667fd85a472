package core

import "time"

// UnknownAccountName labels activity whose account no longer resolves.
const UnknownAccountName = "Unknown Account"

const (
	// RecentActivityLimit caps the merged activity feed.
	RecentActivityLimit = 10
	// RecentPerKind is how many rows of each transaction kind feed the activity list.
	RecentPerKind = 5
	// TopCategories caps the category breakdown.
	TopCategories = 5
)

// MonthlySummary aggregates the current calendar month.
type MonthlySummary struct {
	Month         string `json:"month"`
	MonthLabel    string `json:"monthLabel"`
	TotalIncome   Money  `json:"totalIncome"`
	TotalExpenses Money  `json:"totalExpenses"`
	NetIncome     Money  `json:"netIncome"`
	TotalBalance  Money  `json:"totalBalance"`
}

// Activity is one row of the recent activity feed.
type Activity struct {
	Type            TransactionKind `json:"type"`
	ID              int64           `json:"id"`
	Date            string          `json:"date"`
	Amount          Money           `json:"amount"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	AccountName     string          `json:"accountName,omitempty"`
	FromAccountName string          `json:"fromAccountName,omitempty"`
	ToAccountName   string          `json:"toAccountName,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SortKey is the instant used to order the feed. Rows without a creation
// timestamp fall back to their calendar date.
func (a Activity) SortKey() time.Time {
	if !a.CreatedAt.IsZero() {
		return a.CreatedAt
	}
	t, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CategoryAmount represents an amount aggregated by expense category.
type CategoryAmount struct {
	Category ExpenseCategory `json:"category"`
	Total    Money           `json:"total"`
}

// Dashboard bundles the three read-side aggregates.
type Dashboard struct {
	Summary    MonthlySummary   `json:"summary"`
	Activity   []Activity       `json:"activity"`
	Categories []CategoryAmount `json:"categories"`
}
