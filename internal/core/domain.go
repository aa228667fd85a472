package core

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Credit   AccountType = "credit"
)

const (
	SourceSalary     IncomeSource = "salary"
	SourceFreelance  IncomeSource = "freelance"
	SourceBusiness   IncomeSource = "business"
	SourceInvestment IncomeSource = "investment"
	SourceRental     IncomeSource = "rental"
	SourceOther      IncomeSource = "other"
)

const (
	CategoryFood           ExpenseCategory = "food"
	CategoryTransportation ExpenseCategory = "transportation"
	CategoryUtilities      ExpenseCategory = "utilities"
	CategoryEntertainment  ExpenseCategory = "entertainment"
	CategoryHealthcare     ExpenseCategory = "healthcare"
	CategoryShopping       ExpenseCategory = "shopping"
	CategoryEducation      ExpenseCategory = "education"
	CategoryTravel         ExpenseCategory = "travel"
	CategoryHousing        ExpenseCategory = "housing"
	CategoryOther          ExpenseCategory = "other"
)

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

const (
	StatusPending ObligationStatus = "pending"
	StatusPaid    ObligationStatus = "paid"
	StatusOverdue ObligationStatus = "overdue"
)

const (
	Receivable ObligationKind = "receivable"
	Payable    ObligationKind = "payable"
)

// DateLayout is the ISO calendar date format used for every date field.
const DateLayout = "2006-01-02"

// MonthLayout is the YYYY-MM prefix used for month filters.
const MonthLayout = "2006-01"

const (
	maxNameLength        = 100
	maxDescriptionLength = 200
	minAccountDigits     = 4
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type (
	AccountType      string
	IncomeSource     string
	ExpenseCategory  string
	TransactionKind  string
	ObligationStatus string
	ObligationKind   string

	Account struct {
		ID            int64       `json:"id"`
		Name          string      `json:"name"`
		Type          AccountType `json:"type"`
		AccountNumber string      `json:"accountNumber"`
		Balance       Money       `json:"balance"`
		CreatedAt     time.Time   `json:"createdAt"`
	}

	Income struct {
		ID          int64        `json:"id"`
		Date        string       `json:"date"`
		Amount      Money        `json:"amount"`
		Source      IncomeSource `json:"source"`
		AccountID   int64        `json:"accountId"`
		Description string       `json:"description,omitempty"`
		CreatedAt   time.Time    `json:"createdAt"`
	}

	Expense struct {
		ID          int64           `json:"id"`
		Date        string          `json:"date"`
		Amount      Money           `json:"amount"`
		Category    ExpenseCategory `json:"category"`
		AccountID   int64           `json:"accountId"`
		Description string          `json:"description,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	Transfer struct {
		ID            int64     `json:"id"`
		Date          string    `json:"date"`
		Amount        Money     `json:"amount"`
		FromAccountID int64     `json:"fromAccountId"`
		ToAccountID   int64     `json:"toAccountId"`
		Description   string    `json:"description,omitempty"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	// Obligation is a receivable or a payable. Counterparty is the customer
	// for receivables and the vendor for payables.
	Obligation struct {
		ID           int64
		Kind         ObligationKind
		Date         string
		Amount       Money
		Counterparty string
		Description  string
		DueDate      string
		Status       ObligationStatus
		CreatedAt    time.Time
	}
)

func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit:
		return true
	}
	return false
}

func (s IncomeSource) IsValid() bool {
	switch s {
	case SourceSalary, SourceFreelance, SourceBusiness, SourceInvestment, SourceRental, SourceOther:
		return true
	}
	return false
}

// ExpenseCategories lists every expense category in display order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryFood, CategoryTransportation, CategoryUtilities, CategoryEntertainment, CategoryHealthcare,
		CategoryShopping, CategoryEducation, CategoryTravel, CategoryHousing, CategoryOther,
	}
}

func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func (s ObligationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// ParseObligationStatus validates a raw status value.
func ParseObligationStatus(raw string) (ObligationStatus, error) {
	s := ObligationStatus(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func (k ObligationKind) IsValid() bool {
	return k == Receivable || k == Payable
}

// Open reports whether the obligation still awaits settlement.
func (o Obligation) Open() bool {
	return o.Status == StatusPending || o.Status == StatusOverdue
}

// ValidateAccountNumber requires at least four digits once spaces and hyphens
// are removed. Any other characters are kept as-is.
func ValidateAccountNumber(number string) error {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, number)
	digits := 0
	for _, r := range stripped {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < minAccountDigits {
		return ErrAccountNumber
	}
	return nil
}

// ValidateDate checks an ISO calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(date)); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonth checks a YYYY-MM month filter.
func ValidateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return ErrInvalidMonth
	}
	return nil
}

// MonthOf returns the YYYY-MM prefix for t.
func MonthOf(t time.Time) string {
	return t.Format(MonthLayout)
}

// InMonth reports whether an ISO date string falls in month using a plain
// string prefix match.
func InMonth(date, month string) bool {
	return strings.HasPrefix(date, month)
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateDescription(desc string) error {
	if len(desc) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
