package core

import "strings"

// Raw inputs as they arrive from the API layer. Amounts are strings so that
// they are never decoded through float64.
type (
	AccountInput struct {
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		AccountNumber  string      `json:"accountNumber"`
		InitialBalance string      `json:"balance,omitempty"`
	}

	IncomeInput struct {
		Date        string       `json:"date"`
		Amount      string       `json:"amount"`
		Source      IncomeSource `json:"source"`
		AccountID   int64        `json:"accountId"`
		Description string       `json:"description,omitempty"`
	}

	ExpenseInput struct {
		Date        string          `json:"date"`
		Amount      string          `json:"amount"`
		Category    ExpenseCategory `json:"category"`
		AccountID   int64           `json:"accountId"`
		Description string          `json:"description,omitempty"`
	}

	TransferInput struct {
		Date          string `json:"date"`
		Amount        string `json:"amount"`
		FromAccountID int64  `json:"fromAccountId"`
		ToAccountID   int64  `json:"toAccountId"`
		Description   string `json:"description,omitempty"`
	}

	ObligationInput struct {
		Kind         ObligationKind
		Date         string
		Amount       string
		Counterparty string
		Description  string
		DueDate      string
		Status       string
	}
)

// Parse validates the input and returns an account ready to be stored.
func (in AccountInput) Parse() (Account, error) {
	if err := validateName(in.Name); err != nil {
		return Account{}, err
	}
	if !in.Type.IsValid() {
		return Account{}, ErrInvalidAccountType
	}
	if err := ValidateAccountNumber(in.AccountNumber); err != nil {
		return Account{}, err
	}
	balance := Zero
	if strings.TrimSpace(in.InitialBalance) != "" {
		b, err := ParseSignedAmount(in.InitialBalance)
		if err != nil {
			return Account{}, err
		}
		balance = b
	}
	return Account{
		Name:          strings.TrimSpace(in.Name),
		Type:          in.Type,
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Balance:       balance,
	}, nil
}

func (in IncomeInput) Parse() (Income, error) {
	date, amount, err := parseDateAmount(in.Date, in.Amount, in.Description)
	if err != nil {
		return Income{}, err
	}
	if !in.Source.IsValid() {
		return Income{}, ErrInvalidSource
	}
	if in.AccountID <= 0 {
		return Income{}, ErrMissingAccount
	}
	return Income{
		Date:        date,
		Amount:      amount,
		Source:      in.Source,
		AccountID:   in.AccountID,
		Description: strings.TrimSpace(in.Description),
	}, nil
}

func (in ExpenseInput) Parse() (Expense, error) {
	date, amount, err := parseDateAmount(in.Date, in.Amount, in.Description)
	if err != nil {
		return Expense{}, err
	}
	if !in.Category.IsValid() {
		return Expense{}, ErrInvalidCategory
	}
	if in.AccountID <= 0 {
		return Expense{}, ErrMissingAccount
	}
	return Expense{
		Date:        date,
		Amount:      amount,
		Category:    in.Category,
		AccountID:   in.AccountID,
		Description: strings.TrimSpace(in.Description),
	}, nil
}

func (in TransferInput) Parse() (Transfer, error) {
	date, amount, err := parseDateAmount(in.Date, in.Amount, in.Description)
	if err != nil {
		return Transfer{}, err
	}
	if in.FromAccountID <= 0 || in.ToAccountID <= 0 {
		return Transfer{}, ErrMissingAccount
	}
	if in.FromAccountID == in.ToAccountID {
		return Transfer{}, ErrSameAccount
	}
	return Transfer{
		Date:          date,
		Amount:        amount,
		FromAccountID: in.FromAccountID,
		ToAccountID:   in.ToAccountID,
		Description:   strings.TrimSpace(in.Description),
	}, nil
}

// Parse validates the input. An empty status defaults to pending.
func (in ObligationInput) Parse() (Obligation, error) {
	if !in.Kind.IsValid() {
		return Obligation{}, ErrInvalidKind
	}
	date, amount, err := parseDateAmount(in.Date, in.Amount, in.Description)
	if err != nil {
		return Obligation{}, err
	}
	if strings.TrimSpace(in.Counterparty) == "" {
		return Obligation{}, ErrEmptyCounterparty
	}
	if len(strings.TrimSpace(in.Counterparty)) > maxNameLength {
		return Obligation{}, ErrNameTooLong
	}
	due := strings.TrimSpace(in.DueDate)
	if ValidateDate(due) != nil {
		return Obligation{}, ErrInvalidDueDate
	}
	status := StatusPending
	if strings.TrimSpace(in.Status) != "" {
		if status, err = ParseObligationStatus(in.Status); err != nil {
			return Obligation{}, err
		}
	}
	return Obligation{
		Kind:         in.Kind,
		Date:         date,
		Amount:       amount,
		Counterparty: strings.TrimSpace(in.Counterparty),
		Description:  strings.TrimSpace(in.Description),
		DueDate:      due,
		Status:       status,
	}, nil
}

func parseDateAmount(date, amount, desc string) (string, Money, error) {
	date = strings.TrimSpace(date)
	if err := ValidateDate(date); err != nil {
		return "", Money{}, err
	}
	m, err := ParseAmount(amount)
	if err != nil {
		return "", Money{}, err
	}
	if err := validateDescription(strings.TrimSpace(desc)); err != nil {
		return "", Money{}, err
	}
	return date, m, nil
}
