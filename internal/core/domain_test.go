package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateAccountNumber(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"1234", true},
		{"12-34", true},
		{"ACC 1 2 3 4", true},
		{"****-****-9012", true},
		{"123", false},
		{"12 - 3", false},
		{"", false},
		{"abcd", false},
	}
	for i, tc := range cases {
		err := ValidateAccountNumber(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrAccountNumber) {
			t.Fatalf("case %d expected ErrAccountNumber, got %v", i, err)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	for _, m := range []string{"2024-01", "2024-12", "1999-09"} {
		if err := ValidateMonth(m); err != nil {
			t.Fatalf("%q expected ok, got %v", m, err)
		}
	}
	for _, m := range []string{"2024-13", "2024-00", "2024-1", "24-01", "2024-01-01", ""} {
		if err := ValidateMonth(m); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", m, err)
		}
	}
}

func TestInMonth(t *testing.T) {
	if !InMonth("2024-03-15", "2024-03") {
		t.Fatalf("expected match")
	}
	if InMonth("2024-04-01", "2024-03") {
		t.Fatalf("unexpected match")
	}
	if got := MonthOf(time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)); got != "2026-10" {
		t.Fatalf("MonthOf got %s", got)
	}
}

func TestAccountInputParse(t *testing.T) {
	acc, err := AccountInput{Name: " Main ", Type: Checking, AccountNumber: "1234"}.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Name != "Main" || acc.Balance.String() != "0.00" {
		t.Fatalf("got %+v", acc)
	}

	acc, err = AccountInput{Name: "Card", Type: Credit, AccountNumber: "9999", InitialBalance: "-1250"}.Parse()
	if err != nil || acc.Balance.String() != "-1250.00" {
		t.Fatalf("credit account: %+v err=%v", acc, err)
	}

	bads := []struct {
		in   AccountInput
		want error
	}{
		{AccountInput{Name: "", Type: Checking, AccountNumber: "1234"}, ErrEmptyName},
		{AccountInput{Name: strings.Repeat("x", 101), Type: Checking, AccountNumber: "1234"}, ErrNameTooLong},
		{AccountInput{Name: "a", Type: "brokerage", AccountNumber: "1234"}, ErrInvalidAccountType},
		{AccountInput{Name: "a", Type: Savings, AccountNumber: "12"}, ErrAccountNumber},
		{AccountInput{Name: "a", Type: Savings, AccountNumber: "1234", InitialBalance: "lots"}, ErrInvalidBalance},
	}
	for i, tc := range bads {
		if _, err := tc.in.Parse(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestTransactionInputParse(t *testing.T) {
	if _, err := (IncomeInput{Date: "2024-03-01", Amount: "10", Source: SourceSalary, AccountID: 1}).Parse(); err != nil {
		t.Fatalf("income: %v", err)
	}
	if _, err := (ExpenseInput{Date: "2024-03-01", Amount: "10", Category: CategoryFood, AccountID: 1}).Parse(); err != nil {
		t.Fatalf("expense: %v", err)
	}
	if _, err := (TransferInput{Date: "2024-03-01", Amount: "10", FromAccountID: 1, ToAccountID: 2}).Parse(); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	cases := []struct {
		name  string
		parse func() error
		want  error
	}{
		{"income missing date", func() error {
			_, err := IncomeInput{Amount: "1", Source: SourceSalary, AccountID: 1}.Parse()
			return err
		}, ErrInvalidDate},
		{"income bad date", func() error {
			_, err := IncomeInput{Date: "03/01/2024", Amount: "1", Source: SourceSalary, AccountID: 1}.Parse()
			return err
		}, ErrInvalidDate},
		{"income bad source", func() error {
			_, err := IncomeInput{Date: "2024-03-01", Amount: "1", Source: "lottery", AccountID: 1}.Parse()
			return err
		}, ErrInvalidSource},
		{"income no account", func() error {
			_, err := IncomeInput{Date: "2024-03-01", Amount: "1", Source: SourceSalary}.Parse()
			return err
		}, ErrMissingAccount},
		{"expense negative", func() error {
			_, err := ExpenseInput{Date: "2024-03-01", Amount: "-5", Category: CategoryFood, AccountID: 1}.Parse()
			return err
		}, ErrInvalidAmount},
		{"expense bad category", func() error {
			_, err := ExpenseInput{Date: "2024-03-01", Amount: "5", Category: "pets", AccountID: 1}.Parse()
			return err
		}, ErrInvalidCategory},
		{"expense long description", func() error {
			_, err := ExpenseInput{Date: "2024-03-01", Amount: "5", Category: CategoryFood, AccountID: 1, Description: strings.Repeat("d", 201)}.Parse()
			return err
		}, ErrDescriptionTooLong},
		{"transfer same account", func() error {
			_, err := TransferInput{Date: "2024-03-01", Amount: "5", FromAccountID: 3, ToAccountID: 3}.Parse()
			return err
		}, ErrSameAccount},
		{"transfer missing side", func() error {
			_, err := TransferInput{Date: "2024-03-01", Amount: "5", FromAccountID: 3}.Parse()
			return err
		}, ErrMissingAccount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.parse()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsValidation(err) {
				t.Fatalf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestObligationInputParse(t *testing.T) {
	in := ObligationInput{Kind: Receivable, Date: "2024-02-01", Amount: "200.00", Counterparty: "Acme", DueDate: "2024-03-01"}
	o, err := in.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusPending || !o.Open() {
		t.Fatalf("expected pending default, got %s", o.Status)
	}

	in.Status = "paid"
	if o, err = in.Parse(); err != nil || o.Status != StatusPaid || o.Open() {
		t.Fatalf("explicit status: %+v err=%v", o, err)
	}

	bad := in
	bad.Status = "bogus"
	if _, err := bad.Parse(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	bad = in
	bad.Counterparty = "  "
	if _, err := bad.Parse(); !errors.Is(err, ErrEmptyCounterparty) {
		t.Fatalf("expected ErrEmptyCounterparty, got %v", err)
	}
	bad = in
	bad.DueDate = ""
	if _, err := bad.Parse(); !errors.Is(err, ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
	bad = in
	bad.Kind = "loan"
	if _, err := bad.Parse(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestActivitySortKey(t *testing.T) {
	ts := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := (Activity{Date: "2024-01-01", CreatedAt: ts}).SortKey(); !got.Equal(ts) {
		t.Fatalf("expected created_at, got %v", got)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := (Activity{Date: "2024-01-01"}).SortKey(); !got.Equal(want) {
		t.Fatalf("expected date fallback, got %v", got)
	}
}
