package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

func TestAccountsAndAdjust(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.CreateAccount(ctx, core.Account{Name: "Main", Type: core.Checking, AccountNumber: "1234", Balance: core.MustParseMoney("100")})
	if err != nil || a.ID != 1 || a.CreatedAt.IsZero() {
		t.Fatalf("unexpected create: %+v err=%v", a, err)
	}
	got, err := s.AdjustBalance(ctx, a.ID, core.MustParseMoney("-30"))
	if err != nil || got.Balance.String() != "70.00" {
		t.Fatalf("unexpected adjust: %+v err=%v", got, err)
	}
	if _, err := s.AdjustBalance(ctx, 7, core.MustParseMoney("1")); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, _ := s.CountAccounts(ctx); n != 1 {
		t.Fatalf("expected one account, got %d", n)
	}
}

func TestInTxSnapshotRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.CreateAccount(ctx, core.Account{Name: "Main", Type: core.Checking, AccountNumber: "1234", Balance: core.MustParseMoney("100")})

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx ports.Store) error {
		if _, err := tx.CreateIncome(ctx, core.Income{Date: "2024-03-01", Amount: core.MustParseMoney("50"), Source: core.SourceSalary, AccountID: a.ID}); err != nil {
			return err
		}
		if _, err := tx.AdjustBalance(ctx, a.ID, core.MustParseMoney("50")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got, _ := s.GetAccount(ctx, a.ID); got.Balance.String() != "100.00" {
		t.Fatalf("balance leaked from rolled back unit: %s", got.Balance)
	}
	if list, _ := s.ListIncome(ctx, ""); len(list) != 0 {
		t.Fatalf("income leaked from rolled back unit: %+v", list)
	}

	// ids consumed by a rolled back unit are reused
	in, _ := s.CreateIncome(ctx, core.Income{Date: "2024-03-01", Amount: core.MustParseMoney("1"), Source: core.SourceOther, AccountID: a.ID})
	if in.ID != 1 {
		t.Fatalf("expected id 1, got %d", in.ID)
	}
}

func TestListsNewestFirstAndMonthFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, d := range []string{"2024-02-10", "2024-03-02", "2024-03-20"} {
		s.CreateExpense(ctx, core.Expense{Date: d, Amount: core.MustParseMoney("1"), Category: core.CategoryFood, AccountID: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	// same timestamp: higher id first
	s.CreateExpense(ctx, core.Expense{Date: "2024-03-21", Amount: core.MustParseMoney("1"), Category: core.CategoryFood, AccountID: 1, CreatedAt: base.Add(2 * time.Minute)})

	all, _ := s.ListExpenses(ctx, "")
	if len(all) != 4 || all[0].ID != 4 || all[1].ID != 3 || all[3].ID != 1 {
		t.Fatalf("unexpected order: %+v", all)
	}
	march, _ := s.ListExpenses(ctx, "2024-03")
	if len(march) != 3 {
		t.Fatalf("expected 3 march expenses, got %d", len(march))
	}
	recent, _ := s.RecentExpenses(ctx, 2)
	if len(recent) != 2 || recent[0].ID != 4 {
		t.Fatalf("unexpected recent: %+v", recent)
	}
}

func TestObligationKindsAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := New()
	r, _ := s.CreateObligation(ctx, core.Obligation{Kind: core.Receivable, Counterparty: "Acme", Status: core.StatusPending})
	p, _ := s.CreateObligation(ctx, core.Obligation{Kind: core.Payable, Counterparty: "Power Co", Status: core.StatusPending})
	if r.ID != 1 || p.ID != 1 {
		t.Fatalf("expected independent id sequences, got %d and %d", r.ID, p.ID)
	}
	if _, err := s.UpdateObligationStatus(ctx, core.Payable, 1, core.StatusPaid); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := s.GetObligation(ctx, core.Receivable, 1); got.Status != core.StatusPending {
		t.Fatalf("receivable changed by payable update: %s", got.Status)
	}
	if _, err := s.GetObligation(ctx, core.Payable, 9); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ListObligations(ctx, "loan"); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestConcurrentAdjustments(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.CreateAccount(ctx, core.Account{Name: "Main", Type: core.Checking, AccountNumber: "1234"})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.InTx(ctx, func(tx ports.Store) error {
				_, err := tx.AdjustBalance(ctx, a.ID, core.MustParseMoney("1.25"))
				return err
			})
		}()
	}
	wg.Wait()
	if got, _ := s.GetAccount(ctx, a.ID); got.Balance.String() != "125.00" {
		t.Fatalf("lost update: %s", got.Balance)
	}
}
