// Package memory is an in-process ledger store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// Store serialises every operation behind one mutex. InTx holds the mutex for
// the whole unit and works on a snapshot that replaces the live data only
// when the unit succeeds.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

var _ ports.Backend = (*Store)(nil)

type dataset struct {
	accounts    []core.Account
	income      []core.Income
	expenses    []core.Expense
	transfers   []core.Transfer
	receivables []core.Obligation
	payables    []core.Obligation
	lastID      map[string]int64
}

func New() *Store {
	return &Store{data: &dataset{lastID: map[string]int64{}}}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

// InTx implements ports.TxRunner
func (s *Store) InTx(ctx context.Context, fn func(tx ports.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(snapshot); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *Store) locked() (*dataset, func()) {
	s.mu.Lock()
	return s.data, s.mu.Unlock
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.ListAccounts(ctx)
}

func (s *Store) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.GetAccount(ctx, id)
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.CreateAccount(ctx, a)
}

func (s *Store) AdjustBalance(ctx context.Context, id int64, delta core.Money) (core.Account, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.AdjustBalance(ctx, id, delta)
}

func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.CountAccounts(ctx)
}

func (s *Store) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.CreateIncome(ctx, in)
}

func (s *Store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.GetIncome(ctx, id)
}

func (s *Store) ListIncome(ctx context.Context, month string) ([]core.Income, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.ListIncome(ctx, month)
}

func (s *Store) RecentIncome(ctx context.Context, limit int) ([]core.Income, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.RecentIncome(ctx, limit)
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.CreateExpense(ctx, e)
}

func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.GetExpense(ctx, id)
}

func (s *Store) ListExpenses(ctx context.Context, month string) ([]core.Expense, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.ListExpenses(ctx, month)
}

func (s *Store) RecentExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.RecentExpenses(ctx, limit)
}

func (s *Store) CreateTransfer(ctx context.Context, t core.Transfer) (core.Transfer, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.CreateTransfer(ctx, t)
}

func (s *Store) GetTransfer(ctx context.Context, id int64) (core.Transfer, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.GetTransfer(ctx, id)
}

func (s *Store) ListTransfers(ctx context.Context) ([]core.Transfer, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.ListTransfers(ctx)
}

func (s *Store) RecentTransfers(ctx context.Context, limit int) ([]core.Transfer, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.RecentTransfers(ctx, limit)
}

func (s *Store) CreateObligation(ctx context.Context, o core.Obligation) (core.Obligation, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.CreateObligation(ctx, o)
}

func (s *Store) GetObligation(ctx context.Context, kind core.ObligationKind, id int64) (core.Obligation, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.GetObligation(ctx, kind, id)
}

func (s *Store) ListObligations(ctx context.Context, kind core.ObligationKind) ([]core.Obligation, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.ListObligations(ctx, kind)
}

func (s *Store) UpdateObligationStatus(ctx context.Context, kind core.ObligationKind, id int64, status core.ObligationStatus) (core.Obligation, error) {
	d, unlock := s.locked()
	defer unlock()
	return d.UpdateObligationStatus(ctx, kind, id, status)
}

// dataset implements ports.Store without locking.

func (d *dataset) clone() *dataset {
	ids := make(map[string]int64, len(d.lastID))
	for k, v := range d.lastID {
		ids[k] = v
	}
	return &dataset{
		accounts:    append([]core.Account(nil), d.accounts...),
		income:      append([]core.Income(nil), d.income...),
		expenses:    append([]core.Expense(nil), d.expenses...),
		transfers:   append([]core.Transfer(nil), d.transfers...),
		receivables: append([]core.Obligation(nil), d.receivables...),
		payables:    append([]core.Obligation(nil), d.payables...),
		lastID:      ids,
	}
}

func (d *dataset) nextID(collection string) int64 {
	d.lastID[collection]++
	return d.lastID[collection]
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func (d *dataset) ListAccounts(context.Context) ([]core.Account, error) {
	return append([]core.Account(nil), d.accounts...), nil
}

func (d *dataset) GetAccount(_ context.Context, id int64) (core.Account, error) {
	i := d.accountIndex(id)
	if i < 0 {
		return core.Account{}, core.NotFound("account", id)
	}
	return d.accounts[i], nil
}

func (d *dataset) accountIndex(id int64) int {
	for i := range d.accounts {
		if d.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	a.ID = d.nextID("accounts")
	a.CreatedAt = stamp(a.CreatedAt)
	d.accounts = append(d.accounts, a)
	return a, nil
}

func (d *dataset) AdjustBalance(_ context.Context, id int64, delta core.Money) (core.Account, error) {
	i := d.accountIndex(id)
	if i < 0 {
		return core.Account{}, core.NotFound("account", id)
	}
	d.accounts[i].Balance = d.accounts[i].Balance.Add(delta)
	return d.accounts[i], nil
}

func (d *dataset) CountAccounts(context.Context) (int64, error) {
	return int64(len(d.accounts)), nil
}

func (d *dataset) CreateIncome(_ context.Context, in core.Income) (core.Income, error) {
	in.ID = d.nextID("income")
	in.CreatedAt = stamp(in.CreatedAt)
	d.income = append(d.income, in)
	return in, nil
}

func (d *dataset) GetIncome(_ context.Context, id int64) (core.Income, error) {
	for _, in := range d.income {
		if in.ID == id {
			return in, nil
		}
	}
	return core.Income{}, core.NotFound("income", id)
}

func (d *dataset) ListIncome(_ context.Context, month string) ([]core.Income, error) {
	return newestFirst(filter(d.income, func(in core.Income) bool { return core.InMonth(in.Date, month) }),
		func(in core.Income) (time.Time, int64) { return in.CreatedAt, in.ID }), nil
}

func (d *dataset) RecentIncome(ctx context.Context, limit int) ([]core.Income, error) {
	all, _ := d.ListIncome(ctx, "")
	return head(all, limit), nil
}

func (d *dataset) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	e.ID = d.nextID("expenses")
	e.CreatedAt = stamp(e.CreatedAt)
	d.expenses = append(d.expenses, e)
	return e, nil
}

func (d *dataset) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	for _, e := range d.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.NotFound("expense", id)
}

func (d *dataset) ListExpenses(_ context.Context, month string) ([]core.Expense, error) {
	return newestFirst(filter(d.expenses, func(e core.Expense) bool { return core.InMonth(e.Date, month) }),
		func(e core.Expense) (time.Time, int64) { return e.CreatedAt, e.ID }), nil
}

func (d *dataset) RecentExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	all, _ := d.ListExpenses(ctx, "")
	return head(all, limit), nil
}

func (d *dataset) CreateTransfer(_ context.Context, t core.Transfer) (core.Transfer, error) {
	if t.FromAccountID == t.ToAccountID {
		return core.Transfer{}, core.ErrSameAccount
	}
	t.ID = d.nextID("transfers")
	t.CreatedAt = stamp(t.CreatedAt)
	d.transfers = append(d.transfers, t)
	return t, nil
}

func (d *dataset) GetTransfer(_ context.Context, id int64) (core.Transfer, error) {
	for _, t := range d.transfers {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transfer{}, core.NotFound("transfer", id)
}

func (d *dataset) ListTransfers(context.Context) ([]core.Transfer, error) {
	return newestFirst(append([]core.Transfer(nil), d.transfers...),
		func(t core.Transfer) (time.Time, int64) { return t.CreatedAt, t.ID }), nil
}

func (d *dataset) RecentTransfers(ctx context.Context, limit int) ([]core.Transfer, error) {
	all, _ := d.ListTransfers(ctx)
	return head(all, limit), nil
}

func (d *dataset) obligations(kind core.ObligationKind) (*[]core.Obligation, error) {
	switch kind {
	case core.Receivable:
		return &d.receivables, nil
	case core.Payable:
		return &d.payables, nil
	}
	return nil, core.ErrInvalidKind
}

func (d *dataset) CreateObligation(_ context.Context, o core.Obligation) (core.Obligation, error) {
	list, err := d.obligations(o.Kind)
	if err != nil {
		return core.Obligation{}, err
	}
	o.ID = d.nextID(string(o.Kind))
	o.CreatedAt = stamp(o.CreatedAt)
	*list = append(*list, o)
	return o, nil
}

func (d *dataset) GetObligation(_ context.Context, kind core.ObligationKind, id int64) (core.Obligation, error) {
	list, err := d.obligations(kind)
	if err != nil {
		return core.Obligation{}, err
	}
	for _, o := range *list {
		if o.ID == id {
			return o, nil
		}
	}
	return core.Obligation{}, core.NotFound(string(kind), id)
}

func (d *dataset) ListObligations(_ context.Context, kind core.ObligationKind) ([]core.Obligation, error) {
	list, err := d.obligations(kind)
	if err != nil {
		return nil, err
	}
	return newestFirst(append([]core.Obligation(nil), *list...),
		func(o core.Obligation) (time.Time, int64) { return o.CreatedAt, o.ID }), nil
}

func (d *dataset) UpdateObligationStatus(_ context.Context, kind core.ObligationKind, id int64, status core.ObligationStatus) (core.Obligation, error) {
	list, err := d.obligations(kind)
	if err != nil {
		return core.Obligation{}, err
	}
	for i := range *list {
		if (*list)[i].ID == id {
			(*list)[i].Status = status
			return (*list)[i], nil
		}
	}
	return core.Obligation{}, core.NotFound(string(kind), id)
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// newestFirst sorts in place by creation time then id, both descending.
func newestFirst[T any](items []T, key func(T) (time.Time, int64)) []T {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
	return items
}

func head[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
