package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// Aggregator computes read-only views over accounts and transactions.
type Aggregator struct {
	store ports.Store
	opts  options
}

func NewAggregator(store ports.Store, opts ...Option) *Aggregator {
	return &Aggregator{store: store, opts: buildOptions(opts)}
}

// CurrentMonth is the YYYY-MM of the aggregator clock.
func (a *Aggregator) CurrentMonth() string {
	return core.MonthOf(a.opts.now())
}

// MonthlySummary totals the current month. The total balance covers every
// account regardless of month.
func (a *Aggregator) MonthlySummary(ctx context.Context) (core.MonthlySummary, error) {
	now := a.opts.now()
	month := core.MonthOf(now)

	var (
		income   []core.Income
		expenses []core.Expense
		accounts []core.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		income, err = a.store.ListIncome(gctx, month)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = a.store.ListExpenses(gctx, month)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = a.store.ListAccounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MonthlySummary{}, fmt.Errorf("monthly summary: %w", err)
	}

	totalIncome := core.Zero
	for _, in := range income {
		totalIncome = totalIncome.Add(in.Amount)
	}
	totalExpenses := core.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	totalBalance := core.Zero
	for _, acc := range accounts {
		totalBalance = totalBalance.Add(acc.Balance)
	}

	return core.MonthlySummary{
		Month:         month,
		MonthLabel:    now.Format("January 2006"),
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetIncome:     totalIncome.Sub(totalExpenses),
		TotalBalance:  totalBalance,
	}, nil
}

// RecentActivity merges the latest income, expenses and transfers, newest
// first, capped at core.RecentActivityLimit.
func (a *Aggregator) RecentActivity(ctx context.Context) ([]core.Activity, error) {
	var (
		accounts  []core.Account
		income    []core.Income
		expenses  []core.Expense
		transfers []core.Transfer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accounts, err = a.store.ListAccounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		income, err = a.store.RecentIncome(gctx, core.RecentPerKind)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = a.store.RecentExpenses(gctx, core.RecentPerKind)
		return err
	})
	g.Go(func() (err error) {
		transfers, err = a.store.RecentTransfers(gctx, core.RecentPerKind)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	names := make(map[int64]string, len(accounts))
	for _, acc := range accounts {
		names[acc.ID] = acc.Name
	}
	name := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		return core.UnknownAccountName
	}

	feed := make([]core.Activity, 0, len(income)+len(expenses)+len(transfers))
	for _, in := range income {
		feed = append(feed, core.Activity{
			Type: core.KindIncome, ID: in.ID, Date: in.Date, Amount: in.Amount,
			Description: in.Description, Category: string(in.Source),
			AccountName: name(in.AccountID), CreatedAt: in.CreatedAt,
		})
	}
	for _, e := range expenses {
		feed = append(feed, core.Activity{
			Type: core.KindExpense, ID: e.ID, Date: e.Date, Amount: e.Amount,
			Description: e.Description, Category: string(e.Category),
			AccountName: name(e.AccountID), CreatedAt: e.CreatedAt,
		})
	}
	for _, t := range transfers {
		feed = append(feed, core.Activity{
			Type: core.KindTransfer, ID: t.ID, Date: t.Date, Amount: t.Amount,
			Description:     t.Description,
			FromAccountName: name(t.FromAccountID), ToAccountName: name(t.ToAccountID),
			CreatedAt: t.CreatedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].SortKey().After(feed[j].SortKey())
	})
	if len(feed) > core.RecentActivityLimit {
		feed = feed[:core.RecentActivityLimit]
	}
	return feed, nil
}

// CategoryBreakdown sums the current month's expenses per category and
// returns the largest core.TopCategories.
func (a *Aggregator) CategoryBreakdown(ctx context.Context) ([]core.CategoryAmount, error) {
	expenses, err := a.store.ListExpenses(ctx, a.CurrentMonth())
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}

	totals := make(map[core.ExpenseCategory]core.Money)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	out := make([]core.CategoryAmount, 0, len(totals))
	for cat, total := range totals {
		out = append(out, core.CategoryAmount{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > core.TopCategories {
		out = out[:core.TopCategories]
	}
	return out, nil
}

// Dashboard fetches the three aggregates concurrently.
func (a *Aggregator) Dashboard(ctx context.Context) (core.Dashboard, error) {
	var d core.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Summary, err = a.MonthlySummary(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Activity, err = a.RecentActivity(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Categories, err = a.CategoryBreakdown(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, err
	}
	return d, nil
}
