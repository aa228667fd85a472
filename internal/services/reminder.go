package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// Reminder is an open obligation that falls inside the look-ahead window.
type Reminder struct {
	Obligation core.Obligation
	DaysLeft   int // negative when past due
}

func (r Reminder) PastDue() bool { return r.DaysLeft < 0 }

// ReminderProcessor finds open receivables and payables that are due soon
// or already past due. It reports them and never changes their status.
type ReminderProcessor struct {
	store     ports.ObligationStore
	lookahead time.Duration
	opts      options
}

func NewReminderProcessor(store ports.ObligationStore, lookahead time.Duration, opts ...Option) *ReminderProcessor {
	return &ReminderProcessor{store: store, lookahead: lookahead, opts: buildOptions(opts)}
}

// DueReminders lists reminders ordered by due date.
func (p *ReminderProcessor) DueReminders(ctx context.Context) ([]Reminder, error) {
	now := p.opts.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.Add(p.lookahead)

	var out []Reminder
	for _, kind := range []core.ObligationKind{core.Receivable, core.Payable} {
		list, err := p.store.ListObligations(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %ss: %w", kind, err)
		}
		for _, o := range list {
			if !o.Open() {
				continue
			}
			due, err := time.Parse(core.DateLayout, o.DueDate)
			if err != nil {
				slog.WarnContext(ctx, "Skipping obligation with unreadable due date",
					applog.FieldKind, kind, applog.FieldRecordID, o.ID, applog.FieldDueDate, o.DueDate)
				continue
			}
			if due.After(horizon) {
				continue
			}
			out = append(out, Reminder{Obligation: o, DaysLeft: int(due.Sub(today).Hours() / 24)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Obligation.DueDate < out[j].Obligation.DueDate
	})
	return out, nil
}

// ProcessPendingReminders logs and publishes one event per due reminder and
// returns how many were found.
func (p *ReminderProcessor) ProcessPendingReminders(ctx context.Context) (int, error) {
	reminders, err := p.DueReminders(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range reminders {
		kind := amqp.EventReceivableDue
		if r.Obligation.Kind == core.Payable {
			kind = amqp.EventPayableDue
		}
		slog.InfoContext(ctx, "Obligation due",
			applog.NewFields().
				WithComponent(applog.ComponentReminders).
				WithObligation(r.Obligation).
				ToSlice()...)
		publishEvent(ctx, p.opts.publisher, kind, r.Obligation.ID)
	}
	slog.InfoContext(ctx, "Reminder run completed", applog.FieldComponent, applog.ComponentReminders, "due", len(reminders))
	return len(reminders), nil
}
