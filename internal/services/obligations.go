package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// Obligations tracks receivables and payables. Status changes never touch
// account balances.
type Obligations struct {
	store ports.ObligationStore
	opts  options
}

func NewObligations(store ports.ObligationStore, opts ...Option) *Obligations {
	return &Obligations{store: store, opts: buildOptions(opts)}
}

func (s *Obligations) CreateReceivable(ctx context.Context, in core.ObligationInput) (core.Obligation, error) {
	in.Kind = core.Receivable
	return s.create(ctx, in)
}

func (s *Obligations) CreatePayable(ctx context.Context, in core.ObligationInput) (core.Obligation, error) {
	in.Kind = core.Payable
	return s.create(ctx, in)
}

func (s *Obligations) ListReceivables(ctx context.Context) ([]core.Obligation, error) {
	return orEmpty(s.store.ListObligations(ctx, core.Receivable))
}

func (s *Obligations) ListPayables(ctx context.Context) ([]core.Obligation, error) {
	return orEmpty(s.store.ListObligations(ctx, core.Payable))
}

// UpdateReceivableStatus accepts pending, paid or overdue. Any other value
// is rejected and the record is left untouched.
func (s *Obligations) UpdateReceivableStatus(ctx context.Context, id int64, status string) (core.Obligation, error) {
	return s.updateStatus(ctx, core.Receivable, id, status)
}

func (s *Obligations) UpdatePayableStatus(ctx context.Context, id int64, status string) (core.Obligation, error) {
	return s.updateStatus(ctx, core.Payable, id, status)
}

func (s *Obligations) create(ctx context.Context, in core.ObligationInput) (core.Obligation, error) {
	o, err := in.Parse()
	if err != nil {
		return core.Obligation{}, err
	}
	o.CreatedAt = s.opts.now().UTC()

	saved, err := s.store.CreateObligation(ctx, o)
	if err != nil {
		return core.Obligation{}, fmt.Errorf("create %s: %w", o.Kind, err)
	}

	slog.InfoContext(ctx, "Obligation created",
		applog.NewFields().
			WithComponent(applog.ComponentObligations).
			WithOperation(applog.OpCreate).
			WithObligation(saved).
			ToSlice()...)
	return saved, nil
}

func (s *Obligations) updateStatus(ctx context.Context, kind core.ObligationKind, id int64, raw string) (core.Obligation, error) {
	status, err := core.ParseObligationStatus(raw)
	if err != nil {
		return core.Obligation{}, err
	}

	updated, err := s.store.UpdateObligationStatus(ctx, kind, id, status)
	if err != nil {
		return core.Obligation{}, fmt.Errorf("update %s status: %w", kind, err)
	}

	slog.InfoContext(ctx, "Obligation status updated",
		applog.NewFields().
			WithComponent(applog.ComponentObligations).
			WithOperation(applog.OpUpdate).
			WithObligation(updated).
			ToSlice()...)
	return updated, nil
}
