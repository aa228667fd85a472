package services

import (
	"context"
	"time"

	"fintrack/internal/amqp"
)

// EventPublisher is the outbound side of the ledger event stream.
// *amqp.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event amqp.LedgerEvent) error
}

type options struct {
	now       func() time.Time
	publisher EventPublisher
}

// Option configures a service.
type Option func(*options)

// WithClock overrides the time source used for timestamps and month windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPublisher enables event publishing. Without it events are skipped.
func WithPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
