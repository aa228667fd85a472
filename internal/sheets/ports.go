package sheets

import "context"

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		AppendLedgerRow(ctx context.Context, row LedgerRow) (rowRef string, err error)
	}

	ReminderWriter interface {
		AppendReminderRow(ctx context.Context, row ReminderRow) (rowRef string, err error)
	}

	// Exporter writes both ledger and reminder rows.
	Exporter interface {
		LedgerWriter
		ReminderWriter
	}
)
