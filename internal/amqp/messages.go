package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind names what happened to the referenced record.
type EventKind string

const (
	EventIncomeRecorded   EventKind = "income.recorded"
	EventExpenseRecorded  EventKind = "expense.recorded"
	EventTransferRecorded EventKind = "transfer.recorded"
	EventReceivableDue    EventKind = "receivable.due"
	EventPayableDue       EventKind = "payable.due"
)

// IsValid reports whether k is a known event kind.
func (k EventKind) IsValid() bool {
	switch k {
	case EventIncomeRecorded, EventExpenseRecorded, EventTransferRecorded, EventReceivableDue, EventPayableDue:
		return true
	}
	return false
}

// LedgerEvent is a lightweight notification. It carries only the record id;
// consumers load the full record from the store.
type LedgerEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Kind      EventKind `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent stamps a fresh event id and the current time.
func NewLedgerEvent(kind EventKind, id int64) LedgerEvent {
	return LedgerEvent{
		EventID:   uuid.New(),
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and validates an event.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, err
	}
	if !e.Kind.IsValid() {
		return LedgerEvent{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.ID <= 0 {
		return LedgerEvent{}, fmt.Errorf("event %s has no record id", e.EventID)
	}
	return e, nil
}
