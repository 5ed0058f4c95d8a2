// Package notify carries ledger mutation events to interested listeners.
// Delivery is best-effort after the write commits; a failed notification
// never rolls back or fails the mutation.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event types fired by the ledger.
const (
	EventContributionCreated = "contribution.created"
	EventContributionUpdated = "contribution.updated"
	EventContributionDeleted = "contribution.deleted"
	EventExpenseRecorded     = "expense.recorded"
	EventExpenseUpdated      = "expense.updated"
	EventExpenseVoided       = "expense.voided"
	EventPaymentRecorded     = "payment.recorded"
	EventPaymentUpdated      = "payment.updated"
	EventPaymentDeleted      = "payment.deleted"
	EventSettlementRecorded  = "settlement.recorded"
)

type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Actor      string          `json:"actor,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent builds an event around the mutated record. Marshalling failures
// leave the payload empty rather than losing the event.
func NewEvent(eventType, actor string, payload any) Event {
	e := Event{
		ID:         uuid.New(),
		Type:       eventType,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if body, err := json.Marshal(payload); err == nil {
			e.Payload = body
		}
	}
	return e
}

func (e Event) ToJSON() ([]byte, error) { return json.Marshal(e) }

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
	Close() error
}

// LogNotifier writes events to the structured log only. It is the fallback
// when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, e Event) error {
	slog.InfoContext(ctx, "Ledger event",
		"event_id", e.ID,
		"type", e.Type,
		"actor", e.Actor)
	return nil
}

func (LogNotifier) Close() error { return nil }
