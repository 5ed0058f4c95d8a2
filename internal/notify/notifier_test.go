package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventContributionCreated, "portal", map[string]string{"name": "Alice"})

	if e.ID == uuid.Nil {
		t.Error("ID is nil")
	}
	if e.Type != EventContributionCreated {
		t.Errorf("Type = %q, want %q", e.Type, EventContributionCreated)
	}
	if e.OccurredAt.IsZero() {
		t.Error("OccurredAt is zero")
	}
	if len(e.Payload) == 0 {
		t.Error("Payload is empty")
	}
}

func TestNewEventUnmarshalablePayload(t *testing.T) {
	// Channels cannot be marshalled; the event survives with no payload.
	e := NewEvent(EventExpenseVoided, "", make(chan int))
	if e.Payload != nil {
		t.Errorf("Payload = %q, want empty", e.Payload)
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	e := NewEvent(EventSettlementRecorded, "treasurer", map[string]string{"recipient": "Alice"})

	body, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	got, err := EventFromJSON(body)
	if err != nil {
		t.Fatalf("EventFromJSON() error = %v", err)
	}
	if got.ID != e.ID || got.Type != e.Type || got.Actor != e.Actor {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestLogNotifier(t *testing.T) {
	n := LogNotifier{}
	if err := n.Notify(context.Background(), NewEvent(EventPaymentRecorded, "", nil)); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
