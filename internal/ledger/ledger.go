// Package ledger implements the reconciliation core: sponsorship slots,
// contributions, expenses, payments and settlements, plus the read-only
// aggregated views derived from them.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"sevaledger/internal/core"
	"sevaledger/internal/notify"
	"sevaledger/internal/storage"
)

// Ledger composes the five books over one store. All writes go through it;
// the aggregated views never mutate.
type Ledger struct {
	store    storage.Store
	notifier notify.Notifier
	channels core.Channels
	now      func() time.Time

	// per-item locks serialize the slot-check-and-insert on contribution
	// submission; two racing submissions on the last slot must leave
	// exactly one winner
	muMap map[uuid.UUID]*sync.Mutex
	mapMu sync.Mutex

	// serializes the channel balance guard on settlement creation
	settleMu sync.Mutex
}

type Option func(*Ledger)

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store storage.Store, notifier notify.Notifier, channels core.Channels, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		notifier: notifier,
		channels: channels,
		now:      time.Now,
		muMap:    make(map[uuid.UUID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) itemLock(itemID uuid.UUID) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[itemID]; !exists {
		l.muMap[itemID] = &sync.Mutex{}
	}
	return l.muMap[itemID]
}

// fireEvent notifies listeners after a committed write. Failures are logged
// and never surfaced: notification must not undo or fail the mutation.
func (l *Ledger) fireEvent(ctx context.Context, eventType, actor string, payload any) {
	if l.notifier == nil {
		return
	}
	e := notify.NewEvent(eventType, actor, payload)
	if err := l.notifier.Notify(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", eventType,
			"event_id", e.ID,
			"error", err)
	}
}

// resolveChannel applies the default channel and rejects channels outside
// the configured registry.
func (l *Ledger) resolveChannel(ch core.Channel) (core.Channel, error) {
	if ch == "" {
		ch = l.channels.Default()
	}
	if !l.channels.Contains(ch) {
		return "", invalidInputf("unknown channel %q", ch)
	}
	return ch, nil
}
