package cart

import (
	"bytes"
	"context"
	"log"
	"time"

	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/storage"
)

// PollInterval is the fallback reconciliation period. Storage change
// events are the primary channel; the poll covers environments where
// event delivery is unreliable.
const PollInterval = 2 * time.Second

// Syncer keeps a Store consistent with the durable snapshot, which
// another instance may have rewritten. Conflicts resolve to
// last-writer-wins; snapshots are applied whole, never merged.
type Syncer struct {
	store    *Store
	storage  storage.Store
	interval time.Duration
}

// NewSyncer creates a syncer with the default poll interval.
func NewSyncer(store *Store, st storage.Store) *Syncer {
	return &Syncer{store: store, storage: st, interval: PollInterval}
}

// SetInterval overrides the poll interval. Zero keeps the default.
func (s *Syncer) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Run reconciles until ctx is cancelled. It listens for change events
// and polls on the fallback interval; both paths funnel into the same
// reconcile step, so duplicate delivery is harmless.
func (s *Syncer) Run(ctx context.Context) {
	var events <-chan storage.Event
	if ch, err := s.storage.Watch(ctx); err == nil {
		events = ch
	} else {
		log.Printf("cart sync: change watch unavailable, polling only: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil // poll keeps running
				continue
			}
			if ev.Key == StorageKey {
				s.reconcile()
			}
		case <-ticker.C:
			s.reconcile()
		}
	}
}

// reconcile compares the durable snapshot against the in-memory state
// and applies the durable side when they differ. A store whose own
// write produced the durable value compares equal and is left alone.
func (s *Syncer) reconcile() {
	data, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		log.Printf("cart sync: failed to read snapshot: %v", err)
		return
	}

	current := s.store.State()

	if !ok {
		// Key deleted externally: drop stale in-memory state.
		if !current.IsEmpty() {
			if err := s.store.Clear(); err != nil {
				log.Printf("cart sync: failed to clear cart: %v", err)
			}
		}
		return
	}

	currentData, err := current.MarshalSnapshot()
	if err != nil {
		log.Printf("cart sync: failed to marshal current state: %v", err)
		return
	}
	if bytes.Equal(currentData, data) {
		return
	}

	state, err := models.UnmarshalSnapshot(data)
	if err != nil {
		log.Printf("cart sync: ignoring invalid snapshot: %v", err)
		return
	}
	s.store.SetState(state)
}
