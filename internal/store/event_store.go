package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/models"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

// Snapshots is the persistence boundary for the event mirror. Load failures
// are treated as an empty snapshot by the store; Save/Delete errors are
// surfaced to callers.
type Snapshots interface {
	Load(ctx context.Context) ([]models.Event, error)
	Save(ctx context.Context, event models.Event) error
	Delete(ctx context.Context, id string) error
}

// EventStore holds the authoritative in-memory list of meetings for the
// process. All reads hand out copies; mutations are serialized by the mutex,
// which replaces the run-to-completion guarantee the browser UI got for free.
type EventStore struct {
	mu        sync.RWMutex
	events    []models.Event
	index     map[string]int
	dirty     map[string]struct{}
	version   uint64
	snapshots Snapshots
	logger    *zap.Logger
}

// NewEventStore constructs an empty store backed by the given snapshot
// repository. Pass nil to run without persistence (tests do).
func NewEventStore(snapshots Snapshots, logger *zap.Logger) *EventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventStore{
		index:     make(map[string]int),
		dirty:     make(map[string]struct{}),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Load seeds the store and merges in the persisted snapshot. Entries already
// present by id win over snapshot entries; a snapshot that cannot be read is
// logged and treated as empty.
func (s *EventStore) Load(ctx context.Context, seed []models.Event) error {
	var snapshot []models.Event
	if s.snapshots != nil {
		loaded, err := s.snapshots.Load(ctx)
		if err != nil {
			s.logger.Warn("failed to load event snapshot, starting empty", zap.Error(err))
		} else {
			snapshot = loaded
		}
	}

	merged := Reconcile(seed, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = merged
	s.index = make(map[string]int, len(merged))
	for i, event := range merged {
		s.index[event.ID] = i
	}
	s.version++
	return nil
}

// All returns a copy of every event in insertion order.
func (s *EventStore) All() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get returns the event with the given id.
func (s *EventStore) Get(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Event{}, false
	}
	return s.events[i], true
}

// Len reports the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Version increments on every mutation; callers use it to invalidate caches.
func (s *EventStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Add appends a new event. Duplicate ids are a conflict: the dialogs mint
// fresh ids, so a collision means two writers raced on the same record.
func (s *EventStore) Add(event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[event.ID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "event id already exists")
	}
	s.index[event.ID] = len(s.events)
	s.events = append(s.events, event)
	s.version++
	return nil
}

// Ingest merges an externally created event. First write wins: when the id is
// already present the call is a silent no-op and Ingest reports false.
func (s *EventStore) Ingest(event models.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[event.ID]; exists {
		return false
	}
	s.index[event.ID] = len(s.events)
	s.events = append(s.events, event)
	if event.IsExternal() {
		s.dirty[event.ID] = struct{}{}
	}
	s.version++
	return true
}

// Update applies a partial patch to the stored event and returns the result.
func (s *EventStore) Update(id string, patch models.EventPatch) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.Event{}, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	patch.Apply(&s.events[i])
	if s.events[i].IsExternal() {
		s.dirty[id] = struct{}{}
	}
	s.version++
	return s.events[i], nil
}

// Remove deletes the event. Externally originated events are also removed
// from the snapshot mirror so they do not resurrect on the next Load.
func (s *EventStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	event := s.events[i]
	s.events = append(s.events[:i], s.events[i+1:]...)
	delete(s.index, id)
	delete(s.dirty, id)
	for j := i; j < len(s.events); j++ {
		s.index[s.events[j].ID] = j
	}
	s.version++
	s.mu.Unlock()

	if event.IsExternal() && s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to remove event from snapshot", zap.String("event_id", id), zap.Error(err))
		}
	}
	return nil
}

// FlushSnapshot persists externally ingested events that changed since the
// last flush. Events that fail to save stay dirty for the next run.
func (s *EventStore) FlushSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	s.mu.RLock()
	pending := make([]models.Event, 0, len(s.dirty))
	for id := range s.dirty {
		if i, ok := s.index[id]; ok {
			pending = append(pending, s.events[i])
		}
	}
	s.mu.RUnlock()

	var firstErr error
	flushed := make([]string, 0, len(pending))
	for _, event := range pending {
		if err := s.snapshots.Save(ctx, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		flushed = append(flushed, event.ID)
	}

	s.mu.Lock()
	for _, id := range flushed {
		delete(s.dirty, id)
	}
	s.mu.Unlock()
	return firstErr
}

// Run consumes externally created events until the context is cancelled or
// the channel closes. observe, when non-nil, is called with each event and
// whether it was accepted or dropped as a duplicate.
func (s *EventStore) Run(ctx context.Context, incoming <-chan models.Event, observe func(models.Event, bool)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-incoming:
			if !ok {
				return
			}
			accepted := s.Ingest(event)
			if accepted {
				s.logger.Info("ingested external event", zap.String("event_id", event.ID), zap.String("title", event.Title))
			}
			if observe != nil {
				observe(event, accepted)
			}
		}
	}
}
