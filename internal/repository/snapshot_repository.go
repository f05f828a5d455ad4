package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

// SnapshotRepository mirrors externally created events into a Redis hash so
// they survive process restarts. The hash is keyed by event id with JSON
// values; it is a side mirror, never the source of truth.
type SnapshotRepository struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewSnapshotRepository constructs a snapshot repository on the given hash key.
func NewSnapshotRepository(client *redis.Client, key string, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{client: client, key: key, logger: logger}
}

// Load reads every stored event. Entries that fail to decode are logged and
// skipped rather than failing the whole load.
func (r *SnapshotRepository) Load(ctx context.Context) ([]models.Event, error) {
	if r.client == nil {
		return nil, nil
	}

	raw, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", r.key, err)
	}

	events := make([]models.Event, 0, len(raw))
	for id, payload := range raw {
		var event models.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			r.logger.Warn("skipping malformed snapshot entry", zap.String("event_id", id), zap.Error(err))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Save writes or overwrites one event in the mirror.
func (r *SnapshotRepository) Save(ctx context.Context, event models.Event) error {
	if r.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal snapshot entry %s: %w", event.ID, err)
	}
	if err := r.client.HSet(ctx, r.key, event.ID, payload).Err(); err != nil {
		return fmt.Errorf("write snapshot entry %s: %w", event.ID, err)
	}
	return nil
}

// Delete removes one event from the mirror.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, id).Err(); err != nil {
		return fmt.Errorf("delete snapshot entry %s: %w", id, err)
	}
	return nil
}
