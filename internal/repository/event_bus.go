package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

// EventBus carries "event created" notifications between producers elsewhere
// in the platform (e.g. the email-to-calendar feature) and this service, over
// a Redis pub/sub channel. The subscriber bridges messages into a typed Go
// channel so the event store never sees the wire format.
type EventBus struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewEventBus constructs a bus on the given pub/sub channel.
func NewEventBus(client *redis.Client, channel string, logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{client: client, channel: channel, logger: logger}
}

// Publish announces a newly created event to any listening process.
func (b *EventBus) Publish(ctx context.Context, event models.Event) error {
	if b.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal bus event %s: %w", event.ID, err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish bus event %s: %w", event.ID, err)
	}
	return nil
}

// Subscribe delivers decoded events into the returned channel until the
// context is cancelled. Malformed payloads are logged and dropped.
func (b *EventBus) Subscribe(ctx context.Context, buffer int) <-chan models.Event {
	out := make(chan models.Event, buffer)
	if b.client == nil {
		close(out)
		return out
	}

	sub := b.client.Subscribe(ctx, b.channel)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event models.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("dropping malformed bus payload", zap.String("channel", b.channel), zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
