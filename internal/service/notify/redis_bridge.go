package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher publishes a message to a pub/sub channel.
type Publisher interface {
	Pub(channel string, message string) error
}

// RedisBridge mirrors store events across replicas: local events go out on
// the pub/sub channel, events from other replicas are injected into the
// local store so every replica's websocket clients see them. Each bridge
// stamps its events with a unique origin and drops messages carrying its
// own, so nothing loops.
type RedisBridge struct {
	store       *Store
	pub         Publisher
	channel     string
	origin      string
	logger      *zap.Logger
	unsubscribe func()
}

// NewRedisBridge creates the bridge and starts forwarding local store
// events to the channel.
func NewRedisBridge(store *Store, pub Publisher, channel string, logger *zap.Logger) *RedisBridge {
	b := &RedisBridge{
		store:   store,
		pub:     pub,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
	b.unsubscribe = store.Subscribe(func(event Event) {
		// Events injected by Listen already carry a foreign origin.
		if event.Origin != "" && event.Origin != b.origin {
			return
		}
		event.Origin = b.origin
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		if err := b.pub.Pub(b.channel, string(payload)); err != nil {
			b.logger.Warn("publishing order event failed", zap.Error(err))
		}
	})
	return b
}

// Listen consumes channel messages until ctx is cancelled or messages is
// closed, injecting foreign events into the local store.
func (b *RedisBridge) Listen(ctx context.Context, messages <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-messages:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				b.logger.Warn("dropping malformed order event", zap.Error(err))
				continue
			}
			if event.Origin == b.origin {
				continue
			}
			b.store.Publish(event)
		}
	}
}

// Close stops forwarding local events.
func (b *RedisBridge) Close() {
	b.unsubscribe()
}
