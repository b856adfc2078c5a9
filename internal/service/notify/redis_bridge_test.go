package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	messages []string
}

func (p *fakePublisher) Pub(channel string, message string) error {
	p.messages = append(p.messages, message)
	return nil
}

func TestBridgePublishesLocalEvents(t *testing.T) {
	store := NewStore()
	pub := &fakePublisher{}
	bridge := NewRedisBridge(store, pub, "orders", zap.NewNop())
	defer bridge.Close()

	store.Publish(Event{Type: EventStatusChanged, OrderNumber: "ORD-7", Message: "moved"})

	require.Len(t, pub.messages, 1)
	var sent Event
	require.NoError(t, json.Unmarshal([]byte(pub.messages[0]), &sent))
	assert.Equal(t, "ORD-7", sent.OrderNumber)
	assert.Equal(t, bridge.origin, sent.Origin)
}

func TestBridgeInjectsForeignEvents(t *testing.T) {
	store := NewStore()
	pub := &fakePublisher{}
	bridge := NewRedisBridge(store, pub, "orders", zap.NewNop())
	defer bridge.Close()

	var got []Event
	defer store.Subscribe(func(e Event) { got = append(got, e) })()

	foreign, err := json.Marshal(Event{
		Type:        EventOrderCreated,
		OrderNumber: "ORD-9",
		Message:     "from another replica",
		At:          time.Now(),
		Origin:      "other-instance",
	})
	require.NoError(t, err)

	messages := make(chan string, 1)
	messages <- string(foreign)
	close(messages)
	bridge.Listen(context.Background(), messages)

	require.Len(t, got, 1)
	assert.Equal(t, "ORD-9", got[0].OrderNumber)
	// The foreign event must not be re-published back onto the channel.
	assert.Empty(t, pub.messages)
}

func TestBridgeDropsItsOwnEchoes(t *testing.T) {
	store := NewStore()
	pub := &fakePublisher{}
	bridge := NewRedisBridge(store, pub, "orders", zap.NewNop())
	defer bridge.Close()

	store.Publish(Event{Type: EventOrderRated, OrderNumber: "ORD-3", Message: "rated"})
	require.Len(t, pub.messages, 1)

	echoed := 0
	defer store.Subscribe(func(e Event) { echoed++ })()

	// Feed the bridge's own message back, as redis pub/sub would.
	messages := make(chan string, 1)
	messages <- pub.messages[0]
	close(messages)
	bridge.Listen(context.Background(), messages)

	assert.Zero(t, echoed)
	assert.Len(t, pub.messages, 1)
}
