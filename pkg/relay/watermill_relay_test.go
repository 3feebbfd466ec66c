package relay

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"collab-search-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillRelayRepublishesEvents(t *testing.T) {
	pubSub := NewPubSub(16)
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, "collab-events")
	require.NoError(t, err)

	relay := NewWatermillRelay(pubSub, "collab-events")

	sessionId := uuid.New()
	actorId := uuid.New()
	emitted := events.New(events.QueryChanged, sessionId, actorId, map[string]interface{}{
		"query": "raft",
	})
	require.NoError(t, relay.OnEvent(emitted))

	select {
	case msg := <-messages:
		defer msg.Ack()
		assert.Equal(t, "query-changed", msg.Metadata.Get("event_type"))
		assert.Equal(t, sessionId.String(), msg.Metadata.Get("session_id"))

		var decoded events.Event
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, events.QueryChanged, decoded.Type)
		assert.Equal(t, sessionId, decoded.SessionId)
		assert.Equal(t, actorId, decoded.ActorId)
		assert.Equal(t, "raft", decoded.Data["query"])
	case <-time.After(2 * time.Second):
		t.Fatal("no message received on relay topic")
	}
}

func TestWatermillRelayPreservesOrder(t *testing.T) {
	pubSub := NewPubSub(16)
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, "collab-events")
	require.NoError(t, err)

	relay := NewWatermillRelay(pubSub, "collab-events")
	sessionId := uuid.New()
	actorId := uuid.New()

	wantTypes := []events.Type{events.SessionCreated, events.QueryChanged, events.SessionEnded}
	for _, typ := range wantTypes {
		require.NoError(t, relay.OnEvent(events.New(typ, sessionId, actorId, nil)))
	}

	for _, want := range wantTypes {
		select {
		case msg := <-messages:
			assert.Equal(t, string(want), msg.Metadata.Get("event_type"))
			msg.Ack()
		case <-time.After(2 * time.Second):
			t.Fatalf("missing %s on relay topic", want)
		}
	}
}
