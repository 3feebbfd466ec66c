package relay

import (
	"encoding/json"
	"fmt"

	"collab-search-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillRelay republishes engine events onto an in-process watermill
// topic. Transport adapters and projections subscribe to the topic instead
// of registering engine listeners, which keeps their work off the session's
// critical section.
type WatermillRelay struct {
	pubSub *gochannel.GoChannel
	topic  string
}

// NewPubSub builds the in-process pub/sub the relay publishes to. The buffer
// keeps Publish from blocking inside the engine while subscribers drain.
func NewPubSub(buffer int) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: int64(buffer)},
		watermill.NopLogger{},
	)
}

func NewWatermillRelay(pubSub *gochannel.GoChannel, topic string) *WatermillRelay {
	return &WatermillRelay{
		pubSub: pubSub,
		topic:  topic,
	}
}

// OnEvent implements broadcast.Listener.
func (r *WatermillRelay) OnEvent(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	msg.Metadata.Set("session_id", event.SessionId.String())

	return r.pubSub.Publish(r.topic, msg)
}
