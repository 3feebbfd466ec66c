package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collab-search-be/internal/pkg/logger"
	"collab-search-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsRelay forwards engine events to a NATS JetStream stream so other
// instances (or external consumers) can observe sessions hosted here.
// Publishes are async: the engine never blocks on the broker inside a
// session's critical section.
type NatsRelay struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger logger.ILogger
}

func NewNatsRelay(url string, log logger.ILogger) (*NatsRelay, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Ensure the "COLLAB_EVENTS" stream exists
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      "COLLAB_EVENTS",
		Subjects:  []string{"collab.events.>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
	})
	if err != nil {
		log.Warn("NatsRelay", "Failed to ensure stream COLLAB_EVENTS", map[string]interface{}{
			"error": err.Error(),
		})
		// Don't fail hard here, maybe it already exists or NATS isn't ready
	}

	return &NatsRelay{nc: nc, js: js, logger: log}, nil
}

// OnEvent implements broadcast.Listener.
func (r *NatsRelay) OnEvent(event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("collab.events.%s", event.EventType())

	if _, err := r.js.PublishAsync(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

// Close closes the NATS connection.
func (r *NatsRelay) Close() {
	if r.nc != nil {
		r.nc.Close()
	}
}
