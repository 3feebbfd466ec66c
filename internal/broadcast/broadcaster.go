package broadcast

import (
	"sync"

	"collab-search-be/internal/pkg/logger"
	"collab-search-be/pkg/events"

	"github.com/google/uuid"
)

// Listener receives every event of the sessions it is subscribed to.
// Delivery happens inside the session's critical section, so listeners must
// be fast, must not block, and must not call back into the engine
// synchronously.
type Listener interface {
	OnEvent(event events.Event) error
}

// Broadcaster fans out session events to subscribed listeners, in
// subscription order, one session's listener list never seeing another
// session's events. A failing listener is logged and skipped; it never stops
// delivery to the rest.
type Broadcaster struct {
	// Registered listeners map: SessionID -> ordered list
	mu        sync.RWMutex
	listeners map[uuid.UUID][]Listener

	// Listeners that receive every session's events (relays, projections).
	// Delivered after the session's own listeners.
	global []Listener

	logger logger.ILogger
}

func NewBroadcaster(log logger.ILogger) *Broadcaster {
	return &Broadcaster{
		listeners: make(map[uuid.UUID][]Listener),
		logger:    log,
	}
}

// Subscribe appends the listener to the session's delivery list. Subscribing
// the same listener twice delivers every event twice.
func (b *Broadcaster) Subscribe(sessionId uuid.UUID, l Listener) {
	b.mu.Lock()
	b.listeners[sessionId] = append(b.listeners[sessionId], l)
	b.mu.Unlock()
}

// Unsubscribe removes the first registration of the listener, compared by
// interface identity. Unknown listeners are ignored.
func (b *Broadcaster) Unsubscribe(sessionId uuid.UUID, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list, ok := b.listeners[sessionId]
	if !ok {
		return
	}
	for i, registered := range list {
		if registered == l {
			b.listeners[sessionId] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(b.listeners[sessionId]) == 0 {
		delete(b.listeners, sessionId)
	}
}

// SubscribeAll registers a listener for every session's events, including
// session-created, which fires before anyone can subscribe per session.
func (b *Broadcaster) SubscribeAll(l Listener) {
	b.mu.Lock()
	b.global = append(b.global, l)
	b.mu.Unlock()
}

// UnsubscribeAll removes a SubscribeAll registration.
func (b *Broadcaster) UnsubscribeAll(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, registered := range b.global {
		if registered == l {
			b.global = append(b.global[:i], b.global[i+1:]...)
			return
		}
	}
}

// DropSession discards the session's whole listener list. Called when a
// session ends, after the session-ended event has gone out.
func (b *Broadcaster) DropSession(sessionId uuid.UUID) {
	b.mu.Lock()
	delete(b.listeners, sessionId)
	b.mu.Unlock()
}

// Emit delivers the event synchronously to the session's listeners in the
// order they subscribed. The underlying mutation has already been applied
// when Emit runs, so listeners never observe state older than the event.
func (b *Broadcaster) Emit(event events.Event) {
	b.mu.RLock()
	list := b.listeners[event.SessionId]
	snapshot := make([]Listener, 0, len(list)+len(b.global))
	snapshot = append(snapshot, list...)
	snapshot = append(snapshot, b.global...)
	b.mu.RUnlock()

	for _, l := range snapshot {
		b.deliver(l, event)
	}
}

func (b *Broadcaster) deliver(l Listener, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Broadcaster", "Listener panicked during delivery", map[string]interface{}{
				"event_type": event.Type,
				"session_id": event.SessionId,
				"panic":      r,
			})
		}
	}()

	if err := l.OnEvent(event); err != nil {
		b.logger.Warn("Broadcaster", "Listener returned error, continuing delivery", map[string]interface{}{
			"event_type": event.Type,
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
	}
}

type listenerFunc struct {
	fn func(event events.Event) error
}

func (l *listenerFunc) OnEvent(event events.Event) error {
	return l.fn(event)
}

// ListenerFunc adapts a plain function to the Listener interface. The
// returned value has pointer identity, so it can be passed to Unsubscribe.
func ListenerFunc(fn func(event events.Event) error) Listener {
	return &listenerFunc{fn: fn}
}
