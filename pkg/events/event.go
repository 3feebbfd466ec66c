package events

import (
	"time"

	"github.com/google/uuid"
)

// Type is the fixed vocabulary of change notifications the engine emits.
type Type string

const (
	SessionCreated    Type = "session-created"
	ParticipantJoined Type = "participant-joined"
	ParticipantLeft   Type = "participant-left"
	QueryChanged      Type = "query-changed"
	FiltersChanged    Type = "filters-changed"
	ResultsUpdated    Type = "results-updated"
	ResultSelected    Type = "result-selected"
	NoteAdded         Type = "note-added"
	AnnotationAdded   Type = "annotation-added"
	AnnotationUpdated Type = "annotation-updated" // new reply on an annotation
	CursorMoved       Type = "cursor-moved"
	SessionEnded      Type = "session-ended"
)

// Event describes one applied mutation. By the time a listener sees it the
// change is already visible in the session's state.
type Event struct {
	Type       Type                   `json:"type"`
	SessionId  uuid.UUID              `json:"session_id"`
	ActorId    uuid.UUID              `json:"actor_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func (e Event) EventType() string {
	return string(e.Type)
}

// Payload returns the type-specific data blob.
func (e Event) Payload() map[string]interface{} {
	return e.Data
}

func (e Event) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds an event stamped with the current time.
func New(t Type, sessionId, actorId uuid.UUID, data map[string]interface{}) Event {
	return Event{
		Type:       t,
		SessionId:  sessionId,
		ActorId:    actorId,
		OccurredAt: time.Now(),
		Data:       data,
	}
}
