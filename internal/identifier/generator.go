package identifier

import "github.com/google/uuid"

// Generator hands out collision-free ids for sessions, notes, annotations
// and replies, plus stable display colors for participants.
type Generator interface {
	NewId() uuid.UUID
	ColorFor(index int) string
}

// participantPalette mirrors the cursor colors the UI layer renders. A
// participant keeps the color picked at join time for the session's lifetime.
var participantPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff",
}

type uuidGenerator struct{}

func NewGenerator() Generator {
	return &uuidGenerator{}
}

func (g *uuidGenerator) NewId() uuid.UUID {
	return uuid.New()
}

func (g *uuidGenerator) ColorFor(index int) string {
	if index < 0 {
		index = -index
	}
	return participantPalette[index%len(participantPalette)]
}
