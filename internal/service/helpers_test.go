package service

import (
	"context"
	"sync"
	"time"

	"collab-search-be/internal/broadcast"
	"collab-search-be/internal/config"
	"collab-search-be/internal/dto"
	"collab-search-be/internal/entity"
	"collab-search-be/internal/identifier"
	"collab-search-be/internal/pkg/logger"
	"collab-search-be/internal/registry"
	"collab-search-be/internal/repository/memory"
	"collab-search-be/pkg/events"

	"github.com/google/uuid"
)

type engineFixture struct {
	sessions    *registry.SessionRegistry
	contexts    *memory.ContextRepository
	broadcaster *broadcast.Broadcaster
	sessionSvc  ISessionService
	contextSvc  IContextService
}

func newFixture() *engineFixture {
	log := logger.NewNopLogger()
	sessions := registry.NewSessionRegistry()
	contexts := memory.NewContextRepository()
	broadcaster := broadcast.NewBroadcaster(log)
	idGen := identifier.NewGenerator()
	cfg := config.SessionConfig{
		MaxSessionsPerOwner:    10,
		DefaultMaxParticipants: 50,
		IdleTimeout:            time.Hour,
		ReaperInterval:         10 * time.Minute,
	}
	return &engineFixture{
		sessions:    sessions,
		contexts:    contexts,
		broadcaster: broadcaster,
		sessionSvc:  NewSessionService(cfg, sessions, contexts, broadcaster, idGen, log),
		contextSvc:  NewContextService(sessions, contexts, broadcaster, idGen, log),
	}
}

func (f *engineFixture) mustCreate(name string, ownerId uuid.UUID, settings *dto.SettingsPatch) *entity.Session {
	session, err := f.sessionSvc.CreateSession(context.Background(), &dto.CreateSessionRequest{
		Name:      name,
		OwnerId:   ownerId,
		OwnerName: "owner",
		Settings:  settings,
	})
	if err != nil {
		panic(err)
	}
	return session
}

// eventRecorder collects everything it hears, for asserting on emission
// order and counts.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) OnEvent(event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *eventRecorder) count(t events.Type) int {
	n := 0
	for _, got := range r.types() {
		if got == t {
			n++
		}
	}
	return n
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }
