package service

import (
	"context"
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

type ISessionService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*entity.Session, error)
	JoinSession(ctx context.Context, sessionId uuid.UUID, req *dto.JoinSessionRequest) (*entity.Session, error)
	LeaveSession(ctx context.Context, sessionId, participantId uuid.UUID) bool
	EndSession(ctx context.Context, sessionId uuid.UUID) bool
	UpdateCursor(ctx context.Context, sessionId, participantId uuid.UUID, x, y float64) bool
	GetSession(ctx context.Context, sessionId uuid.UUID) *entity.Session
	GetUserSessions(ctx context.Context, participantId uuid.UUID) []*entity.Session
	CleanupInactiveSessions(ctx context.Context, maxIdle time.Duration) int
	StartReaper(ctx context.Context, interval, maxIdle time.Duration)
	Subscribe(sessionId uuid.UUID, l broadcast.Listener)
	Unsubscribe(sessionId uuid.UUID, l broadcast.Listener)
}

type sessionService struct {
	cfg         config.SessionConfig
	sessions    *registry.SessionRegistry
	contexts    *memory.ContextRepository
	broadcaster *broadcast.Broadcaster
	idGen       identifier.Generator
	logger      logger.ILogger
}

func NewSessionService(
	cfg config.SessionConfig,
	sessions *registry.SessionRegistry,
	contexts *memory.ContextRepository,
	broadcaster *broadcast.Broadcaster,
	idGen identifier.Generator,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		cfg:         cfg,
		sessions:    sessions,
		contexts:    contexts,
		broadcaster: broadcaster,
		idGen:       idGen,
		logger:      log,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*entity.Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if s.sessions.ActiveCount(req.OwnerId) >= s.cfg.MaxSessionsPerOwner {
		return nil, ErrSessionQuotaExceeded
	}

	settings := entity.DefaultSessionSettings()
	settings.MaxParticipants = s.cfg.DefaultMaxParticipants
	req.Settings.Apply(&settings)

	now := time.Now()
	owner := &entity.Participant{
		Id:         req.OwnerId,
		Name:       req.OwnerName,
		Role:       entity.RoleOwner,
		JoinedAt:   now,
		LastActive: now,
		Color:      s.idGen.ColorFor(0),
	}
	session := &entity.Session{
		Id:           s.idGen.NewId(),
		Name:         req.Name,
		OwnerId:      req.OwnerId,
		Participants: []*entity.Participant{owner},
		Settings:     settings,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	searchContext := &entity.SearchContext{
		SessionId:   session.Id,
		Filters:     make(map[string]interface{}),
		Results:     make([]entity.Result, 0),
		Notes:       make([]*entity.Note, 0),
		Annotations: make([]*entity.Annotation, 0),
		UpdatedAt:   now,
	}

	// Context and session must exist in lockstep; register the context first
	// so no caller can observe the session without it.
	s.contexts.Save(searchContext)
	s.sessions.Register(session)

	// A listener can hand the id to another caller the moment the event
	// fires, so the emit and the snapshot both happen under the session's
	// serialization lock like every other operation.
	var snapshot *entity.Session
	s.sessions.WithSession(session.Id, func(registered *entity.Session) {
		s.broadcaster.Emit(events.New(events.SessionCreated, registered.Id, req.OwnerId, map[string]interface{}{
			"name": registered.Name,
		}))
		snapshot = registered.Clone()
	})

	s.logger.Info("SessionService", "Session created", map[string]interface{}{
		"session_id": session.Id,
		"owner_id":   req.OwnerId,
	})

	return snapshot, nil
}

func (s *sessionService) JoinSession(ctx context.Context, sessionId uuid.UUID, req *dto.JoinSessionRequest) (*entity.Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = entity.RoleViewer
	}

	var (
		snapshot *entity.Session
		joinErr  error
	)
	s.sessions.WithSession(sessionId, func(session *entity.Session) {
		if !session.IsActive {
			return
		}

		// Idempotent re-join: refresh activity, no duplicate, no event.
		if p := session.Participant(req.ParticipantId); p != nil {
			p.LastActive = time.Now()
			snapshot = session.Clone()
			return
		}

		if len(session.Participants) >= session.Settings.MaxParticipants {
			joinErr = ErrSessionFull
			return
		}

		now := time.Now()
		participant := &entity.Participant{
			Id:         req.ParticipantId,
			Name:       req.Name,
			Role:       role,
			JoinedAt:   now,
			LastActive: now,
			Color:      s.idGen.ColorFor(len(session.Participants)),
		}
		session.Participants = append(session.Participants, participant)
		session.UpdatedAt = now
		s.sessions.Index(req.ParticipantId, sessionId)

		s.broadcaster.Emit(events.New(events.ParticipantJoined, sessionId, req.ParticipantId, map[string]interface{}{
			"name": req.Name,
			"role": string(role),
		}))
		snapshot = session.Clone()
	})
	if joinErr != nil {
		return nil, joinErr
	}
	return snapshot, nil
}

func (s *sessionService) LeaveSession(ctx context.Context, sessionId, participantId uuid.UUID) bool {
	removed := false
	s.sessions.WithSession(sessionId, func(session *entity.Session) {
		if !session.IsActive {
			return
		}
		idx := -1
		for i, p := range session.Participants {
			if p.Id == participantId {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}

		session.Participants = append(session.Participants[:idx], session.Participants[idx+1:]...)
		session.UpdatedAt = time.Now()
		s.sessions.Unindex(participantId, sessionId)
		removed = true

		s.broadcaster.Emit(events.New(events.ParticipantLeft, sessionId, participantId, nil))

		// The last departure tears the whole thing down; an active session
		// never has an empty participant list.
		if len(session.Participants) == 0 {
			s.endSessionLocked(session, participantId)
		}
	})
	return removed
}

func (s *sessionService) EndSession(ctx context.Context, sessionId uuid.UUID) bool {
	ended := false
	s.sessions.WithSession(sessionId, func(session *entity.Session) {
		if !session.IsActive {
			return
		}
		s.endSessionLocked(session, session.OwnerId)
		ended = true
	})
	return ended
}

// endSessionLocked runs under the session's serialization lock. It flips the
// active flag, discards the shared context, detaches every remaining
// participant's reverse index entry and emits session-ended before the
// listener list is dropped.
func (s *sessionService) endSessionLocked(session *entity.Session, actorId uuid.UUID) {
	session.IsActive = false
	session.UpdatedAt = time.Now()

	s.contexts.Delete(session.Id)
	for _, p := range session.Participants {
		s.sessions.Unindex(p.Id, session.Id)
	}
	s.sessions.Unindex(session.OwnerId, session.Id)

	s.broadcaster.Emit(events.New(events.SessionEnded, session.Id, actorId, nil))
	s.broadcaster.DropSession(session.Id)
	s.sessions.Remove(session.Id)

	s.logger.Info("SessionService", "Session ended", map[string]interface{}{
		"session_id": session.Id,
	})
}

func (s *sessionService) UpdateCursor(ctx context.Context, sessionId, participantId uuid.UUID, x, y float64) bool {
	moved := false
	s.sessions.WithSession(sessionId, func(session *entity.Session) {
		if !session.IsActive {
			return
		}
		p := session.Participant(participantId)
		if p == nil {
			return
		}
		p.Cursor = &entity.CursorPosition{X: x, Y: y}
		p.LastActive = time.Now()
		moved = true

		s.broadcaster.Emit(events.New(events.CursorMoved, sessionId, participantId, map[string]interface{}{
			"x": x,
			"y": y,
		}))
	})
	return moved
}

func (s *sessionService) GetSession(ctx context.Context, sessionId uuid.UUID) *entity.Session {
	var snapshot *entity.Session
	s.sessions.WithSession(sessionId, func(session *entity.Session) {
		if session.IsActive {
			snapshot = session.Clone()
		}
	})
	return snapshot
}

func (s *sessionService) GetUserSessions(ctx context.Context, participantId uuid.UUID) []*entity.Session {
	result := make([]*entity.Session, 0)
	for _, id := range s.sessions.UserSessions(participantId) {
		s.sessions.WithSession(id, func(session *entity.Session) {
			if session.IsActive {
				result = append(result, session.Clone())
			}
		})
	}
	return result
}

func (s *sessionService) CleanupInactiveSessions(ctx context.Context, maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	count := 0
	for _, id := range s.sessions.SessionIds() {
		s.sessions.WithSession(id, func(session *entity.Session) {
			if session.IsActive && session.UpdatedAt.Before(cutoff) {
				s.endSessionLocked(session, session.OwnerId)
				count++
			}
		})
	}
	if count > 0 {
		s.logger.Info("SessionService", "Idle session sweep finished", map[string]interface{}{
			"reaped": count,
		})
	}
	return count
}

// StartReaper launches the idle-session sweep on its own schedule. It is the
// only background operation; everything else runs on caller goroutines.
func (s *sessionService) StartReaper(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupInactiveSessions(ctx, maxIdle)
			}
		}
	}()
}

func (s *sessionService) Subscribe(sessionId uuid.UUID, l broadcast.Listener) {
	s.broadcaster.Subscribe(sessionId, l)
}

func (s *sessionService) Unsubscribe(sessionId uuid.UUID, l broadcast.Listener) {
	s.broadcaster.Unsubscribe(sessionId, l)
}
