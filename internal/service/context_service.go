package service

import (
	"context"
	"time"

	"collab-search-be/internal/broadcast"
	"collab-search-be/internal/dto"
	"collab-search-be/internal/entity"
	"collab-search-be/internal/identifier"
	"collab-search-be/internal/permission"
	"collab-search-be/internal/pkg/logger"
	"collab-search-be/internal/registry"
	"collab-search-be/internal/repository/memory"
	"collab-search-be/pkg/events"

	"github.com/google/uuid"
)

type IContextService interface {
	GetSearchContext(ctx context.Context, sessionId uuid.UUID) *entity.SearchContext
	UpdateQuery(ctx context.Context, sessionId, participantId uuid.UUID, query string) *entity.SearchContext
	UpdateFilters(ctx context.Context, sessionId, participantId uuid.UUID, filters map[string]interface{}) *entity.SearchContext
	UpdateResults(ctx context.Context, sessionId, participantId uuid.UUID, results []entity.Result) *entity.SearchContext
	SelectResult(ctx context.Context, sessionId, participantId uuid.UUID, resultRef string) *entity.SearchContext
	AddNote(ctx context.Context, sessionId, participantId uuid.UUID, req *dto.AddNoteRequest) (*entity.Note, error)
	AddAnnotation(ctx context.Context, sessionId, participantId uuid.UUID, req *dto.AddAnnotationRequest) (*entity.Annotation, error)
	AddReply(ctx context.Context, sessionId, participantId uuid.UUID, req *dto.AddReplyRequest) (*entity.Reply, error)
}

type contextService struct {
	sessions    *registry.SessionRegistry
	contexts    *memory.ContextRepository
	broadcaster *broadcast.Broadcaster
	idGen       identifier.Generator
	logger      logger.ILogger
}

func NewContextService(
	sessions *registry.SessionRegistry,
	contexts *memory.ContextRepository,
	broadcaster *broadcast.Broadcaster,
	idGen identifier.Generator,
	log logger.ILogger,
) IContextService {
	return &contextService{
		sessions:    sessions,
		contexts:    contexts,
		broadcaster: broadcaster,
		idGen:       idGen,
		logger:      log,
	}
}

// mutate is the shared shape of every context mutation: resolve an active
// session and its context, consult the permission gate, apply, bump both
// updatedAt stamps and emit — all inside the session's serialization lock.
// apply returns the event payload, or nil to signal the mutation was not
// applied after all.
func (c *contextService) mutate(
	sessionId, participantId uuid.UUID,
	kind permission.MutationKind,
	eventType events.Type,
	apply func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{},
) *entity.SearchContext {
	var snapshot *entity.SearchContext
	c.sessions.WithSession(sessionId, func(session *entity.Session) {
		if !session.IsActive {
			return
		}
		sctx, ok := c.contexts.Get(sessionId)
		if !ok {
			return
		}
		if !permission.CanMutate(session, participantId, kind) {
			c.logger.Debug("ContextService", "Mutation denied", map[string]interface{}{
				"session_id":     sessionId,
				"participant_id": participantId,
				"kind":           string(kind),
			})
			return
		}

		data := apply(session, sctx)
		if data == nil {
			return
		}

		now := time.Now()
		sctx.UpdatedAt = now
		session.UpdatedAt = now
		if p := session.Participant(participantId); p != nil {
			p.LastActive = now
		}

		c.broadcaster.Emit(events.New(eventType, sessionId, participantId, data))
		snapshot = sctx.Clone()
	})
	return snapshot
}

func (c *contextService) GetSearchContext(ctx context.Context, sessionId uuid.UUID) *entity.SearchContext {
	var snapshot *entity.SearchContext
	c.sessions.WithSession(sessionId, func(session *entity.Session) {
		if !session.IsActive {
			return
		}
		if sctx, ok := c.contexts.Get(sessionId); ok {
			snapshot = sctx.Clone()
		}
	})
	return snapshot
}

func (c *contextService) UpdateQuery(ctx context.Context, sessionId, participantId uuid.UUID, query string) *entity.SearchContext {
	return c.mutate(sessionId, participantId, permission.MutateQuery, events.QueryChanged,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			sctx.Query = query
			return map[string]interface{}{"query": query}
		})
}

// UpdateFilters shallow-merges the given entries into the existing filter
// map; it never replaces the map wholesale.
func (c *contextService) UpdateFilters(ctx context.Context, sessionId, participantId uuid.UUID, filters map[string]interface{}) *entity.SearchContext {
	return c.mutate(sessionId, participantId, permission.MutateFilters, events.FiltersChanged,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			for k, v := range filters {
				sctx.Filters[k] = v
			}
			return map[string]interface{}{"filters": filters}
		})
}

func (c *contextService) UpdateResults(ctx context.Context, sessionId, participantId uuid.UUID, results []entity.Result) *entity.SearchContext {
	return c.mutate(sessionId, participantId, permission.MutateResults, events.ResultsUpdated,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			sctx.Results = make([]entity.Result, len(results))
			copy(sctx.Results, results)
			return map[string]interface{}{"count": len(results)}
		})
}

// SelectResult stores the reference without checking it against the current
// result set; validating the selection is the caller's responsibility.
func (c *contextService) SelectResult(ctx context.Context, sessionId, participantId uuid.UUID, resultRef string) *entity.SearchContext {
	return c.mutate(sessionId, participantId, permission.MutateSelection, events.ResultSelected,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			sctx.SelectedResult = &resultRef
			return map[string]interface{}{"result_id": resultRef}
		})
}

func (c *contextService) AddNote(ctx context.Context, sessionId, participantId uuid.UUID, req *dto.AddNoteRequest) (*entity.Note, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var created *entity.Note
	c.mutate(sessionId, participantId, permission.MutateNote, events.NoteAdded,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			note := &entity.Note{
				Id:        c.idGen.NewId(),
				AuthorId:  participantId,
				Content:   req.Content,
				Position:  req.Position,
				TargetRef: req.TargetRef,
				CreatedAt: time.Now(),
			}
			sctx.Notes = append(sctx.Notes, note)
			created = note.Clone()
			return map[string]interface{}{"note_id": note.Id, "content": note.Content}
		})
	return created, nil
}

func (c *contextService) AddAnnotation(ctx context.Context, sessionId, participantId uuid.UUID, req *dto.AddAnnotationRequest) (*entity.Annotation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var created *entity.Annotation
	c.mutate(sessionId, participantId, permission.MutateAnnotation, events.AnnotationAdded,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			annotation := &entity.Annotation{
				Id:          c.idGen.NewId(),
				AuthorId:    participantId,
				Type:        req.Type,
				TargetId:    req.TargetId,
				Text:        req.Text,
				StartOffset: req.StartOffset,
				EndOffset:   req.EndOffset,
				Replies:     make([]*entity.Reply, 0),
				CreatedAt:   time.Now(),
			}
			sctx.Annotations = append(sctx.Annotations, annotation)
			created = annotation.Clone()
			return map[string]interface{}{"annotation_id": annotation.Id, "target_id": annotation.TargetId, "type": string(annotation.Type)}
		})
	return created, nil
}

func (c *contextService) AddReply(ctx context.Context, sessionId, participantId uuid.UUID, req *dto.AddReplyRequest) (*entity.Reply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var created *entity.Reply
	c.mutate(sessionId, participantId, permission.MutateReply, events.AnnotationUpdated,
		func(session *entity.Session, sctx *entity.SearchContext) map[string]interface{} {
			annotation := sctx.Annotation(req.AnnotationId)
			if annotation == nil {
				return nil
			}
			reply := &entity.Reply{
				Id:        c.idGen.NewId(),
				AuthorId:  participantId,
				Content:   req.Content,
				CreatedAt: time.Now(),
			}
			annotation.Replies = append(annotation.Replies, reply)
			now := time.Now()
			annotation.UpdatedAt = &now
			cp := *reply
			created = &cp
			return map[string]interface{}{"annotation_id": annotation.Id, "reply_id": reply.Id}
		})
	return created, nil
}
