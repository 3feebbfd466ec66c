package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"collab-search-be/internal/bootstrap"
	"collab-search-be/internal/broadcast"
	"collab-search-be/internal/config"
	"collab-search-be/internal/dto"
	"collab-search-be/internal/entity"
	"collab-search-be/internal/tracer"
	"collab-search-be/pkg/events"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Drives a scripted two-participant session against the engine and prints
// every emitted event, so the whole mutation/event contract can be eyeballed
// without a transport layer in front of it.

var eventColors = map[events.Type]*color.Color{
	events.SessionCreated:    color.New(color.FgGreen, color.Bold),
	events.SessionEnded:      color.New(color.FgRed, color.Bold),
	events.ParticipantJoined: color.New(color.FgCyan),
	events.ParticipantLeft:   color.New(color.FgYellow),
	events.CursorMoved:       color.New(color.FgHiBlack),
}

func printEvent(event events.Event) error {
	c, ok := eventColors[event.Type]
	if !ok {
		c = color.New(color.FgWhite)
	}
	payload, _ := json.Marshal(event.Data)
	c.Printf("[%s] %s actor=%s %s\n",
		event.OccurredAt.Format("15:04:05.000"),
		event.Type,
		event.ActorId,
		string(payload),
	)
	return nil
}

func main() {
	fmt.Println("=== Collaborative Session Simulation ===")

	shutdown := tracer.InitTracer()
	defer shutdown(context.Background())

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	ctx := context.Background()

	svc := container.SessionService
	ctxSvc := container.ContextService

	container.Broadcaster.SubscribeAll(broadcast.ListenerFunc(printEvent))

	owner := uuid.New()
	guest := uuid.New()

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{
		Name:      "quarterly research sync",
		OwnerId:   owner,
		OwnerName: "Asha",
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	fmt.Printf("Session Created: %s\n", session.Id)

	if _, err := svc.JoinSession(ctx, session.Id, &dto.JoinSessionRequest{
		ParticipantId: guest,
		Name:          "Ben",
		Role:          entity.RoleViewer,
	}); err != nil {
		log.Fatalf("Failed to join session: %v", err)
	}

	ctxSvc.UpdateQuery(ctx, session.Id, owner, "distributed consensus papers")
	ctxSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"year": 2024})
	ctxSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"venue": "OSDI"})
	ctxSvc.UpdateResults(ctx, session.Id, owner, []entity.Result{
		{Id: "r-1", Title: "Raft Refloated", Score: 0.92},
		{Id: "r-2", Title: "Paxos Made Moderately Complex", Score: 0.88},
	})
	ctxSvc.SelectResult(ctx, session.Id, owner, "r-1")

	// Viewer commentary is allowed under default settings.
	if _, err := ctxSvc.AddNote(ctx, session.Id, guest, &dto.AddNoteRequest{
		Content: "r-2 has the cleaner proof sketch",
	}); err != nil {
		log.Fatalf("Failed to add note: %v", err)
	}

	annotation, err := ctxSvc.AddAnnotation(ctx, session.Id, owner, &dto.AddAnnotationRequest{
		Type:        entity.AnnotationQuestion,
		TargetId:    "r-1",
		Text:        "leader election timeout",
		StartOffset: 10,
		EndOffset:   34,
	})
	if err != nil {
		log.Fatalf("Failed to add annotation: %v", err)
	}
	if _, err := ctxSvc.AddReply(ctx, session.Id, guest, &dto.AddReplyRequest{
		AnnotationId: annotation.Id,
		Content:      "section 5.2 covers this",
	}); err != nil {
		log.Fatalf("Failed to add reply: %v", err)
	}

	svc.UpdateCursor(ctx, session.Id, guest, 412, 197)

	snapshot := ctxSvc.GetSearchContext(ctx, session.Id)
	fmt.Printf("\nFinal context: query=%q filters=%v notes=%d annotations=%d\n",
		snapshot.Query, snapshot.Filters, len(snapshot.Notes), len(snapshot.Annotations))

	svc.LeaveSession(ctx, session.Id, guest)
	svc.LeaveSession(ctx, session.Id, owner)

	// Give the async relays a beat to drain before exit.
	time.Sleep(100 * time.Millisecond)
	container.Logger.Sync()
}
