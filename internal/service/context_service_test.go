package service

import (
	"context"
	"testing"

	"collab-search-be/internal/dto"
	"collab-search-be/internal/entity"
	"collab-search-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQueryAndTimestamps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	before := f.contextSvc.GetSearchContext(ctx, session.Id).UpdatedAt

	got := f.contextSvc.UpdateQuery(ctx, session.Id, owner, "vector clocks")
	require.NotNil(t, got)
	assert.Equal(t, "vector clocks", got.Query)
	assert.False(t, got.UpdatedAt.Before(before))

	// Session's updatedAt moves with the context's
	s := f.sessionSvc.GetSession(ctx, session.Id)
	assert.False(t, s.UpdatedAt.Before(got.UpdatedAt))
}

func TestUpdateFiltersMergesNotReplaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	require.NotNil(t, f.contextSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"a": 1}))
	got := f.contextSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"b": 2})
	require.NotNil(t, got)

	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, got.Filters)

	// Overwrite of a single key keeps the rest
	got = f.contextSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"a": 9})
	assert.Equal(t, map[string]interface{}{"a": 9, "b": 2}, got.Filters)
}

func TestUpdateResultsReplacesWholesale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	f.contextSvc.UpdateResults(ctx, session.Id, owner, []entity.Result{{Id: "r-1"}, {Id: "r-2"}})
	got := f.contextSvc.UpdateResults(ctx, session.Id, owner, []entity.Result{{Id: "r-3"}})
	require.NotNil(t, got)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "r-3", got.Results[0].Id)
}

func TestSelectResultDoesNotValidateReference(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	got := f.contextSvc.SelectResult(ctx, session.Id, owner, "not-in-result-set")
	require.NotNil(t, got)
	require.NotNil(t, got.SelectedResult)
	assert.Equal(t, "not-in-result-set", *got.SelectedResult)
}

func TestViewerCommentingScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Session with defaults: viewer note is allowed
	owner1 := uuid.New()
	s1 := f.mustCreate("open", owner1, nil)
	viewer1 := uuid.New()
	_, err := f.sessionSvc.JoinSession(ctx, s1.Id, &dto.JoinSessionRequest{
		ParticipantId: viewer1,
		Name:          "u2",
	})
	require.NoError(t, err)

	rec1 := &eventRecorder{}
	f.sessionSvc.Subscribe(s1.Id, rec1)

	note, err := f.contextSvc.AddNote(ctx, s1.Id, viewer1, &dto.AddNoteRequest{Content: "interesting"})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, viewer1, note.AuthorId)
	assert.Equal(t, 1, rec1.count(events.NoteAdded))

	// Session with commenting disabled: viewer annotation is denied, silently
	owner2 := uuid.New()
	s2 := f.mustCreate("closed", owner2, &dto.SettingsPatch{AllowCommenting: boolPtr(false)})
	viewer2 := uuid.New()
	_, err = f.sessionSvc.JoinSession(ctx, s2.Id, &dto.JoinSessionRequest{
		ParticipantId: viewer2,
		Name:          "u3",
	})
	require.NoError(t, err)

	rec2 := &eventRecorder{}
	f.sessionSvc.Subscribe(s2.Id, rec2)

	annotation, err := f.contextSvc.AddAnnotation(ctx, s2.Id, viewer2, &dto.AddAnnotationRequest{
		Type:     entity.AnnotationHighlight,
		TargetId: "r-1",
		Text:     "denied",
	})
	assert.NoError(t, err, "denial is a nil result, not an error")
	assert.Nil(t, annotation)
	assert.Zero(t, rec2.count(events.AnnotationAdded), "no event on denied mutation")
}

func TestViewerEditingDeniedWhenDisabled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.mustCreate("readonly", uuid.New(), &dto.SettingsPatch{AllowEditing: boolPtr(false)})
	viewer := uuid.New()
	_, err := f.sessionSvc.JoinSession(ctx, session.Id, &dto.JoinSessionRequest{
		ParticipantId: viewer,
		Name:          "viewer",
	})
	require.NoError(t, err)

	assert.Nil(t, f.contextSvc.UpdateQuery(ctx, session.Id, viewer, "nope"))

	got := f.contextSvc.GetSearchContext(ctx, session.Id)
	assert.Empty(t, got.Query)
}

func TestAddNoteValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	_, err := f.contextSvc.AddNote(ctx, session.Id, owner, &dto.AddNoteRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnnotationReplyThread(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	rec := &eventRecorder{}
	f.sessionSvc.Subscribe(session.Id, rec)

	annotation, err := f.contextSvc.AddAnnotation(ctx, session.Id, owner, &dto.AddAnnotationRequest{
		Type:        entity.AnnotationQuestion,
		TargetId:    "r-1",
		Text:        "why does this hold",
		StartOffset: 3,
		EndOffset:   20,
	})
	require.NoError(t, err)
	require.NotNil(t, annotation)

	reply, err := f.contextSvc.AddReply(ctx, session.Id, owner, &dto.AddReplyRequest{
		AnnotationId: annotation.Id,
		Content:      "see lemma 2",
	})
	require.NoError(t, err)
	require.NotNil(t, reply)

	got := f.contextSvc.GetSearchContext(ctx, session.Id)
	require.Len(t, got.Annotations, 1)
	require.Len(t, got.Annotations[0].Replies, 1)
	assert.Equal(t, "see lemma 2", got.Annotations[0].Replies[0].Content)
	assert.NotNil(t, got.Annotations[0].UpdatedAt)

	// New replies are announced as annotation-updated
	assert.Equal(t, []events.Type{events.AnnotationAdded, events.AnnotationUpdated}, rec.types())
}

func TestAddReplyUnknownAnnotation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	rec := &eventRecorder{}
	f.sessionSvc.Subscribe(session.Id, rec)

	reply, err := f.contextSvc.AddReply(ctx, session.Id, owner, &dto.AddReplyRequest{
		AnnotationId: uuid.New(),
		Content:      "into the void",
	})
	assert.NoError(t, err)
	assert.Nil(t, reply)
	assert.Empty(t, rec.types())
}

func TestMutationsAgainstEndedSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)
	f.sessionSvc.EndSession(ctx, session.Id)

	assert.Nil(t, f.contextSvc.UpdateQuery(ctx, session.Id, owner, "gone"))
	note, err := f.contextSvc.AddNote(ctx, session.Id, owner, &dto.AddNoteRequest{Content: "gone"})
	assert.NoError(t, err)
	assert.Nil(t, note)
	assert.Nil(t, f.contextSvc.GetSearchContext(ctx, session.Id))
}

func TestEventOrderingMatchesOperationOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	rec := &eventRecorder{}
	f.sessionSvc.Subscribe(session.Id, rec)

	f.contextSvc.UpdateQuery(ctx, session.Id, owner, "a")
	f.contextSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"x": 1})
	f.contextSvc.UpdateResults(ctx, session.Id, owner, []entity.Result{{Id: "r"}})
	f.contextSvc.SelectResult(ctx, session.Id, owner, "r")

	assert.Equal(t, []events.Type{
		events.QueryChanged,
		events.FiltersChanged,
		events.ResultsUpdated,
		events.ResultSelected,
	}, rec.types())
}

// Snapshots returned by getters must be detached from engine state.
func TestGetSearchContextReturnsSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	session := f.mustCreate("s", owner, nil)

	f.contextSvc.UpdateFilters(ctx, session.Id, owner, map[string]interface{}{"a": 1})
	snap := f.contextSvc.GetSearchContext(ctx, session.Id)
	snap.Filters["a"] = 99
	snap.Query = "tampered"

	fresh := f.contextSvc.GetSearchContext(ctx, session.Id)
	assert.Equal(t, 1, fresh.Filters["a"])
	assert.Empty(t, fresh.Query)
}
