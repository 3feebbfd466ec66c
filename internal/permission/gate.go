package permission

import (
	"collab-search-be/internal/entity"

	"github.com/google/uuid"
)

// MutationKind classifies a requested change for permission purposes.
type MutationKind string

const (
	// Content mutations, gated by Settings.AllowEditing for viewers.
	MutateQuery     MutationKind = "query"
	MutateFilters   MutationKind = "filters"
	MutateResults   MutationKind = "results"
	MutateSelection MutationKind = "selection"

	// Commentary mutations, gated by Settings.AllowCommenting for viewers.
	MutateNote       MutationKind = "note"
	MutateAnnotation MutationKind = "annotation"
	MutateReply      MutationKind = "reply"
)

// CanMutate decides whether the participant may apply the given kind of
// change to the session. Owners and editors may always mutate; viewers only
// when the matching session setting allows it. Unknown participants are
// denied. Pure function, no side effects.
func CanMutate(session *entity.Session, participantId uuid.UUID, kind MutationKind) bool {
	p := session.Participant(participantId)
	if p == nil {
		return false
	}

	switch p.Role {
	case entity.RoleOwner, entity.RoleEditor:
		return true
	case entity.RoleViewer:
		switch kind {
		case MutateNote, MutateAnnotation, MutateReply:
			return session.Settings.AllowCommenting
		case MutateQuery, MutateFilters, MutateResults, MutateSelection:
			return session.Settings.AllowEditing
		}
	}
	return false
}
