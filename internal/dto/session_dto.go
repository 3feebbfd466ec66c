package dto

import (
	"collab-search-be/internal/entity"

	"github.com/google/uuid"
)

// SettingsPatch carries caller-supplied overrides for a new session's
// settings. Nil fields keep the defaults.
type SettingsPatch struct {
	AllowEditing    *bool                     `json:"allow_editing,omitempty"`
	AllowCommenting *bool                     `json:"allow_commenting,omitempty"`
	AllowSharing    *bool                     `json:"allow_sharing,omitempty"`
	Visibility      *entity.SessionVisibility `json:"visibility,omitempty" validate:"omitempty,oneof=private invite-only public"`
	RealTimeSync    *bool                     `json:"real_time_sync,omitempty"`
	Notifications   *bool                     `json:"notifications,omitempty"`
	MaxParticipants *int                      `json:"max_participants,omitempty" validate:"omitempty,gt=0"`
}

// Apply merges the patch over the given settings.
func (p *SettingsPatch) Apply(s *entity.SessionSettings) {
	if p == nil {
		return
	}
	if p.AllowEditing != nil {
		s.AllowEditing = *p.AllowEditing
	}
	if p.AllowCommenting != nil {
		s.AllowCommenting = *p.AllowCommenting
	}
	if p.AllowSharing != nil {
		s.AllowSharing = *p.AllowSharing
	}
	if p.Visibility != nil {
		s.Visibility = *p.Visibility
	}
	if p.RealTimeSync != nil {
		s.RealTimeSync = *p.RealTimeSync
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.MaxParticipants != nil {
		s.MaxParticipants = *p.MaxParticipants
	}
}

type CreateSessionRequest struct {
	Name      string         `json:"name" validate:"required"`
	OwnerId   uuid.UUID      `json:"owner_id" validate:"required"`
	OwnerName string         `json:"owner_name" validate:"required"`
	Settings  *SettingsPatch `json:"settings,omitempty"`
}

type JoinSessionRequest struct {
	ParticipantId uuid.UUID              `json:"participant_id" validate:"required"`
	Name          string                 `json:"name" validate:"required"`
	Role          entity.ParticipantRole `json:"role,omitempty" validate:"omitempty,oneof=editor viewer"`
}
