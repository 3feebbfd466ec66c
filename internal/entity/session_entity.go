package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionVisibility string

const (
	VisibilityPrivate    SessionVisibility = "private"
	VisibilityInviteOnly SessionVisibility = "invite-only"
	VisibilityPublic     SessionVisibility = "public"
)

type ParticipantRole string

const (
	RoleOwner  ParticipantRole = "owner"
	RoleEditor ParticipantRole = "editor"
	RoleViewer ParticipantRole = "viewer"
)

type SessionSettings struct {
	AllowEditing    bool              `json:"allow_editing"`
	AllowCommenting bool              `json:"allow_commenting"`
	AllowSharing    bool              `json:"allow_sharing"`
	Visibility      SessionVisibility `json:"visibility"`
	RealTimeSync    bool              `json:"real_time_sync"`
	Notifications   bool              `json:"notifications"`
	MaxParticipants int               `json:"max_participants"`
}

// DefaultSessionSettings are the baseline every new session starts from;
// caller-supplied settings are merged over these.
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		AllowEditing:    true,
		AllowCommenting: true,
		AllowSharing:    true,
		Visibility:      VisibilityInviteOnly,
		RealTimeSync:    true,
		Notifications:   true,
		MaxParticipants: 50,
	}
}

type CursorPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Participant struct {
	Id         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Role       ParticipantRole `json:"role"`
	JoinedAt   time.Time       `json:"joined_at"`
	LastActive time.Time       `json:"last_active"`
	Color      string          `json:"color"`
	Cursor     *CursorPosition `json:"cursor,omitempty"`
}

type Session struct {
	Id           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	OwnerId      uuid.UUID       `json:"owner_id"`
	Participants []*Participant  `json:"participants"`
	Settings     SessionSettings `json:"settings"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Participant returns the member with the given id, or nil.
func (s *Session) Participant(id uuid.UUID) *Participant {
	for _, p := range s.Participants {
		if p.Id == id {
			return p
		}
	}
	return nil
}
