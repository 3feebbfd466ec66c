package dto

import (
	"collab-search-be/internal/entity"

	"github.com/google/uuid"
)

type AddNoteRequest struct {
	Content   string                 `json:"content" validate:"required"`
	Position  *entity.CursorPosition `json:"position,omitempty"`
	TargetRef *string                `json:"target_ref,omitempty"`
}

type AddAnnotationRequest struct {
	Type        entity.AnnotationType `json:"type" validate:"required,oneof=highlight comment question suggestion"`
	TargetId    string                `json:"target_id" validate:"required"`
	Text        string                `json:"text" validate:"required"`
	StartOffset int                   `json:"start_offset" validate:"gte=0"`
	EndOffset   int                   `json:"end_offset" validate:"gtefield=StartOffset"`
}

type AddReplyRequest struct {
	AnnotationId uuid.UUID `json:"annotation_id" validate:"required"`
	Content      string    `json:"content" validate:"required"`
}
