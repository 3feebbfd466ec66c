package entity

import (
	"time"

	"github.com/google/uuid"
)

type AnnotationType string

const (
	AnnotationHighlight  AnnotationType = "highlight"
	AnnotationComment    AnnotationType = "comment"
	AnnotationQuestion   AnnotationType = "question"
	AnnotationSuggestion AnnotationType = "suggestion"
)

// Result is one entry of a session's shared result set. The engine treats it
// as opaque beyond its Id; scoring and ranking belong to the search layer.
type Result struct {
	Id      string  `json:"id"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Url     string  `json:"url"`
	Score   float32 `json:"score"`
}

type Note struct {
	Id        uuid.UUID       `json:"id"`
	AuthorId  uuid.UUID       `json:"author_id"`
	Content   string          `json:"content"`
	Position  *CursorPosition `json:"position,omitempty"`
	TargetRef *string         `json:"target_ref,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type Reply struct {
	Id        uuid.UUID `json:"id"`
	AuthorId  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Annotation anchors a comment to a range of a specific result's text.
// Annotations and their replies are append-only.
type Annotation struct {
	Id          uuid.UUID      `json:"id"`
	AuthorId    uuid.UUID      `json:"author_id"`
	Type        AnnotationType `json:"type"`
	TargetId    string         `json:"target_id"`
	Text        string         `json:"text"`
	StartOffset int            `json:"start_offset"`
	EndOffset   int            `json:"end_offset"`
	Replies     []*Reply       `json:"replies"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// SearchContext is the mutable payload of a session. It is created together
// with its session and discarded together with it, never independently.
type SearchContext struct {
	SessionId      uuid.UUID              `json:"session_id"`
	Query          string                 `json:"query"`
	Filters        map[string]interface{} `json:"filters"`
	Results        []Result               `json:"results"`
	SelectedResult *string                `json:"selected_result,omitempty"`
	Notes          []*Note                `json:"notes"`
	Annotations    []*Annotation          `json:"annotations"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Annotation returns the annotation with the given id, or nil.
func (c *SearchContext) Annotation(id uuid.UUID) *Annotation {
	for _, a := range c.Annotations {
		if a.Id == id {
			return a
		}
	}
	return nil
}
