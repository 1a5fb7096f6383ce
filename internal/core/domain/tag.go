package domain

import "github.com/google/uuid"

const (
	MaxTagNameLength  = 100
	MaxObjectIDLength = 50

	// QuestionContentType identifies questions in tagged_items.content_type.
	QuestionContentType = "polls.question"
)

type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func (t Tag) String() string {
	return t.Name
}

// TaggedItem links a tag to any object whose primary key is a string.
type TaggedItem struct {
	ID          uuid.UUID `json:"id"`
	TagID       uuid.UUID `json:"tag_id"`
	ContentType string    `json:"content_type"`
	ObjectID    string    `json:"object_id"`
}

type TagCount struct {
	Tag
	Count int64 `json:"count"`
}
