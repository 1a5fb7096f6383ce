package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type TagRepository interface {
	GetByNames(ctx context.Context, names []string) ([]domain.Tag, error)
	// Create inserts a tag, failing with domain.ErrTagExists or domain.ErrSlugTaken.
	Create(ctx context.Context, tag *domain.Tag) error
	// Tag is a no-op when the association already exists.
	Tag(ctx context.Context, item *domain.TaggedItem) error
	Untag(ctx context.Context, contentType, objectID string, tagIDs []uuid.UUID) error
	Clear(ctx context.Context, contentType, objectID string) error
	TagsFor(ctx context.Context, contentType, objectID string) ([]domain.Tag, error)
	ObjectIDsTagged(ctx context.Context, contentType, name string) ([]string, error)
	MostCommon(ctx context.Context, contentType string, limit int) ([]domain.TagCount, error)
}

type TagService interface {
	Add(ctx context.Context, questionName string, names ...string) error
	Remove(ctx context.Context, questionName string, names ...string) error
	Set(ctx context.Context, questionName string, names ...string) error
	Clear(ctx context.Context, questionName string) error
	Names(ctx context.Context, questionName string) ([]string, error)
	Tagged(ctx context.Context, name string) ([]*domain.Question, error)
	MostCommon(ctx context.Context, limit int) ([]domain.TagCount, error)
}
