package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question) error
	GetByName(ctx context.Context, name string) (*domain.Question, error)
	GetByNames(ctx context.Context, names []string) ([]*domain.Question, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Question, error)
	ListPublishedBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Question, error)
	// Delete removes the question together with its choices and tag associations.
	Delete(ctx context.Context, name string) error
}

type CreateQuestionInput struct {
	Name    string    `validate:"required,max=20"`
	Text    string    `validate:"required,max=200"`
	PubDate time.Time `validate:"required"`
	Tags    []string  `validate:"dive,required,max=100"`
}

type UpdateQuestionInput struct {
	Name    string `validate:"required,max=20"`
	Text    *string
	PubDate *time.Time
}

type ListQuestionsInput struct {
	Page int
	Tag  string
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	Get(ctx context.Context, name string) (*domain.Question, error)
	List(ctx context.Context, input ListQuestionsInput) ([]*domain.Question, error)
	Latest(ctx context.Context, limit int) ([]*domain.Question, error)
	Update(ctx context.Context, input UpdateQuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, name string) error
}
