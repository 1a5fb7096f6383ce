package ports

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type ChoiceRepository interface {
	Save(ctx context.Context, choice *domain.Choice) error
	GetByID(ctx context.Context, id int64) (*domain.Choice, error)
	ListByQuestion(ctx context.Context, questionName string) ([]domain.Choice, error)
	IncrementVotes(ctx context.Context, questionName string, id int64) error
	Delete(ctx context.Context, id int64) error
}

type AddChoiceInput struct {
	QuestionName string `validate:"required,max=20"`
	Text         string `validate:"required,max=200"`
	Votes        int
}

type ChoiceService interface {
	Add(ctx context.Context, input AddChoiceInput) (*domain.Choice, error)
	List(ctx context.Context, questionName string) ([]domain.Choice, error)
	Vote(ctx context.Context, questionName string, choiceID int64) (*domain.Choice, error)
	Results(ctx context.Context, questionName string) ([]domain.ChoiceResult, error)
	Remove(ctx context.Context, id int64) error
}
