package services

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type choiceService struct {
	questions ports.QuestionRepository
	repo      ports.ChoiceRepository
}

func NewChoiceService(questions ports.QuestionRepository, repo ports.ChoiceRepository) ports.ChoiceService {
	return &choiceService{
		questions: questions,
		repo:      repo,
	}
}

func (s *choiceService) Add(ctx context.Context, input ports.AddChoiceInput) (*domain.Choice, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.questions.GetByName(ctx, input.QuestionName); err != nil {
		return nil, err
	}

	choice := &domain.Choice{
		QuestionName: input.QuestionName,
		Text:         input.Text,
		Votes:        input.Votes,
	}
	if err := s.repo.Save(ctx, choice); err != nil {
		return nil, err
	}

	return choice, nil
}

func (s *choiceService) List(ctx context.Context, questionName string) ([]domain.Choice, error) {
	if _, err := s.questions.GetByName(ctx, questionName); err != nil {
		return nil, err
	}
	return s.repo.ListByQuestion(ctx, questionName)
}

// Vote adds one vote to a choice of the given question.
func (s *choiceService) Vote(ctx context.Context, questionName string, choiceID int64) (*domain.Choice, error) {
	if err := s.repo.IncrementVotes(ctx, questionName, choiceID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, choiceID)
}

func (s *choiceService) Results(ctx context.Context, questionName string) ([]domain.ChoiceResult, error) {
	choices, err := s.List(ctx, questionName)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range choices {
		total += int64(c.Votes)
	}

	results := make([]domain.ChoiceResult, 0, len(choices))
	for _, c := range choices {
		percentage := 0.0
		if total > 0 {
			percentage = (float64(c.Votes) / float64(total)) * 100
		}
		results = append(results, domain.ChoiceResult{Choice: c, Percentage: percentage})
	}

	return results, nil
}

func (s *choiceService) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
