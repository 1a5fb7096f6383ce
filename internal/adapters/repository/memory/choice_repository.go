package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type choiceRepository struct {
	store *Store
}

func NewChoiceRepository(store *Store) ports.ChoiceRepository {
	return &choiceRepository{store: store}
}

func (r *choiceRepository) Save(ctx context.Context, choice *domain.Choice) error {
	if err := checkLength("choice_text", choice.Text, domain.MaxChoiceTextLength); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.questions[choice.QuestionName]; !exists {
		return domain.ErrQuestionNotFound
	}

	r.store.nextChoiceID++
	choice.ID = r.store.nextChoiceID
	r.store.choices[choice.ID] = *choice
	return nil
}

func (r *choiceRepository) GetByID(ctx context.Context, id int64) (*domain.Choice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	choice, exists := r.store.choices[id]
	if !exists {
		return nil, domain.ErrChoiceNotFound
	}
	return &choice, nil
}

func (r *choiceRepository) ListByQuestion(ctx context.Context, questionName string) ([]domain.Choice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var choices []domain.Choice
	for _, choice := range r.store.choices {
		if choice.QuestionName == questionName {
			choices = append(choices, choice)
		}
	}
	slices.SortFunc(choices, func(a, b domain.Choice) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return choices, nil
}

func (r *choiceRepository) IncrementVotes(ctx context.Context, questionName string, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	choice, exists := r.store.choices[id]
	if !exists || choice.QuestionName != questionName {
		return domain.ErrChoiceNotFound
	}
	choice.Votes++
	r.store.choices[id] = choice
	return nil
}

func (r *choiceRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.choices[id]; !exists {
		return domain.ErrChoiceNotFound
	}
	delete(r.store.choices, id)
	return nil
}
