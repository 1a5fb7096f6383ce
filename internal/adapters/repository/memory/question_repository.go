package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type questionRepository struct {
	store *Store
}

func NewQuestionRepository(store *Store) ports.QuestionRepository {
	return &questionRepository{store: store}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	if err := checkQuestion(question); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.questions[question.Name]; exists {
		return domain.ErrQuestionExists
	}
	r.store.questions[question.Name] = stripQuestion(question)
	return nil
}

func (r *questionRepository) Update(ctx context.Context, question *domain.Question) error {
	if err := checkQuestion(question); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.questions[question.Name]; !exists {
		return domain.ErrQuestionNotFound
	}
	r.store.questions[question.Name] = stripQuestion(question)
	return nil
}

func (r *questionRepository) GetByName(ctx context.Context, name string) (*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	question, exists := r.store.questions[name]
	if !exists {
		return nil, domain.ErrQuestionNotFound
	}
	return &question, nil
}

func (r *questionRepository) GetByNames(ctx context.Context, names []string) ([]*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var questions []*domain.Question
	for _, name := range names {
		if question, exists := r.store.questions[name]; exists {
			questions = append(questions, &question)
		}
	}
	sortNewestFirst(questions)
	return questions, nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Question, error) {
	questions := r.filter(func(domain.Question) bool { return true })
	if offset >= len(questions) {
		return nil, nil
	}
	return questions[offset:min(offset+limit, len(questions))], nil
}

func (r *questionRepository) ListPublishedBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Question, error) {
	questions := r.filter(func(q domain.Question) bool { return !q.PubDate.After(before) })
	return questions[:min(limit, len(questions))], nil
}

func (r *questionRepository) Delete(ctx context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.questions[name]; !exists {
		return domain.ErrQuestionNotFound
	}
	delete(r.store.questions, name)

	for id, choice := range r.store.choices {
		if choice.QuestionName == name {
			delete(r.store.choices, id)
		}
	}
	for id, item := range r.store.items {
		if item.ContentType == domain.QuestionContentType && item.ObjectID == name {
			delete(r.store.items, id)
		}
	}
	return nil
}

func (r *questionRepository) filter(keep func(domain.Question) bool) []*domain.Question {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var questions []*domain.Question
	for _, question := range r.store.questions {
		if keep(question) {
			questions = append(questions, &question)
		}
	}
	sortNewestFirst(questions)
	return questions
}

func checkQuestion(question *domain.Question) error {
	if err := checkLength("question_name", question.Name, domain.MaxQuestionNameLength); err != nil {
		return err
	}
	return checkLength("question_text", question.Text, domain.MaxQuestionTextLength)
}

// stripQuestion drops the relations, which live in their own maps.
func stripQuestion(question *domain.Question) domain.Question {
	return domain.Question{
		Name:    question.Name,
		Text:    question.Text,
		PubDate: question.PubDate,
	}
}

func sortNewestFirst(questions []*domain.Question) {
	slices.SortFunc(questions, func(a, b *domain.Question) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
