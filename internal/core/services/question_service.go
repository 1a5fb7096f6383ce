package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const (
	questionsPageSize  = 10
	defaultLatestLimit = 5
)

type questionService struct {
	repo    ports.QuestionRepository
	choices ports.ChoiceRepository
	tags    ports.TagService
	now     func() time.Time
}

type QuestionOption func(*questionService)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) QuestionOption {
	return func(s *questionService) {
		s.now = now
	}
}

func NewQuestionService(repo ports.QuestionRepository, choices ports.ChoiceRepository, tags ports.TagService, opts ...QuestionOption) ports.QuestionService {
	s := &questionService{
		repo:    repo,
		choices: choices,
		tags:    tags,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	question := &domain.Question{
		Name:    input.Name,
		Text:    input.Text,
		PubDate: input.PubDate,
	}
	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	if len(input.Tags) == 0 {
		return question, nil
	}

	if err := s.tags.Add(ctx, question.Name, input.Tags...); err != nil {
		// Tagging runs after the insert, so undo the insert on failure.
		if delErr := s.repo.Delete(ctx, question.Name); delErr != nil {
			return nil, fmt.Errorf("failed to tag question: %w (rollback failed: %v)", err, delErr)
		}
		return nil, fmt.Errorf("failed to tag question: %w", err)
	}

	names, err := s.tags.Names(ctx, question.Name)
	if err != nil {
		return nil, err
	}
	question.Tags = names

	return question, nil
}

func (s *questionService) Get(ctx context.Context, name string) (*domain.Question, error) {
	question, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	choices, err := s.choices.ListByQuestion(ctx, name)
	if err != nil {
		return nil, err
	}
	question.Choices = choices

	tags, err := s.tags.Names(ctx, name)
	if err != nil {
		return nil, err
	}
	question.Tags = tags

	return question, nil
}

func (s *questionService) List(ctx context.Context, input ports.ListQuestionsInput) ([]*domain.Question, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * questionsPageSize

	if input.Tag == "" {
		return s.repo.List(ctx, questionsPageSize, offset)
	}

	tagged, err := s.tags.Tagged(ctx, input.Tag)
	if err != nil {
		return nil, err
	}
	if offset >= len(tagged) {
		return nil, nil
	}
	return tagged[offset:min(offset+questionsPageSize, len(tagged))], nil
}

// Latest returns questions already published, newest first.
func (s *questionService) Latest(ctx context.Context, limit int) ([]*domain.Question, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	return s.repo.ListPublishedBefore(ctx, s.now(), limit)
}

func (s *questionService) Update(ctx context.Context, input ports.UpdateQuestionInput) (*domain.Question, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Text != nil {
		if err := validateVar("Text", *input.Text, "required,max=200"); err != nil {
			return nil, err
		}
	}

	question, err := s.repo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Text != nil {
		question.Text = *input.Text
	}
	if input.PubDate != nil {
		question.PubDate = *input.PubDate
	}

	if err := s.repo.Update(ctx, question); err != nil {
		return nil, err
	}

	return s.Get(ctx, question.Name)
}

func (s *questionService) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, name)
}
