package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const (
	maxSlugAttempts       = 100
	defaultMostCommonSize = 10
)

type tagService struct {
	questions ports.QuestionRepository
	repo      ports.TagRepository
}

func NewTagService(questions ports.QuestionRepository, repo ports.TagRepository) ports.TagService {
	return &tagService{
		questions: questions,
		repo:      repo,
	}
}

func (s *tagService) Add(ctx context.Context, questionName string, names ...string) error {
	names = normalizeTagNames(names)
	if len(names) == 0 {
		return nil
	}
	if err := validateVar("Tags", names, "dive,max=100"); err != nil {
		return err
	}

	if _, err := s.questions.GetByName(ctx, questionName); err != nil {
		return err
	}

	tags, err := s.ensureTags(ctx, names)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		item := &domain.TaggedItem{
			ID:          uuid.New(),
			TagID:       tag.ID,
			ContentType: domain.QuestionContentType,
			ObjectID:    questionName,
		}
		if err := s.repo.Tag(ctx, item); err != nil {
			return err
		}
	}

	return nil
}

func (s *tagService) Remove(ctx context.Context, questionName string, names ...string) error {
	names = normalizeTagNames(names)
	if len(names) == 0 {
		return nil
	}

	tags, err := s.repo.GetByNames(ctx, names)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return s.repo.Untag(ctx, domain.QuestionContentType, questionName, ids)
}

// Set makes names the exact tag set of the question.
func (s *tagService) Set(ctx context.Context, questionName string, names ...string) error {
	names = normalizeTagNames(names)
	if len(names) == 0 {
		return s.Clear(ctx, questionName)
	}

	current, err := s.repo.TagsFor(ctx, domain.QuestionContentType, questionName)
	if err != nil {
		return err
	}

	var stale []uuid.UUID
	for _, tag := range current {
		if !slices.Contains(names, tag.Name) {
			stale = append(stale, tag.ID)
		}
	}
	if len(stale) > 0 {
		if err := s.repo.Untag(ctx, domain.QuestionContentType, questionName, stale); err != nil {
			return err
		}
	}

	return s.Add(ctx, questionName, names...)
}

func (s *tagService) Clear(ctx context.Context, questionName string) error {
	return s.repo.Clear(ctx, domain.QuestionContentType, questionName)
}

func (s *tagService) Names(ctx context.Context, questionName string) ([]string, error) {
	tags, err := s.repo.TagsFor(ctx, domain.QuestionContentType, questionName)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *tagService) Tagged(ctx context.Context, name string) ([]*domain.Question, error) {
	ids, err := s.repo.ObjectIDsTagged(ctx, domain.QuestionContentType, name)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.questions.GetByNames(ctx, ids)
}

func (s *tagService) MostCommon(ctx context.Context, limit int) ([]domain.TagCount, error) {
	if limit <= 0 {
		limit = defaultMostCommonSize
	}
	return s.repo.MostCommon(ctx, domain.QuestionContentType, limit)
}

func (s *tagService) ensureTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	existing, err := s.repo.GetByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(existing))
	for _, tag := range existing {
		known[tag.Name] = true
	}

	tags := existing
	for _, name := range names {
		if known[name] {
			continue
		}
		tag, err := s.createTag(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

// createTag inserts a tag under the first free slug among base, base_1, base_2...
func (s *tagService) createTag(ctx context.Context, name string) (*domain.Tag, error) {
	base := slug.Make(name)
	if base == "" {
		base = "tag"
	}

	candidate := truncate(base, domain.MaxTagNameLength)
	for i := 1; i <= maxSlugAttempts; i++ {
		tag := &domain.Tag{ID: uuid.New(), Name: name, Slug: candidate}

		err := s.repo.Create(ctx, tag)
		switch {
		case err == nil:
			return tag, nil
		case errors.Is(err, domain.ErrTagExists):
			// Created concurrently under the same name.
			tags, err := s.repo.GetByNames(ctx, []string{name})
			if err != nil {
				return nil, err
			}
			if len(tags) == 0 {
				return nil, fmt.Errorf("%w: %s", domain.ErrTagNotFound, name)
			}
			return &tags[0], nil
		case errors.Is(err, domain.ErrSlugTaken):
			suffix := fmt.Sprintf("_%d", i)
			candidate = truncate(base, domain.MaxTagNameLength-len(suffix)) + suffix
		default:
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to find a free slug for tag %q: %w", name, domain.ErrSlugTaken)
}

func normalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
