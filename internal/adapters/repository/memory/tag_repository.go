package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type tagRepository struct {
	store *Store
}

func NewTagRepository(store *Store) ports.TagRepository {
	return &tagRepository{store: store}
}

func (r *tagRepository) GetByNames(ctx context.Context, names []string) ([]domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var tags []domain.Tag
	for _, tag := range r.store.tags {
		if slices.Contains(names, tag.Name) {
			tags = append(tags, tag)
		}
	}
	sortByName(tags)
	return tags, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if err := checkLength("name", tag.Name, domain.MaxTagNameLength); err != nil {
		return err
	}
	if err := checkLength("slug", tag.Slug, domain.MaxTagNameLength); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.tags {
		if existing.Name == tag.Name {
			return domain.ErrTagExists
		}
		if existing.Slug == tag.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.store.tags[tag.ID] = *tag
	return nil
}

func (r *tagRepository) Tag(ctx context.Context, item *domain.TaggedItem) error {
	if err := checkLength("object_id", item.ObjectID, domain.MaxObjectIDLength); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.tags[item.TagID]; !exists {
		return domain.ErrTagNotFound
	}
	for _, existing := range r.store.items {
		if existing.TagID == item.TagID && existing.ContentType == item.ContentType && existing.ObjectID == item.ObjectID {
			return nil
		}
	}
	r.store.items[item.ID] = *item
	return nil
}

func (r *tagRepository) Untag(ctx context.Context, contentType, objectID string, tagIDs []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, item := range r.store.items {
		if item.ContentType == contentType && item.ObjectID == objectID && slices.Contains(tagIDs, item.TagID) {
			delete(r.store.items, id)
		}
	}
	return nil
}

func (r *tagRepository) Clear(ctx context.Context, contentType, objectID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, item := range r.store.items {
		if item.ContentType == contentType && item.ObjectID == objectID {
			delete(r.store.items, id)
		}
	}
	return nil
}

func (r *tagRepository) TagsFor(ctx context.Context, contentType, objectID string) ([]domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var tags []domain.Tag
	for _, item := range r.store.items {
		if item.ContentType == contentType && item.ObjectID == objectID {
			tags = append(tags, r.store.tags[item.TagID])
		}
	}
	sortByName(tags)
	return tags, nil
}

func (r *tagRepository) ObjectIDsTagged(ctx context.Context, contentType, name string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ids []string
	for _, item := range r.store.items {
		if item.ContentType == contentType && r.store.tags[item.TagID].Name == name {
			ids = append(ids, item.ObjectID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *tagRepository) MostCommon(ctx context.Context, contentType string, limit int) ([]domain.TagCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	for _, item := range r.store.items {
		if item.ContentType == contentType {
			counts[item.TagID]++
		}
	}

	result := make([]domain.TagCount, 0, len(counts))
	for id, count := range counts {
		result = append(result, domain.TagCount{Tag: r.store.tags[id], Count: count})
	}
	slices.SortFunc(result, func(a, b domain.TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return result[:min(limit, len(result))], nil
}

func sortByName(tags []domain.Tag) {
	slices.SortFunc(tags, func(a, b domain.Tag) int {
		return strings.Compare(a.Name, b.Name)
	})
}
