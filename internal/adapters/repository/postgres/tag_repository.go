package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type tagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) ports.TagRepository {
	return &tagRepository{
		db: db,
	}
}

func (r *tagRepository) GetByNames(ctx context.Context, names []string) ([]domain.Tag, error) {
	query := `
		SELECT id, name, slug
		FROM tags
		WHERE name = ANY($1)
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query := `
		INSERT INTO tags (id, name, slug)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Slug)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code.Name() == uniqueViolation {
			switch pqErr.Constraint {
			case "tags_name_key":
				return domain.ErrTagExists
			case "tags_slug_key":
				return domain.ErrSlugTaken
			}
		}
		return translate(err, "insert tag")
	}
	return nil
}

func (r *tagRepository) Tag(ctx context.Context, item *domain.TaggedItem) error {
	query := `
		INSERT INTO tagged_items (id, tag_id, content_type, object_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_type, object_id, tag_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, item.ID, item.TagID, item.ContentType, item.ObjectID)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code.Name() == foreignKeyViolation {
			return domain.ErrTagNotFound
		}
		return translate(err, "tag object")
	}
	return nil
}

func (r *tagRepository) Untag(ctx context.Context, contentType, objectID string, tagIDs []uuid.UUID) error {
	ids := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		ids = append(ids, id.String())
	}

	query := `
		DELETE FROM tagged_items
		WHERE content_type = $1 AND object_id = $2 AND tag_id = ANY($3::uuid[])
	`
	if _, err := r.db.ExecContext(ctx, query, contentType, objectID, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to untag object: %w", err)
	}
	return nil
}

func (r *tagRepository) Clear(ctx context.Context, contentType, objectID string) error {
	query := `DELETE FROM tagged_items WHERE content_type = $1 AND object_id = $2`
	if _, err := r.db.ExecContext(ctx, query, contentType, objectID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	return nil
}

func (r *tagRepository) TagsFor(ctx context.Context, contentType, objectID string) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN tagged_items ti ON ti.tag_id = t.id
		WHERE ti.content_type = $1 AND ti.object_id = $2
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, contentType, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get object tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

func (r *tagRepository) ObjectIDsTagged(ctx context.Context, contentType, name string) ([]string, error) {
	query := `
		SELECT ti.object_id
		FROM tagged_items ti
		JOIN tags t ON t.id = ti.tag_id
		WHERE ti.content_type = $1 AND t.name = $2
		ORDER BY ti.object_id
	`
	rows, err := r.db.QueryContext(ctx, query, contentType, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get tagged objects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan object id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating object ids: %w", err)
	}
	return ids, nil
}

func (r *tagRepository) MostCommon(ctx context.Context, contentType string, limit int) ([]domain.TagCount, error) {
	query := `
		SELECT t.id, t.name, t.slug, COUNT(ti.id) AS num_times
		FROM tags t
		JOIN tagged_items ti ON ti.tag_id = t.id
		WHERE ti.content_type = $1
		GROUP BY t.id
		ORDER BY num_times DESC, t.name
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, contentType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer rows.Close()

	var counts []domain.TagCount
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Slug, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag counts: %w", err)
	}
	return counts, nil
}

func scanTags(rows *sql.Rows) ([]domain.Tag, error) {
	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}
