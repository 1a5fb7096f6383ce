package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func TestQuestionRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)
	tags := NewTagRepository(db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("save and get", func(t *testing.T) {
		q := &domain.Question{Name: "whatsup", Text: "What's up?", PubDate: now}
		require.NoError(t, questions.Save(ctx, q))

		got, err := questions.GetByName(ctx, "whatsup")
		require.NoError(t, err)
		assert.Equal(t, "What's up?", got.Text)
		assert.True(t, now.Equal(got.PubDate))
	})

	t.Run("duplicate name", func(t *testing.T) {
		q := &domain.Question{Name: "whatsup", Text: "Another text", PubDate: now}
		err := questions.Save(ctx, q)
		assert.ErrorIs(t, err, domain.ErrQuestionExists)
	})

	t.Run("name too long", func(t *testing.T) {
		q := &domain.Question{Name: strings.Repeat("x", domain.MaxQuestionNameLength+1), Text: "Too long", PubDate: now}
		err := questions.Save(ctx, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing question", func(t *testing.T) {
		_, err := questions.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

		err = questions.Update(ctx, &domain.Question{Name: "missing", Text: "x", PubDate: now})
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

		err = questions.Delete(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("update keeps the name", func(t *testing.T) {
		q := &domain.Question{Name: "whatsup", Text: "What's new?", PubDate: now.Add(-time.Hour)}
		require.NoError(t, questions.Update(ctx, q))

		got, err := questions.GetByName(ctx, "whatsup")
		require.NoError(t, err)
		assert.Equal(t, "What's new?", got.Text)
		assert.True(t, now.Add(-time.Hour).Equal(got.PubDate))
	})

	t.Run("list newest first", func(t *testing.T) {
		require.NoError(t, questions.Save(ctx, &domain.Question{Name: "old", Text: "Old", PubDate: now.AddDate(0, 0, -3)}))
		require.NoError(t, questions.Save(ctx, &domain.Question{Name: "future", Text: "Future", PubDate: now.AddDate(0, 0, 3)}))

		all, err := questions.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"future", "whatsup", "old"}, names(all))

		page, err := questions.List(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"whatsup"}, names(page))

		published, err := questions.ListPublishedBefore(ctx, now, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"whatsup", "old"}, names(published))

		some, err := questions.GetByNames(ctx, []string{"old", "future", "unknown"})
		require.NoError(t, err)
		assert.Equal(t, []string{"future", "old"}, names(some))
	})

	t.Run("delete cascades to choices and tags", func(t *testing.T) {
		require.NoError(t, questions.Save(ctx, &domain.Question{Name: "doomed", Text: "Doomed?", PubDate: now}))
		require.NoError(t, questions.Save(ctx, &domain.Question{Name: "survivor", Text: "Survivor?", PubDate: now}))

		c1 := &domain.Choice{QuestionName: "doomed", Text: "Yes"}
		c2 := &domain.Choice{QuestionName: "doomed", Text: "No"}
		c3 := &domain.Choice{QuestionName: "survivor", Text: "Maybe"}
		for _, c := range []*domain.Choice{c1, c2, c3} {
			require.NoError(t, choices.Save(ctx, c))
		}

		tag := &domain.Tag{ID: uuid.New(), Name: "fate", Slug: "fate"}
		require.NoError(t, tags.Create(ctx, tag))
		for _, obj := range []string{"doomed", "survivor"} {
			require.NoError(t, tags.Tag(ctx, &domain.TaggedItem{ID: uuid.New(), TagID: tag.ID, ContentType: domain.QuestionContentType, ObjectID: obj}))
		}

		require.NoError(t, questions.Delete(ctx, "doomed"))

		remaining, err := choices.ListByQuestion(ctx, "doomed")
		require.NoError(t, err)
		assert.Empty(t, remaining)

		_, err = choices.GetByID(ctx, c1.ID)
		assert.ErrorIs(t, err, domain.ErrChoiceNotFound)

		kept, err := choices.ListByQuestion(ctx, "survivor")
		require.NoError(t, err)
		assert.Len(t, kept, 1)

		ids, err := tags.ObjectIDsTagged(ctx, domain.QuestionContentType, "fate")
		require.NoError(t, err)
		assert.Equal(t, []string{"survivor"}, ids)
	})
}

func names(questions []*domain.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Name)
	}
	return out
}
