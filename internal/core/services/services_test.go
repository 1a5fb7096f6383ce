package services

import (
	"testing"
	"time"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type testApp struct {
	questions ports.QuestionService
	choices   ports.ChoiceService
	tags      ports.TagService
	tagRepo   ports.TagRepository
	now       time.Time
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	questionRepo := memory.NewQuestionRepository(store)
	choiceRepo := memory.NewChoiceRepository(store)
	tagRepo := memory.NewTagRepository(store)

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tagSvc := NewTagService(questionRepo, tagRepo)

	return &testApp{
		questions: NewQuestionService(questionRepo, choiceRepo, tagSvc, WithClock(func() time.Time { return now })),
		choices:   NewChoiceService(questionRepo, choiceRepo),
		tags:      tagSvc,
		tagRepo:   tagRepo,
		now:       now,
	}
}
