package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

type testCLI struct {
	app          *app
	out          *bytes.Buffer
	schemaCalled bool
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	store := memory.NewStore()
	questionRepo := memory.NewQuestionRepository(store)
	choiceRepo := memory.NewChoiceRepository(store)
	tagRepo := memory.NewTagRepository(store)

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cli := &testCLI{out: &bytes.Buffer{}}
	tagSvc := services.NewTagService(questionRepo, tagRepo)
	cli.app = &app{
		questions: services.NewQuestionService(questionRepo, choiceRepo, tagSvc, services.WithClock(clock)),
		choices:   services.NewChoiceService(questionRepo, choiceRepo),
		tags:      tagSvc,
		ensureSchema: func(context.Context) error {
			cli.schemaCalled = true
			return nil
		},
		out:    cli.out,
		errOut: io.Discard,
		log:    logger,
		now:    clock,
	}
	return cli
}

func (c *testCLI) run(t *testing.T, args ...string) []byte {
	t.Helper()
	c.out.Reset()
	require.NoError(t, c.app.run(context.Background(), args))
	return c.out.Bytes()
}

func TestCLI_QuestionLifecycle(t *testing.T) {
	cli := newTestCLI(t)

	out := cli.run(t, "question", "create", "-name", "whatsup", "-text", "What's up?", "-tags", `casual, "small talk"`)
	var created map[string]any
	require.NoError(t, json.Unmarshal(out, &created))
	assert.Equal(t, "whatsup", created["question_name"])
	assert.Equal(t, true, created["was_published_recently"])
	assert.Equal(t, `"small talk", casual`, created["tag_string"])

	out = cli.run(t, "choice", "add", "-question", "whatsup", "-text", "Not much")
	var choice domain.Choice
	require.NoError(t, json.Unmarshal(out, &choice))
	assert.Equal(t, "Not much", choice.Text)

	cli.run(t, "choice", "add", "-question", "whatsup", "-text", "The sky")

	out = cli.run(t, "choice", "vote", "-question", "whatsup", "-id", strconv.FormatInt(choice.ID, 10))
	var voted domain.Choice
	require.NoError(t, json.Unmarshal(out, &voted))
	assert.Equal(t, 1, voted.Votes)

	out = cli.run(t, "choice", "results", "-question", "whatsup")
	var results []domain.ChoiceResult
	require.NoError(t, json.Unmarshal(out, &results))
	require.Len(t, results, 2)
	assert.Equal(t, 100.0, results[0].Percentage)

	out = cli.run(t, "question", "update", "-name", "whatsup", "-pub-date", "2024-03-01T00:00:00Z")
	var updated map[string]any
	require.NoError(t, json.Unmarshal(out, &updated))
	assert.Equal(t, false, updated["was_published_recently"])
	assert.Equal(t, "What's up?", updated["question_text"])

	out = cli.run(t, "question", "show", "-name", "whatsup")
	var shown domain.Question
	require.NoError(t, json.Unmarshal(out, &shown))
	assert.Len(t, shown.Choices, 2)
	assert.Equal(t, []string{"casual", "small talk"}, shown.Tags)

	cli.run(t, "question", "delete", "-name", "whatsup")

	err := cli.app.run(context.Background(), []string{"choice", "list", "-question", "whatsup"})
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestCLI_Tags(t *testing.T) {
	cli := newTestCLI(t)

	cli.run(t, "question", "create", "-name", "q1", "-text", "One")
	cli.run(t, "question", "create", "-name", "q2", "-text", "Two", "-tags", "go")

	out := cli.run(t, "tag", "add", "-question", "q1", "-tags", "go django")
	var listed struct {
		Tags      []string `json:"tags"`
		TagString string   `json:"tag_string"`
	}
	require.NoError(t, json.Unmarshal(out, &listed))
	assert.Equal(t, []string{"django", "go"}, listed.Tags)
	assert.Equal(t, "django, go", listed.TagString)

	out = cli.run(t, "tag", "top", "-limit", "1")
	var top []domain.TagCount
	require.NoError(t, json.Unmarshal(out, &top))
	require.Len(t, top, 1)
	assert.Equal(t, "go", top[0].Name)
	assert.Equal(t, int64(2), top[0].Count)

	out = cli.run(t, "question", "list", "-tag", "go")
	var tagged []domain.Question
	require.NoError(t, json.Unmarshal(out, &tagged))
	assert.Len(t, tagged, 2)

	out = cli.run(t, "tag", "set", "-question", "q1", "-tags", "polls")
	require.NoError(t, json.Unmarshal(out, &listed))
	assert.Equal(t, []string{"polls"}, listed.Tags)

	out = cli.run(t, "tag", "clear", "-question", "q1")
	require.NoError(t, json.Unmarshal(out, &listed))
	assert.Empty(t, listed.Tags)
}

func TestCLI_Latest(t *testing.T) {
	cli := newTestCLI(t)

	cli.run(t, "question", "create", "-name", "past", "-text", "Past", "-pub-date", "2024-03-10T10:00:00Z")
	cli.run(t, "question", "create", "-name", "future", "-text", "Future", "-pub-date", "2024-03-11T10:00:00Z")

	out := cli.run(t, "question", "latest")
	var latest []domain.Question
	require.NoError(t, json.Unmarshal(out, &latest))
	require.Len(t, latest, 1)
	assert.Equal(t, "past", latest[0].Name)
}

func TestCLI_Schema(t *testing.T) {
	cli := newTestCLI(t)
	cli.run(t, "schema")
	assert.True(t, cli.schemaCalled)
}

func TestCLI_Errors(t *testing.T) {
	cli := newTestCLI(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no command", nil, errUsage},
		{"unknown command", []string{"vote"}, errUsage},
		{"unknown question subcommand", []string{"question", "rename"}, errUsage},
		{"unknown flag", []string{"question", "create", "-nope"}, errUsage},
		{"bad date", []string{"question", "create", "-name", "q", "-text", "Q", "-pub-date", "yesterday"}, errUsage},
		{"missing text", []string{"question", "create", "-name", "q"}, domain.ErrInvalidInput},
		{"missing question", []string{"question", "show", "-name", "nope"}, domain.ErrQuestionNotFound},
		{"unknown choice", []string{"choice", "vote", "-question", "nope", "-id", "7"}, domain.ErrChoiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.app.run(ctx, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
