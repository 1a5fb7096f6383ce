package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const usage = `usage: polls [flags] <command> [args]

commands:
  schema
  question create -name NAME -text TEXT [-pub-date RFC3339] [-tags TAGS]
  question show|delete -name NAME
  question update -name NAME [-text TEXT] [-pub-date RFC3339]
  question list [-page N] [-tag TAG]
  question latest [-limit N]
  choice add -question NAME -text TEXT
  choice list|results -question NAME
  choice vote -question NAME -id ID
  choice remove -id ID
  tag add|remove|set -question NAME -tags TAGS
  tag clear|list -question NAME
  tag top [-limit N]
  tag questions -tag TAG

flags:`

var errUsage = errors.New("usage error")

type app struct {
	questions    ports.QuestionService
	choices      ports.ChoiceService
	tags         ports.TagService
	ensureSchema func(context.Context) error
	out          io.Writer
	errOut       io.Writer
	log          logrus.FieldLogger
	now          func() time.Time
}

type questionView struct {
	*domain.Question
	PublishedRecently bool   `json:"was_published_recently"`
	TagString         string `json:"tag_string,omitempty"`
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	a.log.WithField("args", args).Debug("running command")

	switch args[0] {
	case "schema":
		if err := a.ensureSchema(ctx); err != nil {
			return err
		}
		a.log.Info("schema is up to date")
		return nil
	case "question":
		return a.runQuestion(ctx, args[1:])
	case "choice":
		return a.runChoice(ctx, args[1:])
	case "tag":
		return a.runTag(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (a *app) runQuestion(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing question subcommand", errUsage)
	}

	fs := a.flags("question " + args[0])
	name := fs.String("name", "", "Question name")
	text := fs.String("text", "", "Question text")
	pubDate := fs.String("pub-date", "", "Publication date (RFC3339, default now)")
	tags := fs.String("tags", "", `Tags, e.g. "django, go" or "\"two words\" other"`)
	page := fs.Int("page", 1, "Page number")
	tag := fs.String("tag", "", "Only questions carrying this tag")
	limit := fs.Int("limit", 0, "Maximum number of questions")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch args[0] {
	case "create":
		date, err := a.parseTime(*pubDate)
		if err != nil {
			return err
		}
		q, err := a.questions.Create(ctx, ports.CreateQuestionInput{
			Name:    *name,
			Text:    *text,
			PubDate: date,
			Tags:    domain.ParseTags(*tags),
		})
		if err != nil {
			return err
		}
		a.log.WithField("question", q.Name).Info("question created")
		return a.print(a.view(q))
	case "show":
		q, err := a.questions.Get(ctx, *name)
		if err != nil {
			return err
		}
		return a.print(a.view(q))
	case "update":
		input := ports.UpdateQuestionInput{Name: *name}
		var parseErr error
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "text":
				input.Text = text
			case "pub-date":
				var date time.Time
				date, parseErr = a.parseTime(*pubDate)
				input.PubDate = &date
			}
		})
		if parseErr != nil {
			return parseErr
		}
		q, err := a.questions.Update(ctx, input)
		if err != nil {
			return err
		}
		a.log.WithField("question", q.Name).Info("question updated")
		return a.print(a.view(q))
	case "delete":
		if err := a.questions.Delete(ctx, *name); err != nil {
			return err
		}
		a.log.WithField("question", *name).Info("question deleted")
		return nil
	case "list":
		qs, err := a.questions.List(ctx, ports.ListQuestionsInput{Page: *page, Tag: *tag})
		if err != nil {
			return err
		}
		return a.print(a.views(qs))
	case "latest":
		qs, err := a.questions.Latest(ctx, *limit)
		if err != nil {
			return err
		}
		return a.print(a.views(qs))
	default:
		return fmt.Errorf("%w: unknown question subcommand %q", errUsage, args[0])
	}
}

func (a *app) runChoice(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing choice subcommand", errUsage)
	}

	fs := a.flags("choice " + args[0])
	question := fs.String("question", "", "Question name")
	text := fs.String("text", "", "Choice text")
	votes := fs.Int("votes", 0, "Initial votes")
	id := fs.Int64("id", 0, "Choice id")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch args[0] {
	case "add":
		c, err := a.choices.Add(ctx, ports.AddChoiceInput{QuestionName: *question, Text: *text, Votes: *votes})
		if err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"question": c.QuestionName, "choice": c.ID}).Info("choice added")
		return a.print(c)
	case "list":
		cs, err := a.choices.List(ctx, *question)
		if err != nil {
			return err
		}
		return a.print(cs)
	case "vote":
		c, err := a.choices.Vote(ctx, *question, *id)
		if err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"question": c.QuestionName, "choice": c.ID, "votes": c.Votes}).Info("vote recorded")
		return a.print(c)
	case "results":
		rs, err := a.choices.Results(ctx, *question)
		if err != nil {
			return err
		}
		return a.print(rs)
	case "remove":
		if err := a.choices.Remove(ctx, *id); err != nil {
			return err
		}
		a.log.WithField("choice", *id).Info("choice removed")
		return nil
	default:
		return fmt.Errorf("%w: unknown choice subcommand %q", errUsage, args[0])
	}
}

func (a *app) runTag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing tag subcommand", errUsage)
	}

	fs := a.flags("tag " + args[0])
	question := fs.String("question", "", "Question name")
	tags := fs.String("tags", "", "Tags")
	tag := fs.String("tag", "", "Tag name")
	limit := fs.Int("limit", 0, "Maximum number of tags")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var err error
	switch args[0] {
	case "add":
		err = a.tags.Add(ctx, *question, domain.ParseTags(*tags)...)
	case "remove":
		err = a.tags.Remove(ctx, *question, domain.ParseTags(*tags)...)
	case "set":
		err = a.tags.Set(ctx, *question, domain.ParseTags(*tags)...)
	case "clear":
		err = a.tags.Clear(ctx, *question)
	case "list":
	case "top":
		counts, err := a.tags.MostCommon(ctx, *limit)
		if err != nil {
			return err
		}
		return a.print(counts)
	case "questions":
		qs, err := a.tags.Tagged(ctx, *tag)
		if err != nil {
			return err
		}
		return a.print(a.views(qs))
	default:
		return fmt.Errorf("%w: unknown tag subcommand %q", errUsage, args[0])
	}
	if err != nil {
		return err
	}

	names, err := a.tags.Names(ctx, *question)
	if err != nil {
		return err
	}
	return a.print(map[string]any{
		"question":   *question,
		"tags":       names,
		"tag_string": domain.EditString(names),
	})
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) parseTime(s string) (time.Time, error) {
	if s == "" {
		return a.clock(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected RFC3339", errUsage, s)
	}
	return t, nil
}

func (a *app) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *app) view(q *domain.Question) questionView {
	return questionView{
		Question:          q,
		PublishedRecently: q.WasPublishedRecently(a.clock()),
		TagString:         domain.EditString(q.Tags),
	}
}

func (a *app) views(qs []*domain.Question) []questionView {
	out := make([]questionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, a.view(q))
	}
	return out
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
