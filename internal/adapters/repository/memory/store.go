// Package memory keeps polls data in process memory. It enforces the same
// keys, length limits and cascades as the PostgreSQL schema.
package memory

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type Store struct {
	mu           sync.RWMutex
	questions    map[string]domain.Question
	choices      map[int64]domain.Choice
	nextChoiceID int64
	tags         map[uuid.UUID]domain.Tag
	items        map[uuid.UUID]domain.TaggedItem
}

func NewStore() *Store {
	return &Store{
		questions: make(map[string]domain.Question),
		choices:   make(map[int64]domain.Choice),
		tags:      make(map[uuid.UUID]domain.Tag),
		items:     make(map[uuid.UUID]domain.TaggedItem),
	}
}

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s longer than %d characters", domain.ErrInvalidInput, field, max)
	}
	return nil
}
