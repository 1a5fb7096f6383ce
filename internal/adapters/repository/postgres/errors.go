package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

const (
	uniqueViolation     = "unique_violation"
	foreignKeyViolation = "foreign_key_violation"
	stringTooLong       = "string_data_right_truncation"
)

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// translate maps constraint violations shared by every table to domain errors.
func translate(err error, action string) error {
	if pqErr, ok := asPQError(err); ok && pqErr.Code.Name() == stringTooLong {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pqErr.Message)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
