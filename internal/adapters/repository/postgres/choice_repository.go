package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type choiceRepository struct {
	db *sql.DB
}

func NewChoiceRepository(db *sql.DB) ports.ChoiceRepository {
	return &choiceRepository{
		db: db,
	}
}

func (r *choiceRepository) Save(ctx context.Context, choice *domain.Choice) error {
	query := `
		INSERT INTO choices (question_name, choice_text, votes)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, choice.QuestionName, choice.Text, choice.Votes).Scan(&choice.ID)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code.Name() == foreignKeyViolation {
			return domain.ErrQuestionNotFound
		}
		return translate(err, "insert choice")
	}
	return nil
}

func (r *choiceRepository) GetByID(ctx context.Context, id int64) (*domain.Choice, error) {
	query := `
		SELECT id, question_name, choice_text, votes
		FROM choices
		WHERE id = $1
	`

	var choice domain.Choice
	err := r.db.QueryRowContext(ctx, query, id).Scan(&choice.ID, &choice.QuestionName, &choice.Text, &choice.Votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChoiceNotFound
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}

	return &choice, nil
}

func (r *choiceRepository) ListByQuestion(ctx context.Context, questionName string) ([]domain.Choice, error) {
	query := `
		SELECT id, question_name, choice_text, votes
		FROM choices
		WHERE question_name = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, questionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		var choice domain.Choice
		if err := rows.Scan(&choice.ID, &choice.QuestionName, &choice.Text, &choice.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, choice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}

// The increment happens in SQL, so concurrent votes are never lost.
func (r *choiceRepository) IncrementVotes(ctx context.Context, questionName string, id int64) error {
	query := `
		UPDATE choices SET votes = votes + 1
		WHERE id = $1 AND question_name = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, questionName)
	if err != nil {
		return fmt.Errorf("failed to increment votes: %w", err)
	}
	return requireRow(res, domain.ErrChoiceNotFound)
}

func (r *choiceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM choices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete choice: %w", err)
	}
	return requireRow(res, domain.ErrChoiceNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
