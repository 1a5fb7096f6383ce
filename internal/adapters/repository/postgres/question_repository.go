package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	query := `
		INSERT INTO questions (question_name, question_text, pub_date)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, question.Name, question.Text, question.PubDate)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code.Name() == uniqueViolation {
			return domain.ErrQuestionExists
		}
		return translate(err, "insert question")
	}
	return nil
}

func (r *questionRepository) Update(ctx context.Context, question *domain.Question) error {
	query := `
		UPDATE questions
		SET question_text = $2, pub_date = $3
		WHERE question_name = $1
	`
	res, err := r.db.ExecContext(ctx, query, question.Name, question.Text, question.PubDate)
	if err != nil {
		return translate(err, "update question")
	}
	return requireRow(res, domain.ErrQuestionNotFound)
}

func (r *questionRepository) GetByName(ctx context.Context, name string) (*domain.Question, error) {
	query := `
		SELECT question_name, question_text, pub_date
		FROM questions
		WHERE question_name = $1
	`

	var question domain.Question
	err := r.db.QueryRowContext(ctx, query, name).Scan(&question.Name, &question.Text, &question.PubDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return &question, nil
}

func (r *questionRepository) GetByNames(ctx context.Context, names []string) ([]*domain.Question, error) {
	query := `
		SELECT question_name, question_text, pub_date
		FROM questions
		WHERE question_name = ANY($1)
		ORDER BY pub_date DESC, question_name
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Question, error) {
	query := `
		SELECT question_name, question_text, pub_date
		FROM questions
		ORDER BY pub_date DESC, question_name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *questionRepository) ListPublishedBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Question, error) {
	query := `
		SELECT question_name, question_text, pub_date
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date DESC, question_name
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Delete relies on ON DELETE CASCADE for choices. Tagged items carry no
// foreign key on object_id, so they are removed in the same transaction.
func (r *questionRepository) Delete(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM tagged_items WHERE content_type = $1 AND object_id = $2`, domain.QuestionContentType, name)
	if err != nil {
		return fmt.Errorf("failed to delete tagged items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE question_name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if err := requireRow(res, domain.ErrQuestionNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanQuestions(rows *sql.Rows) ([]*domain.Question, error) {
	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.Name, &question.Text, &question.PubDate); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
