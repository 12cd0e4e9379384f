package db

import (
	"database/sql"
	"fmt"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

type QuestionRepository struct {
	queue *DBQueue
}

func NewQuestionRepository(queue *DBQueue) *QuestionRepository {
	return &QuestionRepository{queue: queue}
}

func (r *QuestionRepository) Create(q models.Question) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO questions (id, text, status, seq, status_seq, created_at, resolved_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, q.ID, q.Text, q.Status, q.Seq, q.StatusSeq, q.CreatedAt, q.ResolvedAt)
		return nil, err
	})
	return err
}

// Update stores the text, status and ordering of an existing question.
func (r *QuestionRepository) Update(q models.Question) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			UPDATE questions
			SET text = ?, status = ?, seq = ?, status_seq = ?, resolved_at = ?
			WHERE id = ?
		`, q.Text, q.Status, q.Seq, q.StatusSeq, q.ResolvedAt, q.ID)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("question %d: %w", q.ID, sql.ErrNoRows)
		}
		return nil, nil
	})
	return err
}

// DeleteByText removes every question with this text and everything filed
// under it, in one transaction.
func (r *QuestionRepository) DeleteByText(text string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		tx, err := db.Begin()
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			DELETE FROM follow_ups
			WHERE answer_id IN (SELECT id FROM answers WHERE question_text = ?)
		`, text); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`DELETE FROM answers WHERE question_text = ?`, text); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`DELETE FROM questions WHERE text = ?`, text); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *QuestionRepository) GetAll() ([]models.Question, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, text, status, seq, status_seq, created_at, resolved_at
			FROM questions ORDER BY seq
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var questions []models.Question
		for rows.Next() {
			var q models.Question
			var resolvedAt sql.NullTime
			if err := rows.Scan(&q.ID, &q.Text, &q.Status, &q.Seq, &q.StatusSeq, &q.CreatedAt, &resolvedAt); err != nil {
				return nil, err
			}
			if resolvedAt.Valid {
				q.ResolvedAt = &resolvedAt.Time
			}
			questions = append(questions, q)
		}
		return questions, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Question), nil
}
