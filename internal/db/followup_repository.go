package db

import (
	"database/sql"
	"fmt"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

type FollowUpRepository struct {
	queue *DBQueue
}

func NewFollowUpRepository(queue *DBQueue) *FollowUpRepository {
	return &FollowUpRepository{queue: queue}
}

// Create stores the follow-up and flags its answer as merged.
func (r *FollowUpRepository) Create(f models.FollowUp) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		tx, err := db.Begin()
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		res, err := tx.Exec(`UPDATE answers SET followed_up = TRUE WHERE id = ?`, f.AnswerID)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("answer %d: %w", f.AnswerID, sql.ErrNoRows)
		}

		if _, err := tx.Exec(`
			INSERT INTO follow_ups (id, answer_id, text, created_at)
			VALUES (?, ?, ?, ?)
		`, f.ID, f.AnswerID, f.Text, f.CreatedAt); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *FollowUpRepository) GetAll() ([]models.FollowUp, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT f.id, f.answer_id, a.question_text, a.text, f.text, f.created_at
			FROM follow_ups f
			JOIN answers a ON a.id = f.answer_id
			ORDER BY f.id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var followUps []models.FollowUp
		for rows.Next() {
			var f models.FollowUp
			if err := rows.Scan(&f.ID, &f.AnswerID, &f.QuestionText, &f.AnswerText, &f.Text, &f.CreatedAt); err != nil {
				return nil, err
			}
			followUps = append(followUps, f)
		}
		return followUps, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.FollowUp), nil
}
