package db

import (
	"database/sql"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

type AnswerRepository struct {
	queue *DBQueue
}

func NewAnswerRepository(queue *DBQueue) *AnswerRepository {
	return &AnswerRepository{queue: queue}
}

func (r *AnswerRepository) Create(a models.Answer) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO answers (id, question_text, text, followed_up, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, a.ID, a.QuestionText, a.Text, a.FollowedUp, a.CreatedAt)
		return nil, err
	})
	return err
}

// GetAll returns every stored answer, including the ones merged into a follow-up.
func (r *AnswerRepository) GetAll() ([]models.Answer, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, question_text, text, followed_up, created_at
			FROM answers ORDER BY id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var answers []models.Answer
		for rows.Next() {
			var a models.Answer
			if err := rows.Scan(&a.ID, &a.QuestionText, &a.Text, &a.FollowedUp, &a.CreatedAt); err != nil {
				return nil, err
			}
			answers = append(answers, a)
		}
		return answers, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Answer), nil
}

func (r *AnswerRepository) CountByQuestion(questionText string) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM answers WHERE question_text = ?
		`, questionText).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}
