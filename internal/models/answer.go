package models

import "time"

type Answer struct {
	ID           int64
	QuestionText string
	Text         string
	FollowedUp   bool
	CreatedAt    time.Time
}

func (a *Answer) Key() string {
	return AnswerKey(a.QuestionText, a.Text)
}
