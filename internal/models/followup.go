package models

import "time"

// FollowUp is a clarifying question merged into the answer it follows.
// It keeps a copy of the parent texts so the merged entry survives after the
// answer leaves the active answer list.
type FollowUp struct {
	ID           int64
	AnswerID     int64
	QuestionText string
	AnswerText   string
	Text         string
	CreatedAt    time.Time
}

func (f *FollowUp) AnswerKey() string {
	return AnswerKey(f.QuestionText, f.AnswerText)
}

func (f *FollowUp) Key() string {
	return FollowUpKey(f.AnswerKey(), f.Text)
}
