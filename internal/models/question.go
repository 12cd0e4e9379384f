package models

import "time"

// Question is tracked by its literal text. Seq orders the full question list
// and StatusSeq orders the list of its current resolution state; both are
// reassigned whenever the question moves to the end of a list.
type Question struct {
	ID         int64
	Text       string
	Status     QuestionStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
	Seq        int64
	StatusSeq  int64
}

func (q *Question) IsResolved() bool {
	return q.Status == StatusResolved
}
