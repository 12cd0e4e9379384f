package models

type QuestionStatus string

const (
	StatusUnresolved QuestionStatus = "unresolved"
	StatusResolved   QuestionStatus = "resolved"
)

func (s QuestionStatus) Valid() bool {
	switch s {
	case StatusUnresolved, StatusResolved:
		return true
	default:
		return false
	}
}
