package models

import "strings"

const (
	AnswerSeparator   = " | Answer: "
	FollowUpSeparator = " | Follow-Up: "
)

// AnswerKey builds the composite entry shown in the answer list.
func AnswerKey(questionText, answerText string) string {
	return questionText + AnswerSeparator + answerText
}

// FollowUpKey extends an answer entry with a follow-up.
func FollowUpKey(answerKey, followUpText string) string {
	return answerKey + FollowUpSeparator + followUpText
}

// AnswerPrefix is the prefix shared by every answer and follow-up entry
// that belongs to questionText.
func AnswerPrefix(questionText string) string {
	return questionText + AnswerSeparator
}

// BelongsTo reports whether entry is an answer or follow-up entry of questionText.
func BelongsTo(entry, questionText string) bool {
	return strings.HasPrefix(entry, AnswerPrefix(questionText))
}
