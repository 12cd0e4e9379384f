package board

import (
	"iter"
	"strings"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

// ResultMarker prefixes every answer and follow-up line of a search block.
const ResultMarker = "- "

// Search yields one block per question whose text, or any of its answers or
// follow-ups, contains keyword ignoring case. A block is the question line
// followed by its answer and follow-up lines. An empty keyword matches every
// question. The sequence is evaluated lazily and can be ranged over again.
func (b *Board) Search(keyword string) iter.Seq[string] {
	needle := strings.ToLower(keyword)
	return func(yield func(string) bool) {
		for _, q := range b.full {
			block, ok := b.searchBlock(q.Text, needle)
			if !ok {
				continue
			}
			if !yield(block) {
				return
			}
		}
	}
}

func (b *Board) searchBlock(question, needle string) (string, bool) {
	answers := b.answersByQuestion[question]
	followUps := b.followUpsByQuestion[question]

	matched := containsFold(question, needle)
	for _, a := range answers {
		matched = matched || containsFold(a.Text, needle)
	}
	for _, f := range followUps {
		matched = matched || containsFold(f.AnswerText, needle) || containsFold(f.Text, needle)
	}
	if !matched {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(question)
	for _, a := range answers {
		sb.WriteString("\n")
		sb.WriteString(ResultMarker)
		sb.WriteString(a.Text)
	}
	for _, f := range followUps {
		sb.WriteString("\n")
		sb.WriteString(ResultMarker)
		sb.WriteString(f.AnswerText)
		sb.WriteString(models.FollowUpSeparator)
		sb.WriteString(f.Text)
	}
	return sb.String(), true
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
