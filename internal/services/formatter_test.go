package services

import (
	"strings"
	"testing"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/board"
	"github.com/ad/go-telegram-helpdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var formatNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func TestFormatTimeAgo(t *testing.T) {
	assert.Equal(t, "just now", FormatTimeAgo(formatNow, formatNow))
	assert.Equal(t, "2 hours ago", FormatTimeAgo(formatNow.Add(-2*time.Hour), formatNow))
	assert.Equal(t, "3 days ago", FormatTimeAgo(formatNow.Add(-72*time.Hour), formatNow))
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "20 Mar 2025, 12:00", FormatDateTime(formatNow))
}

func TestFormatQuestionLine(t *testing.T) {
	resolvedAt := formatNow.Add(-time.Hour)
	q := models.Question{
		ID:         3,
		Text:       "Is <T> generic?",
		Status:     models.StatusResolved,
		CreatedAt:  formatNow.Add(-2 * time.Hour),
		ResolvedAt: &resolvedAt,
	}

	got := FormatQuestionLine(q, formatNow)
	assert.Equal(t, "✅ #3 <b>Is &lt;T&gt; generic?</b>\n   asked 2 hours ago, resolved 1 hour ago", got)
}

func TestFormatQuestionList(t *testing.T) {
	assert.Contains(t, FormatQuestionList("Questions", nil, formatNow), "Nothing here yet.")

	got := FormatQuestionList("Questions", []models.Question{
		{ID: 1, Text: "Q1", Status: models.StatusUnresolved, CreatedAt: formatNow},
		{ID: 2, Text: "Q2", Status: models.StatusUnresolved, CreatedAt: formatNow},
	}, formatNow)
	assert.True(t, strings.HasPrefix(got, "<b>Questions</b> (2)"))
	assert.Contains(t, got, "❓ #1 <b>Q1</b>")
	assert.Contains(t, got, "❓ #2 <b>Q2</b>")
}

func TestFormatQuestionCard(t *testing.T) {
	q := models.Question{ID: 6, Text: "Q6: What is JavaFX?", Status: models.StatusUnresolved, CreatedAt: formatNow}

	assert.Contains(t, FormatQuestionCard(q, nil, nil, formatNow), "No answers yet.")

	got := FormatQuestionCard(q,
		[]models.Answer{{ID: 2, QuestionText: q.Text, Text: "A GUI toolkit"}},
		[]models.FollowUp{{QuestionText: q.Text, AnswerText: "Bundled?", Text: "Not since 11"}},
		formatNow)
	assert.Contains(t, got, "• #2 A GUI toolkit")
	assert.Contains(t, got, "• Bundled?\n  ↳ Not since 11")
}

func TestFormatSearchResults(t *testing.T) {
	assert.Contains(t, FormatSearchResults("zzz", nil), "No questions matched.")

	got := FormatSearchResults("java", []string{"Q1: What is Java?\n- Java is a <language>"})
	assert.Equal(t, "🔎 Results for <b>java</b>\n\n<b>Q1: What is Java?</b>\n- Java is a &lt;language&gt;", got)

	assert.True(t, strings.HasPrefix(FormatSearchResults("", []string{"Q"}), "🔎 All questions"))
}

func TestFormatRemoval(t *testing.T) {
	assert.Equal(t, "Nothing to delete.", FormatRemoval(board.Removal{}))
	got := FormatRemoval(board.Removal{
		Questions: make([]models.Question, 1),
		Answers:   make([]models.Answer, 2),
	})
	assert.Equal(t, "🗑 Deleted 1 question, 2 answers and 0 follow-ups.", got)
}

func TestProperty_TruncateMessage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringN(0, 6000, -1).Draw(t, "text")

		got := TruncateMessage(text)

		if len(text) <= MaxMessageLength {
			if got != text {
				t.Fatalf("short text must be unchanged")
			}
			return
		}
		body := strings.TrimSuffix(got, "\n... (truncated)")
		if len(body) > MaxMessageLength {
			t.Fatalf("truncated body is %d bytes", len(body))
		}
		if !strings.HasPrefix(text, body) {
			t.Fatalf("truncated text must be a prefix of the input")
		}
	})
}
