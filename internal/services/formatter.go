package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ad/go-telegram-helpdesk/internal/board"
	"github.com/ad/go-telegram-helpdesk/internal/models"
	"github.com/dustin/go-humanize"
)

// MaxMessageLength keeps rendered messages under the Telegram limit of 4096.
const MaxMessageLength = 4000

// FormatDateTime formats time as "20 Mar 2025, 09:00".
func FormatDateTime(t time.Time) string {
	return t.Format("2 Jan 2006, 15:04")
}

// FormatTimeAgo formats t relative to now, e.g. "3 hours ago".
func FormatTimeAgo(t, now time.Time) string {
	if now.Sub(t) < time.Second {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func statusIcon(q models.Question) string {
	if q.IsResolved() {
		return "✅"
	}
	return "❓"
}

// FormatQuestionLine renders one question of a listing.
func FormatQuestionLine(q models.Question, now time.Time) string {
	line := fmt.Sprintf("%s #%d %s", statusIcon(q), q.ID, FormatBold(q.Text))
	line += fmt.Sprintf("\n   asked %s", FormatTimeAgo(q.CreatedAt, now))
	if q.ResolvedAt != nil {
		line += fmt.Sprintf(", resolved %s", FormatTimeAgo(*q.ResolvedAt, now))
	}
	return line
}

func FormatQuestionList(title string, questions []models.Question, now time.Time) string {
	if len(questions) == 0 {
		return FormatBold(title) + "\n\nNothing here yet."
	}

	result := FormatBold(title) + fmt.Sprintf(" (%d)\n\n", len(questions))
	for _, q := range questions {
		result += FormatQuestionLine(q, now) + "\n"
	}
	return TruncateMessage(strings.TrimRight(result, "\n"))
}

// FormatQuestionCard renders a question with its open answers and follow-ups.
func FormatQuestionCard(q models.Question, answers []models.Answer, followUps []models.FollowUp, now time.Time) string {
	result := FormatQuestionLine(q, now) + "\n"

	if len(answers) == 0 && len(followUps) == 0 {
		result += "\n" + FormatItalic("No answers yet.")
		return result
	}

	if len(answers) > 0 {
		result += "\n💬 Answers:\n"
		for _, a := range answers {
			result += fmt.Sprintf("• #%d %s\n", a.ID, Escape(a.Text))
		}
	}
	if len(followUps) > 0 {
		result += "\n🔁 Follow-ups:\n"
		for _, f := range followUps {
			result += fmt.Sprintf("• %s\n  ↳ %s\n", Escape(f.AnswerText), Escape(f.Text))
		}
	}
	return TruncateMessage(strings.TrimRight(result, "\n"))
}

// FormatAnswerList renders open answers with their composite keys.
func FormatAnswerList(answers []models.Answer) string {
	if len(answers) == 0 {
		return FormatBold("Answers") + "\n\nNo open answers."
	}

	result := FormatBold("Answers") + fmt.Sprintf(" (%d)\n\n", len(answers))
	for _, a := range answers {
		result += fmt.Sprintf("#%d %s\n", a.ID, Escape(a.Key()))
	}
	return TruncateMessage(strings.TrimRight(result, "\n"))
}

func FormatFollowUpList(followUps []models.FollowUp) string {
	if len(followUps) == 0 {
		return FormatBold("Follow-ups") + "\n\nNo follow-ups yet."
	}

	result := FormatBold("Follow-ups") + fmt.Sprintf(" (%d)\n\n", len(followUps))
	for _, f := range followUps {
		result += "• " + Escape(f.Key()) + "\n"
	}
	return TruncateMessage(strings.TrimRight(result, "\n"))
}

// FormatSearchResults renders the blocks produced by a board search.
func FormatSearchResults(keyword string, blocks []string) string {
	header := "🔎 All questions"
	if keyword != "" {
		header = "🔎 Results for " + FormatBold(keyword)
	}
	if len(blocks) == 0 {
		return header + "\n\nNo questions matched."
	}

	result := header + "\n"
	for _, block := range blocks {
		question, rest, _ := strings.Cut(block, "\n")
		result += "\n" + FormatBold(question) + "\n"
		if rest != "" {
			result += Escape(rest) + "\n"
		}
	}
	return TruncateMessage(strings.TrimRight(result, "\n"))
}

func FormatRemoval(r board.Removal) string {
	if r.Empty() {
		return "Nothing to delete."
	}
	return fmt.Sprintf("🗑 Deleted %s, %s and %s.",
		pluralize(len(r.Questions), "question"),
		pluralize(len(r.Answers), "answer"),
		pluralize(len(r.FollowUps), "follow-up"))
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}

// TruncateMessage cuts text to MaxMessageLength bytes, preferring the last
// line break so that no line is split.
func TruncateMessage(text string) string {
	if len(text) <= MaxMessageLength {
		return text
	}
	cut := strings.LastIndex(text[:MaxMessageLength], "\n")
	if cut <= 0 {
		cut = MaxMessageLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + "\n... (truncated)"
}
