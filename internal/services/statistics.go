package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

type QuestionActivity struct {
	QuestionID int64
	Text       string
	Answers    int
	FollowUps  int
}

func (a QuestionActivity) Total() int {
	return a.Answers + a.FollowUps
}

type HourlyActivity struct {
	Hour      int
	Questions int
}

type Statistics struct {
	TotalQuestions      int
	UnresolvedQuestions int
	ResolvedQuestions   int
	OpenAnswers         int
	FollowUps           int
	ResolutionRate      int
	AverageResolution   *time.Duration
	MostDiscussed       []QuestionActivity
	HourlyActivity      []HourlyActivity
}

// StatisticsService summarizes the board for the instructor.
type StatisticsService struct {
	board *BoardService
}

func NewStatisticsService(board *BoardService) *StatisticsService {
	return &StatisticsService{board: board}
}

func (s *StatisticsService) CalculateStats(limit int) *Statistics {
	questions := s.board.Questions()
	answers := s.board.Answers()
	followUps := s.board.FollowUps()

	stats := &Statistics{
		TotalQuestions: len(questions),
		OpenAnswers:    len(answers),
		FollowUps:      len(followUps),
	}

	var resolvedFor time.Duration
	hours := make(map[int]int)
	for _, q := range questions {
		if q.IsResolved() {
			stats.ResolvedQuestions++
			if q.ResolvedAt != nil {
				resolvedFor += q.ResolvedAt.Sub(q.CreatedAt)
			}
		} else {
			stats.UnresolvedQuestions++
		}
		hours[q.CreatedAt.Hour()]++
	}

	if stats.TotalQuestions > 0 {
		stats.ResolutionRate = stats.ResolvedQuestions * 100 / stats.TotalQuestions
	}
	if stats.ResolvedQuestions > 0 {
		avg := resolvedFor / time.Duration(stats.ResolvedQuestions)
		stats.AverageResolution = &avg
	}

	for hour, count := range hours {
		stats.HourlyActivity = append(stats.HourlyActivity, HourlyActivity{Hour: hour, Questions: count})
	}
	slices.SortFunc(stats.HourlyActivity, func(a, b HourlyActivity) int { return cmp.Compare(a.Hour, b.Hour) })

	stats.MostDiscussed = mostDiscussed(questions, answers, followUps, limit)
	return stats
}

func mostDiscussed(questions []models.Question, answers []models.Answer, followUps []models.FollowUp, limit int) []QuestionActivity {
	answersByText := make(map[string]int)
	for _, a := range answers {
		answersByText[a.QuestionText]++
	}
	followUpsByText := make(map[string]int)
	for _, f := range followUps {
		followUpsByText[f.QuestionText]++
	}

	var out []QuestionActivity
	seen := make(map[string]bool)
	for _, q := range questions {
		if seen[q.Text] {
			continue
		}
		seen[q.Text] = true
		activity := QuestionActivity{
			QuestionID: q.ID,
			Text:       q.Text,
			Answers:    answersByText[q.Text],
			FollowUps:  followUpsByText[q.Text],
		}
		if activity.Total() > 0 {
			out = append(out, activity)
		}
	}

	slices.SortStableFunc(out, func(a, b QuestionActivity) int { return cmp.Compare(b.Total(), a.Total()) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FormatDuration formats a duration as "1d 3h", "2h 5m" or "4m".
func FormatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return "under a minute"
}

func FormatStatistics(stats *Statistics) string {
	if stats == nil {
		return ""
	}

	result := "📊 Help desk statistics:\n\n"

	result += "❓ Questions:\n"
	result += fmt.Sprintf("• Total: %d\n", stats.TotalQuestions)
	result += fmt.Sprintf("• Unresolved: %d\n", stats.UnresolvedQuestions)
	result += fmt.Sprintf("• Resolved: %d (%d%%)\n", stats.ResolvedQuestions, stats.ResolutionRate)
	if stats.AverageResolution != nil {
		result += fmt.Sprintf("• Average time to resolve: %s\n", FormatDuration(*stats.AverageResolution))
	} else {
		result += "• Average time to resolve: —\n"
	}
	result += "\n"

	result += "💬 Answers:\n"
	result += fmt.Sprintf("• Open for follow-up: %d\n", stats.OpenAnswers)
	result += fmt.Sprintf("• With follow-ups: %d\n", stats.FollowUps)

	if len(stats.MostDiscussed) > 0 {
		result += "\n🔥 Most discussed:\n"
		for i, a := range stats.MostDiscussed {
			result += fmt.Sprintf("%d. #%d %s (%d)\n", i+1, a.QuestionID, FormatBold(a.Text), a.Total())
		}
	}

	if len(stats.HourlyActivity) > 0 {
		result += "\n🕐 Questions by hour:\n"
		for _, h := range stats.HourlyActivity {
			result += fmt.Sprintf("• %02d:00 %d\n", h.Hour, h.Questions)
		}
	}

	return TruncateMessage(result)
}
