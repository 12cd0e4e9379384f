package board

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

// Snapshot is a copy of the five entry lists in display order.
type Snapshot struct {
	FullQuestions       []string
	UnresolvedQuestions []string
	ResolvedQuestions   []string
	Answers             []string
	FollowUps           []string
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		FullQuestions:       questionTexts(b.full),
		UnresolvedQuestions: questionTexts(b.unresolved),
		ResolvedQuestions:   questionTexts(b.resolved),
		Answers:             answerKeys(b.answers),
		FollowUps:           followUpKeys(b.followUps),
	}
}

func questionTexts(list []*models.Question) []string {
	out := make([]string, 0, len(list))
	for _, q := range list {
		out = append(out, q.Text)
	}
	return out
}

func answerKeys(list []*models.Answer) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Key())
	}
	return out
}

func followUpKeys(list []*models.FollowUp) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Key())
	}
	return out
}

func (b *Board) Questions() []models.Question {
	return cloneQuestions(b.full)
}

func (b *Board) UnresolvedQuestions() []models.Question {
	return cloneQuestions(b.unresolved)
}

func (b *Board) ResolvedQuestions() []models.Question {
	return cloneQuestions(b.resolved)
}

func cloneQuestions(list []*models.Question) []models.Question {
	out := make([]models.Question, 0, len(list))
	for _, q := range list {
		out = append(out, cloneQuestion(q))
	}
	return out
}

// Answers returns the answers that have not been merged into a follow-up.
func (b *Board) Answers() []models.Answer {
	out := make([]models.Answer, 0, len(b.answers))
	for _, a := range b.answers {
		out = append(out, *a)
	}
	return out
}

func (b *Board) FollowUps() []models.FollowUp {
	out := make([]models.FollowUp, 0, len(b.followUps))
	for _, f := range b.followUps {
		out = append(out, *f)
	}
	return out
}

func (b *Board) AnswersFor(questionText string) []models.Answer {
	list := b.answersByQuestion[questionText]
	out := make([]models.Answer, 0, len(list))
	for _, a := range list {
		out = append(out, *a)
	}
	return out
}

func (b *Board) FollowUpsFor(questionText string) []models.FollowUp {
	list := b.followUpsByQuestion[questionText]
	out := make([]models.FollowUp, 0, len(list))
	for _, f := range list {
		out = append(out, *f)
	}
	return out
}

func (b *Board) QuestionByID(id int64) (models.Question, bool) {
	for _, q := range b.full {
		if q.ID == id {
			return cloneQuestion(q), true
		}
	}
	return models.Question{}, false
}

// AnswerByID looks up an answer that is still open for a follow-up.
func (b *Board) AnswerByID(id int64) (models.Answer, bool) {
	for _, a := range b.answers {
		if a.ID == id {
			return *a, true
		}
	}
	return models.Answer{}, false
}

// Restore replaces the board contents with previously persisted records.
// Answers flagged FollowedUp are only reachable through their follow-ups.
func (b *Board) Restore(questions []models.Question, answers []models.Answer, followUps []models.FollowUp) error {
	b.reset()

	qs := make([]*models.Question, 0, len(questions))
	for i := range questions {
		if !questions[i].Status.Valid() {
			return fmt.Errorf("question %d has invalid status %q", questions[i].ID, questions[i].Status)
		}
		q := cloneQuestion(&questions[i])
		qs = append(qs, &q)
		b.nextQuestionID = max(b.nextQuestionID, q.ID+1)
		b.seq = max(b.seq, q.Seq+1, q.StatusSeq+1)
	}

	slices.SortStableFunc(qs, func(x, y *models.Question) int { return cmp.Compare(x.Seq, y.Seq) })
	b.full = qs
	for _, q := range qs {
		if q.IsResolved() {
			b.resolved = append(b.resolved, q)
		} else {
			b.unresolved = append(b.unresolved, q)
		}
	}
	byStatusSeq := func(x, y *models.Question) int { return cmp.Compare(x.StatusSeq, y.StatusSeq) }
	slices.SortStableFunc(b.unresolved, byStatusSeq)
	slices.SortStableFunc(b.resolved, byStatusSeq)

	as := make([]*models.Answer, 0, len(answers))
	for i := range answers {
		a := answers[i]
		as = append(as, &a)
		b.nextAnswerID = max(b.nextAnswerID, a.ID+1)
	}
	slices.SortStableFunc(as, func(x, y *models.Answer) int { return cmp.Compare(x.ID, y.ID) })
	for _, a := range as {
		if !a.FollowedUp {
			b.addAnswer(a)
		}
	}

	fs := make([]*models.FollowUp, 0, len(followUps))
	for i := range followUps {
		f := followUps[i]
		fs = append(fs, &f)
		b.nextFollowUpID = max(b.nextFollowUpID, f.ID+1)
	}
	slices.SortStableFunc(fs, func(x, y *models.FollowUp) int { return cmp.Compare(x.ID, y.ID) })
	for _, f := range fs {
		b.addFollowUp(f)
	}

	return nil
}
