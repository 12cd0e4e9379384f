// Package board holds the in-memory question and answer registry of the help
// desk: questions with their resolution state, answers, and follow-ups merged
// into answers.
//
// A Board is not safe for concurrent use. Callers that share one across
// goroutines must guard the whole instance with a single lock.
package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/models"
)

type Board struct {
	full       []*models.Question
	unresolved []*models.Question
	resolved   []*models.Question
	answers    []*models.Answer
	followUps  []*models.FollowUp

	// answersByQuestion and followUpsByQuestion are keyed by the question text
	// the entry was created under, which is what its composite key starts with.
	answersByQuestion   map[string][]*models.Answer
	followUpsByQuestion map[string][]*models.FollowUp
	answersByKey        map[string][]*models.Answer

	nextQuestionID int64
	nextAnswerID   int64
	nextFollowUpID int64
	seq            int64

	now func() time.Time
}

// Removal lists the records dropped by DeleteQuestion.
type Removal struct {
	Questions []models.Question
	Answers   []models.Answer
	FollowUps []models.FollowUp
}

func (r Removal) Empty() bool {
	return len(r.Questions) == 0 && len(r.Answers) == 0 && len(r.FollowUps) == 0
}

func New() *Board {
	b := &Board{now: time.Now}
	b.reset()
	return b
}

func (b *Board) reset() {
	b.full = nil
	b.unresolved = nil
	b.resolved = nil
	b.answers = nil
	b.followUps = nil
	b.answersByQuestion = make(map[string][]*models.Answer)
	b.followUpsByQuestion = make(map[string][]*models.FollowUp)
	b.answersByKey = make(map[string][]*models.Answer)
	b.nextQuestionID = 1
	b.nextAnswerID = 1
	b.nextFollowUpID = 1
	b.seq = 1
}

func (b *Board) nextSeq() int64 {
	s := b.seq
	b.seq++
	return s
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// SubmitQuestion adds text as a new unresolved question. The same text may be
// submitted more than once.
func (b *Board) SubmitQuestion(text string) (models.Question, error) {
	if isBlank(text) {
		return models.Question{}, &ValidationError{Op: "submit question", Err: ErrEmptyText}
	}

	q := &models.Question{
		ID:        b.nextQuestionID,
		Text:      text,
		Status:    models.StatusUnresolved,
		CreatedAt: b.now(),
		Seq:       b.nextSeq(),
	}
	q.StatusSeq = q.Seq
	b.nextQuestionID++

	b.full = append(b.full, q)
	b.unresolved = append(b.unresolved, q)
	return cloneQuestion(q), nil
}

// SubmitAnswer records answerText under an existing question.
func (b *Board) SubmitAnswer(question, answerText string) (models.Answer, error) {
	if indexOfQuestion(b.full, question) < 0 {
		return models.Answer{}, &ValidationError{Op: "submit answer", Err: fmt.Errorf("%w: %q", ErrQuestionNotFound, question)}
	}
	if isBlank(answerText) {
		return models.Answer{}, &ValidationError{Op: "submit answer", Err: ErrEmptyText}
	}

	a := &models.Answer{
		ID:           b.nextAnswerID,
		QuestionText: question,
		Text:         answerText,
		CreatedAt:    b.now(),
	}
	b.nextAnswerID++

	b.addAnswer(a)
	return *a, nil
}

func (b *Board) addAnswer(a *models.Answer) {
	b.answers = append(b.answers, a)
	b.answersByQuestion[a.QuestionText] = append(b.answersByQuestion[a.QuestionText], a)
	key := a.Key()
	b.answersByKey[key] = append(b.answersByKey[key], a)
}

// MarkResolved moves the first unresolved question with this text to the end
// of the resolved list. There is no way back.
func (b *Board) MarkResolved(question string) (models.Question, error) {
	i := indexOfQuestion(b.unresolved, question)
	if i < 0 {
		return models.Question{}, &StateError{Op: "mark resolved", Err: fmt.Errorf("%w: %q", ErrNotUnresolved, question)}
	}

	q := b.unresolved[i]
	b.unresolved = slices.Delete(slices.Clone(b.unresolved), i, i+1)

	resolvedAt := b.now()
	q.Status = models.StatusResolved
	q.ResolvedAt = &resolvedAt
	q.StatusSeq = b.nextSeq()
	b.resolved = append(b.resolved, q)
	return cloneQuestion(q), nil
}

// EditQuestion replaces the wording of a question, moving it to the end of the
// question list. Answers and follow-ups stay keyed to the old wording.
func (b *Board) EditQuestion(oldText, newText string) (before, after models.Question, err error) {
	i := indexOfQuestion(b.full, oldText)
	if i < 0 {
		return models.Question{}, models.Question{}, &ValidationError{Op: "edit question", Err: fmt.Errorf("%w: %q", ErrQuestionNotFound, oldText)}
	}
	if isBlank(newText) {
		return models.Question{}, models.Question{}, &ValidationError{Op: "edit question", Err: ErrEmptyText}
	}

	q := b.full[i]
	before = cloneQuestion(q)

	b.full = slices.Delete(slices.Clone(b.full), i, i+1)
	b.removeFromStatusList(q)

	q.Text = newText
	q.Seq = b.nextSeq()
	q.StatusSeq = b.nextSeq()
	b.full = append(b.full, q)
	if q.IsResolved() {
		b.resolved = append(b.resolved, q)
	} else {
		b.unresolved = append(b.unresolved, q)
	}

	return before, cloneQuestion(q), nil
}

func (b *Board) removeFromStatusList(q *models.Question) {
	b.unresolved = slices.DeleteFunc(slices.Clone(b.unresolved), func(x *models.Question) bool { return x == q })
	b.resolved = slices.DeleteFunc(slices.Clone(b.resolved), func(x *models.Question) bool { return x == q })
}

// DeleteQuestion drops every question with this text together with all answers
// and follow-ups filed under it. Deleting something absent is a no-op.
func (b *Board) DeleteQuestion(question string) Removal {
	var removal Removal

	matches := func(q *models.Question) bool { return q.Text == question }
	for _, q := range b.full {
		if matches(q) {
			removal.Questions = append(removal.Questions, cloneQuestion(q))
		}
	}
	b.full = slices.DeleteFunc(slices.Clone(b.full), matches)
	b.unresolved = slices.DeleteFunc(slices.Clone(b.unresolved), matches)
	b.resolved = slices.DeleteFunc(slices.Clone(b.resolved), matches)

	if answers := b.answersByQuestion[question]; len(answers) > 0 {
		dropped := make(map[*models.Answer]bool, len(answers))
		for _, a := range answers {
			dropped[a] = true
			removal.Answers = append(removal.Answers, *a)
			delete(b.answersByKey, a.Key())
		}
		b.answers = slices.DeleteFunc(slices.Clone(b.answers), func(a *models.Answer) bool { return dropped[a] })
		delete(b.answersByQuestion, question)
	}

	if followUps := b.followUpsByQuestion[question]; len(followUps) > 0 {
		dropped := make(map[*models.FollowUp]bool, len(followUps))
		for _, f := range followUps {
			dropped[f] = true
			removal.FollowUps = append(removal.FollowUps, *f)
		}
		b.followUps = slices.DeleteFunc(slices.Clone(b.followUps), func(f *models.FollowUp) bool { return dropped[f] })
		delete(b.followUpsByQuestion, question)
	}

	return removal
}

// SubmitFollowUp merges followUpText into the answer identified by its
// composite entry. The answer leaves the answer list and lives on only inside
// the merged follow-up entry.
func (b *Board) SubmitFollowUp(answerEntry, followUpText string) (models.FollowUp, error) {
	if isBlank(followUpText) {
		return models.FollowUp{}, &ValidationError{Op: "submit follow-up", Err: ErrEmptyText}
	}
	candidates := b.answersByKey[answerEntry]
	if len(candidates) == 0 {
		return models.FollowUp{}, &StateError{Op: "submit follow-up", Err: fmt.Errorf("%w: %q", ErrAnswerNotFound, answerEntry)}
	}

	a := candidates[0]
	b.removeAnswer(a)
	a.FollowedUp = true

	f := &models.FollowUp{
		ID:           b.nextFollowUpID,
		AnswerID:     a.ID,
		QuestionText: a.QuestionText,
		AnswerText:   a.Text,
		Text:         followUpText,
		CreatedAt:    b.now(),
	}
	b.nextFollowUpID++

	b.addFollowUp(f)
	return *f, nil
}

func (b *Board) addFollowUp(f *models.FollowUp) {
	b.followUps = append(b.followUps, f)
	b.followUpsByQuestion[f.QuestionText] = append(b.followUpsByQuestion[f.QuestionText], f)
}

func (b *Board) removeAnswer(a *models.Answer) {
	isTarget := func(x *models.Answer) bool { return x == a }
	b.answers = slices.DeleteFunc(slices.Clone(b.answers), isTarget)

	key := a.Key()
	if rest := slices.DeleteFunc(slices.Clone(b.answersByKey[key]), isTarget); len(rest) > 0 {
		b.answersByKey[key] = rest
	} else {
		delete(b.answersByKey, key)
	}

	if rest := slices.DeleteFunc(slices.Clone(b.answersByQuestion[a.QuestionText]), isTarget); len(rest) > 0 {
		b.answersByQuestion[a.QuestionText] = rest
	} else {
		delete(b.answersByQuestion, a.QuestionText)
	}
}

func indexOfQuestion(list []*models.Question, text string) int {
	return slices.IndexFunc(list, func(q *models.Question) bool { return q.Text == text })
}

func cloneQuestion(q *models.Question) models.Question {
	c := *q
	if q.ResolvedAt != nil {
		t := *q.ResolvedAt
		c.ResolvedAt = &t
	}
	return c
}
