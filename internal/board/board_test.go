package board

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard() *Board {
	b := New()
	base := time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)
	tick := 0
	b.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return b
}

func TestSubmitQuestion(t *testing.T) {
	b := newTestBoard()

	q, err := b.SubmitQuestion("Q1: What is Java?")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnresolved, q.Status)

	snap := b.Snapshot()
	assert.Equal(t, []string{"Q1: What is Java?"}, snap.FullQuestions)
	assert.Equal(t, []string{"Q1: What is Java?"}, snap.UnresolvedQuestions)
	assert.Empty(t, snap.ResolvedQuestions)
}

func TestSubmitQuestionRejectsBlankText(t *testing.T) {
	b := newTestBoard()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := b.SubmitQuestion(text)
		require.Error(t, err)
		assert.True(t, IsValidation(err), "blank question %q must be a validation error", text)
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Empty(t, b.Snapshot().FullQuestions)
}

func TestSubmitQuestionAllowsDuplicates(t *testing.T) {
	b := newTestBoard()

	_, err := b.SubmitQuestion("Q: same")
	require.NoError(t, err)
	_, err = b.SubmitQuestion("Q: same")
	require.NoError(t, err)

	assert.Equal(t, []string{"Q: same", "Q: same"}, b.Snapshot().FullQuestions)
}

func TestSubmitAnswerToMissingQuestion(t *testing.T) {
	b := newTestBoard()

	_, err := b.SubmitAnswer("Q2: What is CRUD?", "Create, Read, Update, Delete")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "submit answer", verr.Op)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.Empty(t, b.Snapshot().Answers)
}

func TestSubmitAnswer(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q2: What is CRUD?")
	require.NoError(t, err)

	a, err := b.SubmitAnswer("Q2: What is CRUD?", "Create, Read, Update, Delete")
	require.NoError(t, err)
	assert.Equal(t, "Q2: What is CRUD? | Answer: Create, Read, Update, Delete", a.Key())

	_, err = b.SubmitAnswer("Q2: What is CRUD?", "Four basic operations")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Q2: What is CRUD? | Answer: Create, Read, Update, Delete",
		"Q2: What is CRUD? | Answer: Four basic operations",
	}, b.Snapshot().Answers)

	_, err = b.SubmitAnswer("Q2: What is CRUD?", " ")
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestMarkResolved(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q4: When is CSE360 Midterm?")
	require.NoError(t, err)

	q, err := b.MarkResolved("Q4: When is CSE360 Midterm?")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, q.Status)
	require.NotNil(t, q.ResolvedAt)

	snap := b.Snapshot()
	assert.Empty(t, snap.UnresolvedQuestions)
	assert.Equal(t, []string{"Q4: When is CSE360 Midterm?"}, snap.ResolvedQuestions)
	assert.Equal(t, []string{"Q4: When is CSE360 Midterm?"}, snap.FullQuestions)
}

func TestMarkResolvedTwiceIsRejected(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q4")
	require.NoError(t, err)
	_, err = b.MarkResolved("Q4")
	require.NoError(t, err)

	_, err = b.MarkResolved("Q4")
	require.Error(t, err)
	assert.True(t, IsState(err))
	assert.ErrorIs(t, err, ErrNotUnresolved)
	assert.Equal(t, []string{"Q4"}, b.Snapshot().ResolvedQuestions)
}

func TestMarkResolvedUnknownQuestion(t *testing.T) {
	b := newTestBoard()

	_, err := b.MarkResolved("nope")
	assert.True(t, IsState(err))
	assert.False(t, IsValidation(err))
}

func TestResolvedOrderFollowsResolution(t *testing.T) {
	b := newTestBoard()
	for _, text := range []string{"A", "B", "C"} {
		_, err := b.SubmitQuestion(text)
		require.NoError(t, err)
	}
	_, err := b.MarkResolved("C")
	require.NoError(t, err)
	_, err = b.MarkResolved("A")
	require.NoError(t, err)

	snap := b.Snapshot()
	assert.Equal(t, []string{"C", "A"}, snap.ResolvedQuestions)
	assert.Equal(t, []string{"B"}, snap.UnresolvedQuestions)
	assert.Equal(t, []string{"A", "B", "C"}, snap.FullQuestions)
}

func TestEditQuestion(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q5: What is testing?")
	require.NoError(t, err)
	_, err = b.SubmitQuestion("Q0: Other")
	require.NoError(t, err)

	before, after, err := b.EditQuestion("Q5: What is testing?", "Q5: What is software testing exactly?")
	require.NoError(t, err)
	assert.Equal(t, "Q5: What is testing?", before.Text)
	assert.Equal(t, "Q5: What is software testing exactly?", after.Text)
	assert.Equal(t, before.ID, after.ID)

	snap := b.Snapshot()
	assert.Equal(t, []string{"Q0: Other", "Q5: What is software testing exactly?"}, snap.FullQuestions)
	assert.Equal(t, []string{"Q0: Other", "Q5: What is software testing exactly?"}, snap.UnresolvedQuestions)
}

func TestEditQuestionKeepsResolution(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("old")
	require.NoError(t, err)
	_, err = b.MarkResolved("old")
	require.NoError(t, err)

	_, after, err := b.EditQuestion("old", "new")
	require.NoError(t, err)
	assert.True(t, after.IsResolved())

	snap := b.Snapshot()
	assert.Equal(t, []string{"new"}, snap.ResolvedQuestions)
	assert.Empty(t, snap.UnresolvedQuestions)
}

func TestEditQuestionLeavesAnswersUnderOldText(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("old")
	require.NoError(t, err)
	_, err = b.SubmitAnswer("old", "an answer")
	require.NoError(t, err)

	_, _, err = b.EditQuestion("old", "new")
	require.NoError(t, err)

	assert.Equal(t, []string{"old | Answer: an answer"}, b.Snapshot().Answers)
	assert.Empty(t, b.AnswersFor("new"))

	removal := b.DeleteQuestion("old")
	assert.Empty(t, removal.Questions)
	assert.Len(t, removal.Answers, 1)
	assert.Empty(t, b.Snapshot().Answers)
	assert.Equal(t, []string{"new"}, b.Snapshot().FullQuestions)
}

func TestEditQuestionValidation(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("present")
	require.NoError(t, err)

	_, _, err = b.EditQuestion("absent", "new")
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, _, err = b.EditQuestion("present", "  ")
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, ErrEmptyText)

	assert.Equal(t, []string{"present"}, b.Snapshot().FullQuestions)
}

func TestDeleteQuestionCascades(t *testing.T) {
	b := newTestBoard()
	question := "Q3: What is JUnit?"
	_, err := b.SubmitQuestion(question)
	require.NoError(t, err)
	_, err = b.SubmitQuestion("Q9: Keep me")
	require.NoError(t, err)
	a, err := b.SubmitAnswer(question, "JUnit is a testing framework")
	require.NoError(t, err)
	_, err = b.SubmitAnswer(question, "A Java library")
	require.NoError(t, err)
	_, err = b.SubmitAnswer("Q9: Keep me", "kept")
	require.NoError(t, err)
	_, err = b.SubmitFollowUp(a.Key(), "Which version?")
	require.NoError(t, err)

	removal := b.DeleteQuestion(question)
	assert.Len(t, removal.Questions, 1)
	assert.Len(t, removal.Answers, 1)
	assert.Len(t, removal.FollowUps, 1)

	snap := b.Snapshot()
	assert.Equal(t, []string{"Q9: Keep me"}, snap.FullQuestions)
	assert.Equal(t, []string{"Q9: Keep me"}, snap.UnresolvedQuestions)
	assert.Empty(t, snap.ResolvedQuestions)
	assert.Equal(t, []string{"Q9: Keep me | Answer: kept"}, snap.Answers)
	assert.Empty(t, snap.FollowUps)
}

func TestDeleteQuestionIsIdempotent(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q")
	require.NoError(t, err)
	_, err = b.SubmitAnswer("Q", "A")
	require.NoError(t, err)

	b.DeleteQuestion("Q")
	once := b.Snapshot()
	removal := b.DeleteQuestion("Q")

	assert.True(t, removal.Empty())
	assert.Equal(t, once, b.Snapshot())
	assert.True(t, b.DeleteQuestion("never existed").Empty())
}

func TestDeleteResolvedQuestion(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q")
	require.NoError(t, err)
	_, err = b.MarkResolved("Q")
	require.NoError(t, err)

	b.DeleteQuestion("Q")
	assert.Empty(t, b.Snapshot().ResolvedQuestions)
}

func TestSubmitFollowUp(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q6: What is JavaFX?")
	require.NoError(t, err)
	a, err := b.SubmitAnswer("Q6: What is JavaFX?", "JavaFX is a GUI toolkit")
	require.NoError(t, err)

	f, err := b.SubmitFollowUp(a.Key(), "How do I install it?")
	require.NoError(t, err)
	assert.Equal(t, a.ID, f.AnswerID)

	snap := b.Snapshot()
	assert.NotContains(t, snap.Answers, a.Key())
	assert.Equal(t, []string{"Q6: What is JavaFX? | Answer: JavaFX is a GUI toolkit | Follow-Up: How do I install it?"}, snap.FollowUps)

	_, ok := b.AnswerByID(a.ID)
	assert.False(t, ok, "merged answer must not be open for follow-ups")
}

func TestSubmitFollowUpErrors(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q1")
	require.NoError(t, err)
	a, err := b.SubmitAnswer("Q1", "This is an answer")
	require.NoError(t, err)

	_, err = b.SubmitFollowUp(a.Key(), "")
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = b.SubmitFollowUp("Q1 | Answer: not there", "Can you explain further?")
	assert.True(t, IsState(err))
	assert.ErrorIs(t, err, ErrAnswerNotFound)

	_, err = b.SubmitFollowUp(a.Key(), "First follow-up")
	require.NoError(t, err)
	_, err = b.SubmitFollowUp(a.Key(), "Second follow-up")
	assert.True(t, IsState(err), "an answer can only be merged once")

	assert.Len(t, b.Snapshot().FollowUps, 1)
}

func TestSubmitFollowUpWithDuplicateAnswers(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q")
	require.NoError(t, err)
	first, err := b.SubmitAnswer("Q", "same")
	require.NoError(t, err)
	second, err := b.SubmitAnswer("Q", "same")
	require.NoError(t, err)

	f, err := b.SubmitFollowUp(first.Key(), "why?")
	require.NoError(t, err)
	assert.Equal(t, first.ID, f.AnswerID)

	assert.Equal(t, []string{"Q | Answer: same"}, b.Snapshot().Answers)
	_, ok := b.AnswerByID(second.ID)
	assert.True(t, ok)
}

func TestSearch(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q7: Define CRUD?")
	require.NoError(t, err)
	_, err = b.SubmitAnswer("Q7: Define CRUD?", "Create, Read, Update, Delete")
	require.NoError(t, err)
	_, err = b.SubmitQuestion("Q8: Unrelated")
	require.NoError(t, err)

	results := slices.Collect(b.Search("update"))
	require.Len(t, results, 1)
	assert.Equal(t, "Q7: Define CRUD?\n- Create, Read, Update, Delete", results[0])

	assert.Len(t, slices.Collect(b.Search("")), 2)
	assert.Len(t, slices.Collect(b.Search("UNRELATED")), 1)
	assert.Empty(t, slices.Collect(b.Search("javafx")))
}

func TestSearchIncludesFollowUps(t *testing.T) {
	b := newTestBoard()
	_, err := b.SubmitQuestion("Q6: What is JavaFX?")
	require.NoError(t, err)
	a, err := b.SubmitAnswer("Q6: What is JavaFX?", "JavaFX is a GUI toolkit")
	require.NoError(t, err)
	_, err = b.SubmitAnswer("Q6: What is JavaFX?", "Part of OpenJFX")
	require.NoError(t, err)
	_, err = b.SubmitFollowUp(a.Key(), "How do I install it?")
	require.NoError(t, err)

	results := slices.Collect(b.Search("install"))
	require.Len(t, results, 1)
	assert.Equal(t, "Q6: What is JavaFX?\n- Part of OpenJFX\n- JavaFX is a GUI toolkit | Follow-Up: How do I install it?", results[0])
}

func TestSearchIsRestartableAndStopsEarly(t *testing.T) {
	b := newTestBoard()
	for _, text := range []string{"one", "two", "three"} {
		_, err := b.SubmitQuestion(text)
		require.NoError(t, err)
	}

	seq := b.Search("")
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))

	var seen []string
	for block := range seq {
		seen = append(seen, block)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestQuestionByID(t *testing.T) {
	b := newTestBoard()
	q, err := b.SubmitQuestion("Q")
	require.NoError(t, err)

	got, ok := b.QuestionByID(q.ID)
	require.True(t, ok)
	assert.Equal(t, "Q", got.Text)

	_, ok = b.QuestionByID(q.ID + 100)
	assert.False(t, ok)
}

func TestRestoreReproducesSnapshot(t *testing.T) {
	live := newTestBoard()
	_, err := live.SubmitQuestion("A")
	require.NoError(t, err)
	_, err = live.SubmitQuestion("B")
	require.NoError(t, err)
	_, err = live.SubmitQuestion("C")
	require.NoError(t, err)
	_, err = live.MarkResolved("C")
	require.NoError(t, err)
	_, err = live.MarkResolved("A")
	require.NoError(t, err)
	_, _, err = live.EditQuestion("B", "B2")
	require.NoError(t, err)
	a, err := live.SubmitAnswer("A", "first")
	require.NoError(t, err)
	_, err = live.SubmitAnswer("C", "second")
	require.NoError(t, err)
	_, err = live.SubmitFollowUp(a.Key(), "more?")
	require.NoError(t, err)

	answers := live.Answers()
	for _, f := range live.FollowUps() {
		answers = append(answers, models.Answer{ID: f.AnswerID, QuestionText: f.QuestionText, Text: f.AnswerText, FollowedUp: true})
	}

	restored := New()
	require.NoError(t, restored.Restore(live.Questions(), answers, live.FollowUps()))
	assert.Equal(t, live.Snapshot(), restored.Snapshot())

	q, err := restored.SubmitQuestion("D")
	require.NoError(t, err)
	for _, existing := range live.Questions() {
		assert.NotEqual(t, existing.ID, q.ID)
	}
}

func TestRestoreRejectsUnknownStatus(t *testing.T) {
	b := New()
	err := b.Restore([]models.Question{{ID: 1, Text: "Q", Status: "pending"}}, nil, nil)
	assert.Error(t, err)
}
