package services

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ad/go-telegram-helpdesk/internal/board"
	"github.com/ad/go-telegram-helpdesk/internal/logger"
	"github.com/ad/go-telegram-helpdesk/internal/models"
)

type QuestionStore interface {
	Create(q models.Question) error
	Update(q models.Question) error
	DeleteByText(text string) error
	GetAll() ([]models.Question, error)
}

type AnswerStore interface {
	Create(a models.Answer) error
	GetAll() ([]models.Answer, error)
}

type FollowUpStore interface {
	Create(f models.FollowUp) error
	GetAll() ([]models.FollowUp, error)
}

// BoardService owns the single help desk board. Every operation runs under one
// lock and is written through to storage. When a write fails the board is
// reloaded from storage so memory never runs ahead of disk.
type BoardService struct {
	mu        sync.Mutex
	board     *board.Board
	questions QuestionStore
	answers   AnswerStore
	followUps FollowUpStore
	log       *logger.Logger
}

func NewBoardService(questions QuestionStore, answers AnswerStore, followUps FollowUpStore, log *logger.Logger) *BoardService {
	return &BoardService{
		board:     board.New(),
		questions: questions,
		answers:   answers,
		followUps: followUps,
		log:       log.With("component", "board_service"),
	}
}

// Load replaces the in-memory board with the stored records.
func (s *BoardService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *BoardService) reloadLocked() error {
	questions, err := s.questions.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}
	answers, err := s.answers.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}
	followUps, err := s.followUps.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load follow-ups: %w", err)
	}
	if err := s.board.Restore(questions, answers, followUps); err != nil {
		return fmt.Errorf("failed to restore board: %w", err)
	}
	s.log.Debug("board loaded", "questions", len(questions), "answers", len(answers), "follow_ups", len(followUps))
	return nil
}

// persistFailed rolls the board back to what storage holds and returns err
// wrapped with the failed operation.
func (s *BoardService) persistFailed(op string, err error) error {
	s.log.Error("failed to persist board change", "op", op, "error", err)
	if reloadErr := s.reloadLocked(); reloadErr != nil {
		s.log.Error("failed to reload board after persistence error", "op", op, "error", reloadErr)
	}
	return fmt.Errorf("failed to save %s: %w", op, err)
}

func (s *BoardService) SubmitQuestion(text string) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.board.SubmitQuestion(text)
	if err != nil {
		return models.Question{}, err
	}
	if err := s.questions.Create(q); err != nil {
		return models.Question{}, s.persistFailed("question", err)
	}
	s.log.Info("question submitted", "question_id", q.ID)
	return q, nil
}

func (s *BoardService) SubmitAnswer(questionID int64, text string) (models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.board.QuestionByID(questionID)
	if !ok {
		return models.Answer{}, &board.ValidationError{Op: "submit answer", Err: fmt.Errorf("%w: #%d", board.ErrQuestionNotFound, questionID)}
	}
	a, err := s.board.SubmitAnswer(q.Text, text)
	if err != nil {
		return models.Answer{}, err
	}
	if err := s.answers.Create(a); err != nil {
		return models.Answer{}, s.persistFailed("answer", err)
	}
	s.log.Info("answer submitted", "question_id", questionID, "answer_id", a.ID)
	return a, nil
}

func (s *BoardService) MarkResolved(questionID int64) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.board.QuestionByID(questionID)
	if !ok || q.IsResolved() {
		return models.Question{}, &board.StateError{Op: "mark resolved", Err: fmt.Errorf("%w: #%d", board.ErrNotUnresolved, questionID)}
	}
	resolved, err := s.board.MarkResolved(q.Text)
	if err != nil {
		return models.Question{}, err
	}
	if err := s.questions.Update(resolved); err != nil {
		return models.Question{}, s.persistFailed("resolution", err)
	}
	s.log.Info("question resolved", "question_id", resolved.ID)
	return resolved, nil
}

func (s *BoardService) EditQuestion(questionID int64, newText string) (before, after models.Question, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.board.QuestionByID(questionID)
	if !ok {
		return models.Question{}, models.Question{}, &board.ValidationError{Op: "edit question", Err: fmt.Errorf("%w: #%d", board.ErrQuestionNotFound, questionID)}
	}
	before, after, err = s.board.EditQuestion(q.Text, newText)
	if err != nil {
		return models.Question{}, models.Question{}, err
	}
	if err := s.questions.Update(after); err != nil {
		return models.Question{}, models.Question{}, s.persistFailed("edit", err)
	}
	s.log.Info("question edited", "question_id", after.ID)
	return before, after, nil
}

// DeleteQuestion removes every question sharing the wording of questionID,
// with their answers and follow-ups. Unknown ids remove nothing.
func (s *BoardService) DeleteQuestion(questionID int64) (board.Removal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.board.QuestionByID(questionID)
	if !ok {
		return board.Removal{}, nil
	}
	removal := s.board.DeleteQuestion(q.Text)
	if err := s.questions.DeleteByText(q.Text); err != nil {
		return board.Removal{}, s.persistFailed("deletion", err)
	}
	s.log.Info("question deleted", "question_id", questionID,
		"questions", len(removal.Questions), "answers", len(removal.Answers), "follow_ups", len(removal.FollowUps))
	return removal, nil
}

func (s *BoardService) SubmitFollowUp(answerID int64, text string) (models.FollowUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.board.AnswerByID(answerID)
	if !ok {
		if strings.TrimSpace(text) == "" {
			return models.FollowUp{}, &board.ValidationError{Op: "submit follow-up", Err: board.ErrEmptyText}
		}
		return models.FollowUp{}, &board.StateError{Op: "submit follow-up", Err: fmt.Errorf("%w: #%d", board.ErrAnswerNotFound, answerID)}
	}
	f, err := s.board.SubmitFollowUp(a.Key(), text)
	if err != nil {
		return models.FollowUp{}, err
	}
	if err := s.followUps.Create(f); err != nil {
		return models.FollowUp{}, s.persistFailed("follow-up", err)
	}
	s.log.Info("follow-up submitted", "answer_id", f.AnswerID, "follow_up_id", f.ID)
	return f, nil
}

// Search returns the matching blocks collected under the lock.
func (s *BoardService) Search(keyword string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(s.board.Search(keyword))
}

func (s *BoardService) Snapshot() board.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

func (s *BoardService) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Questions()
}

func (s *BoardService) UnresolvedQuestions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.UnresolvedQuestions()
}

func (s *BoardService) ResolvedQuestions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ResolvedQuestions()
}

func (s *BoardService) Answers() []models.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Answers()
}

func (s *BoardService) FollowUps() []models.FollowUp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.FollowUps()
}

func (s *BoardService) Question(id int64) (models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.QuestionByID(id)
}

func (s *BoardService) Answer(id int64) (models.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.AnswerByID(id)
}

// Thread returns the open answers and the follow-ups filed under questionText.
func (s *BoardService) Thread(questionText string) ([]models.Answer, []models.FollowUp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.AnswersFor(questionText), s.board.FollowUpsFor(questionText)
}
