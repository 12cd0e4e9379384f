package services

import (
	"database/sql"

	"github.com/ad/go-telegram-helpdesk/internal/db"
	"github.com/ad/go-telegram-helpdesk/internal/logger"
	_ "modernc.org/sqlite"
)

type testStores struct {
	questions   *db.QuestionRepository
	answers     *db.AnswerRepository
	followUps   *db.FollowUpRepository
	invitations *db.InvitationRepository
}

// fataler is satisfied by both *testing.T and *rapid.T.
type fataler interface {
	Fatal(args ...any)
}

func setupTestStores(t fataler) (testStores, func()) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.InitSchema(sqlDB); err != nil {
		t.Fatal(err)
	}
	queue := db.NewDBQueueForTest(sqlDB)
	stores := testStores{
		questions:   db.NewQuestionRepository(queue),
		answers:     db.NewAnswerRepository(queue),
		followUps:   db.NewFollowUpRepository(queue),
		invitations: db.NewInvitationRepository(queue),
	}
	return stores, func() {
		queue.Close()
		sqlDB.Close()
	}
}

func newTestBoardService(stores testStores) *BoardService {
	return NewBoardService(stores.questions, stores.answers, stores.followUps, logger.NewNop())
}
