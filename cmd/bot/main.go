package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/config"
	"github.com/ad/go-telegram-helpdesk/internal/db"
	"github.com/ad/go-telegram-helpdesk/internal/handlers"
	"github.com/ad/go-telegram-helpdesk/internal/logger"
	"github.com/ad/go-telegram-helpdesk/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	sqlDB, err := openDB(cfg.DBPath)
	if err != nil {
		appLog.Fatal("failed to open database", "path", cfg.DBPath, "error", err)
	}
	defer sqlDB.Close()

	dbQueue := db.NewDBQueue(sqlDB, appLog)
	defer dbQueue.Close()

	questionRepo := db.NewQuestionRepository(dbQueue)
	answerRepo := db.NewAnswerRepository(dbQueue)
	followUpRepo := db.NewFollowUpRepository(dbQueue)
	invitationRepo := db.NewInvitationRepository(dbQueue)

	boardService := services.NewBoardService(questionRepo, answerRepo, followUpRepo, appLog)
	if err := boardService.Load(); err != nil {
		appLog.Fatal("failed to load board", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(15*time.Second, httpClient))
	if err != nil {
		appLog.Fatal("failed to create bot", "error", err)
	}

	botInfo, err := connect(b, appLog)
	if err != nil {
		appLog.Fatal("failed to get bot info after 3 attempts", "error", err)
	}

	pending := services.NewPendingInputStore(cfg.PendingInputTTL)
	pending.Start()
	defer pending.Stop()

	errorManager := services.NewErrorManager(b, cfg.AdminID)
	msgManager := services.NewMessageManager(b, errorManager, appLog)
	invitationService := services.NewInvitationService(invitationRepo, appLog)

	handler := handlers.NewBotHandler(
		cfg.AdminID,
		boardService,
		invitationService,
		services.NewStatisticsService(boardService),
		pending,
		msgManager,
		errorManager,
		appLog,
	)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, logMiddleware(appLog.With("component", "updates"), cfg.AdminID))

	snap := boardService.Snapshot()
	appLog.Info("bot started",
		"bot", botInfo.Username,
		"admin_id", cfg.AdminID,
		"db", cfg.DBPath,
		"questions", len(snap.FullQuestions),
		"answers", len(snap.Answers),
		"follow_ups", len(snap.FollowUps))

	b.Start(ctx)
}

func openDB(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// connect retries getMe with a short timeout so a slow start does not hang.
func connect(b *bot.Bot, appLog *logger.Logger) (*tgmodels.User, error) {
	var botInfo *tgmodels.User
	var err error
	for i := 0; i < 3; i++ {
		appLog.Info("connecting to Telegram API", "attempt", i+1)
		getMeCtx, getMeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		botInfo, err = b.GetMe(getMeCtx)
		getMeCancel()
		if err == nil {
			return botInfo, nil
		}
		appLog.Warn("failed to get bot info", "attempt", i+1, "error", err)
		if i < 2 {
			time.Sleep(2 * time.Second)
		}
	}
	return nil, err
}

func logMiddleware(updateLog *logger.Logger, adminID int64) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
			if update.Message != nil && update.Message.From != nil {
				member := services.MemberFromUser(*update.Message.From, adminID)
				updateLog.Debug("message", "from", member.DisplayName(), "text", update.Message.Text)
			}
			if update.CallbackQuery != nil {
				member := services.MemberFromUser(update.CallbackQuery.From, adminID)
				updateLog.Debug("callback", "from", member.DisplayName(), "data", update.CallbackQuery.Data)
			}
			next(ctx, b, update)
		}
	}
}
