package services

import (
	"context"

	"github.com/ad/go-telegram-helpdesk/internal/logger"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// MessageManager sends HTML replies, retrying once and reporting
// undeliverable messages to the admin.
type MessageManager struct {
	sender   Sender
	errMgr   *ErrorManager
	log      *logger.Logger
	maxRetry int
}

func NewMessageManager(sender Sender, errMgr *ErrorManager, log *logger.Logger) *MessageManager {
	return &MessageManager{
		sender:   sender,
		errMgr:   errMgr,
		log:      log.With("component", "message_manager"),
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.sender.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	chatID, _ := params.ChatID.(int64)
	m.log.Warn("failed to send message", "chat_id", chatID, "error", lastErr)
	m.errMgr.NotifyAdminWithCurl(ctx, chatID, params, lastErr)
	return nil, lastErr
}

// Send delivers an HTML formatted text with an optional inline keyboard.
func (m *MessageManager) Send(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := m.SendWithRetry(ctx, params)
	return err
}

// AnswerCallback acknowledges a button press so the client stops spinning.
func (m *MessageManager) AnswerCallback(ctx context.Context, callbackID, text string) {
	if _, err := m.sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	}); err != nil {
		m.log.Warn("failed to answer callback", "error", err)
	}
}
