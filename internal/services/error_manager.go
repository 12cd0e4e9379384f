package services

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/ad/go-telegram-helpdesk/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// ErrorManager reports handler panics and undeliverable messages to the admin chat.
type ErrorManager struct {
	sender  Sender
	adminID int64
}

func NewErrorManager(sender Sender, adminID int64) *ErrorManager {
	return &ErrorManager{
		sender:  sender,
		adminID: adminID,
	}
}

// MemberFromUser maps a Telegram user onto a help desk member.
func MemberFromUser(u tgmodels.User, adminID int64) models.Member {
	role := models.RoleStudent
	if u.ID == adminID {
		role = models.RoleInstructor
	}
	return models.Member{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Role:      role,
	}
}

func (e *ErrorManager) NotifyAdmin(ctx context.Context, panicValue interface{}, update *tgmodels.Update) {
	userInfo := "unknown"
	input := "unknown"

	if update != nil {
		if update.Message != nil && update.Message.From != nil {
			member := MemberFromUser(*update.Message.From, e.adminID)
			userInfo = member.DisplayName()
			input = update.Message.Text
		} else if update.CallbackQuery != nil && update.CallbackQuery.From.ID != 0 {
			member := MemberFromUser(update.CallbackQuery.From, e.adminID)
			userInfo = member.DisplayName()
			input = "callback " + update.CallbackQuery.Data
		}
	}

	msg := fmt.Sprintf("🚨 Panic in handler\nUser: %s\nInput: %s\nError: %v\n\nStack trace:\n%s",
		userInfo, input, panicValue, string(debug.Stack()))

	_, _ = e.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.adminID,
		Text:   TruncateMessage(msg),
	})
}

func (e *ErrorManager) NotifyAdminWithCurl(ctx context.Context, chatID int64, request interface{}, err error) {
	curl := e.buildCurlCommand(request)

	msg := fmt.Sprintf("❌ Failed to send message\nUser: [%d]\nError: %v\n\nCurl:\n%s",
		chatID, err, curl)

	_, _ = e.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.adminID,
		Text:   TruncateMessage(msg),
	})
}

func (e *ErrorManager) buildCurlCommand(request interface{}) string {
	jsonData, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Sprintf("# Failed to serialize request: %v", err)
	}

	return fmt.Sprintf("curl -X POST 'https://api.telegram.org/bot[BOT_TOKEN]/sendMessage' \\\n  -H 'Content-Type: application/json' \\\n  -d '%s'",
		string(jsonData))
}
