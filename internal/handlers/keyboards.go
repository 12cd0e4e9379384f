package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-helpdesk/internal/models"
	tgmodels "github.com/go-telegram/bot/models"
)

const (
	callbackAnswer   = "q:answer"
	callbackResolve  = "q:resolve"
	callbackEdit     = "q:edit"
	callbackDelete   = "q:delete"
	callbackShow     = "q:show"
	callbackFollowUp = "a:followup"
)

// maxKeyboardRows caps listings so the keyboard stays usable; the most
// recent records win.
const maxKeyboardRows = 20

func callbackData(action string, id int64) string {
	return fmt.Sprintf("%s:%d", action, id)
}

// parseCallbackData splits "q:answer:12" into its action and id.
func parseCallbackData(data string) (action string, id int64, ok bool) {
	i := strings.LastIndex(data, ":")
	if i < 0 {
		return "", 0, false
	}
	action = data[:i]
	id, err := strconv.ParseInt(data[i+1:], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	switch action {
	case callbackAnswer, callbackResolve, callbackEdit, callbackDelete, callbackShow, callbackFollowUp:
		return action, id, true
	default:
		return "", 0, false
	}
}

func questionButtons(q models.Question) []tgmodels.InlineKeyboardButton {
	row := []tgmodels.InlineKeyboardButton{
		{Text: fmt.Sprintf("💬 #%d", q.ID), CallbackData: callbackData(callbackAnswer, q.ID)},
	}
	if !q.IsResolved() {
		row = append(row, tgmodels.InlineKeyboardButton{Text: "✅", CallbackData: callbackData(callbackResolve, q.ID)})
	}
	row = append(row,
		tgmodels.InlineKeyboardButton{Text: "✏️", CallbackData: callbackData(callbackEdit, q.ID)},
		tgmodels.InlineKeyboardButton{Text: "🗑", CallbackData: callbackData(callbackDelete, q.ID)},
	)
	return row
}

func questionKeyboard(q models.Question) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{questionButtons(q)},
	}
}

func listKeyboard(questions []models.Question) *tgmodels.InlineKeyboardMarkup {
	if len(questions) == 0 {
		return nil
	}
	if len(questions) > maxKeyboardRows {
		questions = questions[len(questions)-maxKeyboardRows:]
	}
	rows := make([][]tgmodels.InlineKeyboardButton, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, append([]tgmodels.InlineKeyboardButton{
			{Text: fmt.Sprintf("🔍 #%d", q.ID), CallbackData: callbackData(callbackShow, q.ID)},
		}, questionButtons(q)...))
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func answerKeyboard(answers []models.Answer) *tgmodels.InlineKeyboardMarkup {
	if len(answers) == 0 {
		return nil
	}
	if len(answers) > maxKeyboardRows {
		answers = answers[len(answers)-maxKeyboardRows:]
	}
	rows := make([][]tgmodels.InlineKeyboardButton, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, []tgmodels.InlineKeyboardButton{
			{Text: fmt.Sprintf("🔁 Follow up on #%d", a.ID), CallbackData: callbackData(callbackFollowUp, a.ID)},
		})
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func threadKeyboard(q models.Question, answers []models.Answer) *tgmodels.InlineKeyboardMarkup {
	kb := questionKeyboard(q)
	if more := answerKeyboard(answers); more != nil {
		kb.InlineKeyboard = append(kb.InlineKeyboard, more.InlineKeyboard...)
	}
	return kb
}
