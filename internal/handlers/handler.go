package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/board"
	"github.com/ad/go-telegram-helpdesk/internal/fsm"
	"github.com/ad/go-telegram-helpdesk/internal/logger"
	"github.com/ad/go-telegram-helpdesk/internal/models"
	"github.com/ad/go-telegram-helpdesk/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const helpText = `<b>Help desk</b>

/ask &lt;text&gt; - ask a question
/list - all questions
/unresolved - open questions
/resolved - resolved questions
/show &lt;id&gt; - a question with its answers
/answers - answers open for a follow-up
/followups - answers with follow-ups
/search &lt;keyword&gt; - search questions, answers and follow-ups
/answer &lt;id&gt; &lt;text&gt; - answer a question
/resolve &lt;id&gt; - mark a question as resolved
/edit &lt;id&gt; &lt;text&gt; - reword a question
/delete &lt;id&gt; - delete a question with its answers
/followup &lt;answer id&gt; &lt;text&gt; - follow up on an answer
/cancel - drop the pending action
/invite - create an invitation code (instructor)
/stats - help desk statistics (instructor)`

const statsTopQuestions = 5

type BotHandler struct {
	adminID      int64
	board        *services.BoardService
	invitations  *services.InvitationService
	stats        *services.StatisticsService
	pending      *services.PendingInputStore
	msgManager   *services.MessageManager
	errorManager *services.ErrorManager
	log          *logger.Logger
	now          func() time.Time
}

func NewBotHandler(
	adminID int64,
	boardService *services.BoardService,
	invitations *services.InvitationService,
	stats *services.StatisticsService,
	pending *services.PendingInputStore,
	msgManager *services.MessageManager,
	errorManager *services.ErrorManager,
	log *logger.Logger,
) *BotHandler {
	return &BotHandler{
		adminID:      adminID,
		board:        boardService,
		invitations:  invitations,
		stats:        stats,
		pending:      pending,
		msgManager:   msgManager,
		errorManager: errorManager,
		log:          log.With("component", "handler"),
		now:          time.Now,
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.log.Error("panic in handler", "panic", r)
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	command, args := splitCommand(msg.Text)
	if command == "/start" {
		h.handleStart(ctx, chatID, userID, args)
		return
	}

	if !h.isMember(userID) {
		h.send(ctx, chatID, "🔒 Ask your instructor for an invitation code and send /start &lt;code&gt;.")
		return
	}

	if command == "" {
		h.handlePendingInput(ctx, chatID, userID, msg.Text)
		return
	}

	switch command {
	case "/help":
		h.send(ctx, chatID, helpText)
	case "/cancel":
		h.handleCancel(ctx, chatID, userID)
	case "/ask":
		h.handleAsk(ctx, chatID, userID, args)
	case "/list":
		h.sendQuestionList(ctx, chatID, "Questions", h.board.Questions())
	case "/unresolved":
		h.sendQuestionList(ctx, chatID, "Unresolved questions", h.board.UnresolvedQuestions())
	case "/resolved":
		h.sendQuestionList(ctx, chatID, "Resolved questions", h.board.ResolvedQuestions())
	case "/show":
		h.handleShow(ctx, chatID, args)
	case "/answers":
		answers := h.board.Answers()
		h.sendWithKeyboard(ctx, chatID, services.FormatAnswerList(answers), answerKeyboard(answers))
	case "/followups":
		h.send(ctx, chatID, services.FormatFollowUpList(h.board.FollowUps()))
	case "/search":
		h.handleSearch(ctx, chatID, userID, args)
	case "/answer":
		h.handleAnswer(ctx, chatID, userID, args)
	case "/resolve":
		h.handleResolve(ctx, chatID, args)
	case "/edit":
		h.handleEdit(ctx, chatID, userID, args)
	case "/delete":
		h.handleDelete(ctx, chatID, args)
	case "/followup":
		h.handleFollowUp(ctx, chatID, userID, args)
	case "/invite":
		h.handleInvite(ctx, chatID, userID)
	case "/stats":
		h.handleStats(ctx, chatID, userID)
	default:
		h.send(ctx, chatID, "Unknown command. Send /help for the list.")
	}
}

func (h *BotHandler) isMember(userID int64) bool {
	if userID == h.adminID {
		return true
	}
	ok, err := h.invitations.IsMember(userID)
	if err != nil {
		h.log.Error("membership check failed", "user_id", userID, "error", err)
		return false
	}
	return ok
}

func (h *BotHandler) handleStart(ctx context.Context, chatID, userID int64, code string) {
	if code != "" && userID != h.adminID {
		err := h.invitations.Redeem(code, userID)
		switch {
		case errors.Is(err, services.ErrInvitationUnknown):
			h.send(ctx, chatID, "❌ This invitation code is not valid.")
			return
		case errors.Is(err, services.ErrInvitationUsed):
			h.send(ctx, chatID, "❌ This invitation code has already been used.")
			return
		case err != nil:
			h.log.Error("invitation redeem failed", "user_id", userID, "error", err)
			h.send(ctx, chatID, "❌ Something went wrong, please try again.")
			return
		}
		h.send(ctx, chatID, "👋 Welcome to the help desk!\n\n"+helpText)
		return
	}

	if !h.isMember(userID) {
		h.send(ctx, chatID, "🔒 Ask your instructor for an invitation code and send /start &lt;code&gt;.")
		return
	}
	h.send(ctx, chatID, "👋 Welcome back!\n\n"+helpText)
}

func (h *BotHandler) handleCancel(ctx context.Context, chatID, userID int64) {
	if h.pending.Clear(userID) {
		h.send(ctx, chatID, "Cancelled.")
		return
	}
	h.send(ctx, chatID, "Nothing to cancel.")
}

func (h *BotHandler) handleAsk(ctx context.Context, chatID, userID int64, text string) {
	if text == "" {
		h.startPending(ctx, chatID, userID, fsm.StateAwaitingQuestion, 0)
		return
	}
	h.submitQuestion(ctx, chatID, text)
}

func (h *BotHandler) submitQuestion(ctx context.Context, chatID int64, text string) {
	q, err := h.board.SubmitQuestion(text)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendWithKeyboard(ctx, chatID,
		fmt.Sprintf("✅ Question #%d added:\n%s", q.ID, services.FormatBold(q.Text)),
		questionKeyboard(q))
}

func (h *BotHandler) handleShow(ctx context.Context, chatID int64, args string) {
	id, _, ok := parseID(args)
	if !ok {
		h.send(ctx, chatID, "Usage: /show &lt;id&gt;")
		return
	}
	h.sendQuestionCard(ctx, chatID, id)
}

func (h *BotHandler) sendQuestionCard(ctx context.Context, chatID, questionID int64) {
	q, ok := h.board.Question(questionID)
	if !ok {
		h.send(ctx, chatID, "⚠️ No such question.")
		return
	}
	answers, followUps := h.board.Thread(q.Text)
	h.sendWithKeyboard(ctx, chatID,
		services.FormatQuestionCard(q, answers, followUps, h.now()),
		threadKeyboard(q, answers))
}

func (h *BotHandler) handleSearch(ctx context.Context, chatID, userID int64, keyword string) {
	if keyword == "" {
		h.startPending(ctx, chatID, userID, fsm.StateAwaitingSearch, 0)
		return
	}
	h.search(ctx, chatID, keyword)
}

func (h *BotHandler) search(ctx context.Context, chatID int64, keyword string) {
	blocks := h.board.Search(keyword)
	h.send(ctx, chatID, services.FormatSearchResults(keyword, blocks))
}

func (h *BotHandler) handleAnswer(ctx context.Context, chatID, userID int64, args string) {
	id, text, ok := parseID(args)
	if !ok {
		h.send(ctx, chatID, "Usage: /answer &lt;question id&gt; &lt;text&gt;")
		return
	}
	if text == "" {
		h.startPendingFor(ctx, chatID, userID, fsm.StateAwaitingAnswer, id)
		return
	}
	h.submitAnswer(ctx, chatID, id, text)
}

func (h *BotHandler) submitAnswer(ctx context.Context, chatID, questionID int64, text string) {
	a, err := h.board.SubmitAnswer(questionID, text)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendWithKeyboard(ctx, chatID,
		fmt.Sprintf("💬 Answer #%d added to question #%d.", a.ID, questionID),
		answerKeyboard([]models.Answer{a}))
}

func (h *BotHandler) handleResolve(ctx context.Context, chatID int64, args string) {
	id, _, ok := parseID(args)
	if !ok {
		h.send(ctx, chatID, "Usage: /resolve &lt;question id&gt;")
		return
	}
	h.resolve(ctx, chatID, id)
}

func (h *BotHandler) resolve(ctx context.Context, chatID, questionID int64) {
	q, err := h.board.MarkResolved(questionID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.send(ctx, chatID, fmt.Sprintf("✅ Question #%d resolved:\n%s", q.ID, services.FormatBold(q.Text)))
}

func (h *BotHandler) handleEdit(ctx context.Context, chatID, userID int64, args string) {
	id, text, ok := parseID(args)
	if !ok {
		h.send(ctx, chatID, "Usage: /edit &lt;question id&gt; &lt;new text&gt;")
		return
	}
	if text == "" {
		h.startPendingFor(ctx, chatID, userID, fsm.StateAwaitingEdit, id)
		return
	}
	h.edit(ctx, chatID, id, text)
}

func (h *BotHandler) edit(ctx context.Context, chatID, questionID int64, text string) {
	before, after, err := h.board.EditQuestion(questionID, text)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	reply := fmt.Sprintf("✏️ Question #%d now reads:\n%s", after.ID, services.FormatBold(after.Text))
	if answers, followUps := h.board.Thread(before.Text); len(answers) > 0 || len(followUps) > 0 {
		reply += "\n\n" + services.FormatItalic("Existing answers stay filed under the old wording.")
	}
	h.send(ctx, chatID, reply)
}

func (h *BotHandler) handleDelete(ctx context.Context, chatID int64, args string) {
	id, _, ok := parseID(args)
	if !ok {
		h.send(ctx, chatID, "Usage: /delete &lt;question id&gt;")
		return
	}
	h.delete(ctx, chatID, id)
}

func (h *BotHandler) delete(ctx context.Context, chatID, questionID int64) {
	removal, err := h.board.DeleteQuestion(questionID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.send(ctx, chatID, services.FormatRemoval(removal))
}

func (h *BotHandler) handleFollowUp(ctx context.Context, chatID, userID int64, args string) {
	id, text, ok := parseID(args)
	if !ok {
		h.send(ctx, chatID, "Usage: /followup &lt;answer id&gt; &lt;text&gt;")
		return
	}
	if text == "" {
		h.startPendingFor(ctx, chatID, userID, fsm.StateAwaitingFollow, id)
		return
	}
	h.submitFollowUp(ctx, chatID, id, text)
}

func (h *BotHandler) submitFollowUp(ctx context.Context, chatID, answerID int64, text string) {
	f, err := h.board.SubmitFollowUp(answerID, text)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.send(ctx, chatID, fmt.Sprintf("🔁 Follow-up added to answer #%d:\n%s", f.AnswerID, services.FormatQuote(f.Text)))
}

func (h *BotHandler) handleInvite(ctx context.Context, chatID, userID int64) {
	if userID != h.adminID {
		h.send(ctx, chatID, "⛔ Only the instructor can create invitations.")
		return
	}
	inv, err := h.invitations.Create(userID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.send(ctx, chatID, "🎟 New invitation. Pass this on:\n"+services.FormatCode("/start "+inv.Code))
}

func (h *BotHandler) handleStats(ctx context.Context, chatID, userID int64) {
	if userID != h.adminID {
		h.send(ctx, chatID, "⛔ Only the instructor can see statistics.")
		return
	}
	h.send(ctx, chatID, services.FormatStatistics(h.stats.CalculateStats(statsTopQuestions)))
}

// startPendingFor checks the target exists before waiting for text.
func (h *BotHandler) startPendingFor(ctx context.Context, chatID, userID int64, state string, targetID int64) {
	switch state {
	case fsm.StateAwaitingFollow:
		if _, ok := h.board.Answer(targetID); !ok {
			h.send(ctx, chatID, "⚠️ That answer is not open for a follow-up.")
			return
		}
	default:
		if _, ok := h.board.Question(targetID); !ok {
			h.send(ctx, chatID, "⚠️ No such question.")
			return
		}
	}
	h.startPending(ctx, chatID, userID, state, targetID)
}

func (h *BotHandler) startPending(ctx context.Context, chatID, userID int64, state string, targetID int64) {
	h.pending.Set(userID, state, targetID)
	h.send(ctx, chatID, fsm.Prompt(state))
}

func (h *BotHandler) handlePendingInput(ctx context.Context, chatID, userID int64, text string) {
	input, ok := h.pending.Take(userID)
	if !ok {
		h.send(ctx, chatID, "Send /help to see what I can do.")
		return
	}

	switch input.State {
	case fsm.StateAwaitingQuestion:
		h.submitQuestion(ctx, chatID, text)
	case fsm.StateAwaitingAnswer:
		h.submitAnswer(ctx, chatID, input.TargetID, text)
	case fsm.StateAwaitingEdit:
		h.edit(ctx, chatID, input.TargetID, text)
	case fsm.StateAwaitingFollow:
		h.submitFollowUp(ctx, chatID, input.TargetID, text)
	case fsm.StateAwaitingSearch:
		h.search(ctx, chatID, strings.TrimSpace(text))
	default:
		h.log.Warn("unknown pending state", "user_id", userID, "state", input.State)
	}
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	defer h.msgManager.AnswerCallback(ctx, callback.ID, "")

	userID := callback.From.ID
	chatID := userID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	if !h.isMember(userID) {
		return
	}

	action, id, ok := parseCallbackData(callback.Data)
	if !ok {
		h.log.Warn("unknown callback", "data", callback.Data)
		return
	}

	switch action {
	case callbackAnswer:
		h.startPendingFor(ctx, chatID, userID, fsm.StateAwaitingAnswer, id)
	case callbackEdit:
		h.startPendingFor(ctx, chatID, userID, fsm.StateAwaitingEdit, id)
	case callbackResolve:
		h.resolve(ctx, chatID, id)
	case callbackDelete:
		h.delete(ctx, chatID, id)
	case callbackShow:
		h.sendQuestionCard(ctx, chatID, id)
	case callbackFollowUp:
		h.startPendingFor(ctx, chatID, userID, fsm.StateAwaitingFollow, id)
	}
}

func (h *BotHandler) sendQuestionList(ctx context.Context, chatID int64, title string, questions []models.Question) {
	h.sendWithKeyboard(ctx, chatID, services.FormatQuestionList(title, questions, h.now()), listKeyboard(questions))
}

// replyError turns board errors into a message for the user and logs the rest.
func (h *BotHandler) replyError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, board.ErrEmptyText):
		h.send(ctx, chatID, "⚠️ The text is empty.")
	case errors.Is(err, board.ErrQuestionNotFound):
		h.send(ctx, chatID, "⚠️ No such question.")
	case errors.Is(err, board.ErrNotUnresolved):
		h.send(ctx, chatID, "⚠️ This question is not open. It may be resolved already.")
	case errors.Is(err, board.ErrAnswerNotFound):
		h.send(ctx, chatID, "⚠️ That answer is not open for a follow-up.")
	case board.IsValidation(err), board.IsState(err):
		h.send(ctx, chatID, "⚠️ "+services.FormatItalic(err.Error()))
	default:
		h.log.Error("request failed", "chat_id", chatID, "error", err)
		h.send(ctx, chatID, "❌ Something went wrong, please try again.")
	}
}

func (h *BotHandler) send(ctx context.Context, chatID int64, text string) {
	h.sendWithKeyboard(ctx, chatID, text, nil)
}

func (h *BotHandler) sendWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) {
	if err := h.msgManager.Send(ctx, chatID, text, keyboard); err != nil {
		h.log.Warn("reply not delivered", "chat_id", chatID, "error", err)
	}
}

// splitCommand returns the command without a @botname suffix and the trimmed
// rest of the text. Plain text yields an empty command.
func splitCommand(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text, " ")
	if i := strings.Index(head, "@"); i >= 0 {
		head = head[:i]
	}
	return strings.ToLower(head), strings.TrimSpace(rest)
}

// parseID reads a leading numeric id and returns what follows it.
func parseID(args string) (id int64, rest string, ok bool) {
	head, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	id, err := strconv.ParseInt(strings.TrimPrefix(head, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, strings.TrimSpace(rest), true
}
