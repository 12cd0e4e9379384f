package fsm

// Pending input states. A user in one of these states has picked a record
// from an inline keyboard and the next plain text message completes the action.
const (
	StateIdle             = "idle"
	StateAwaitingAnswer   = "awaiting_answer"
	StateAwaitingFollow   = "awaiting_follow_up"
	StateAwaitingEdit     = "awaiting_edit"
	StateAwaitingSearch   = "awaiting_search"
	StateAwaitingQuestion = "awaiting_question"
)

// Prompt returns the instruction shown when a user enters state.
func Prompt(state string) string {
	switch state {
	case StateAwaitingAnswer:
		return "Send your answer as the next message, or /cancel."
	case StateAwaitingFollow:
		return "Send your follow-up as the next message, or /cancel."
	case StateAwaitingEdit:
		return "Send the new wording of the question, or /cancel."
	case StateAwaitingSearch:
		return "Send a keyword to search for, or /cancel."
	case StateAwaitingQuestion:
		return "Send your question as the next message, or /cancel."
	default:
		return ""
	}
}
