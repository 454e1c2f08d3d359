package chat

// Action is the closed set of reply kinds the executor understands.
type Action string

const (
	ActionAskQuestion  Action = "ask_question"
	ActionCreateLeague Action = "create_league"
	ActionCreateGame   Action = "create_game"
	ActionShowInfo     Action = "show_info"
	ActionError        Action = "error"
)

// Reply is the structured object recovered from one generation response.
// The raw action string is kept as-is; Kind classifies it into the lexicon.
type Reply struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Speak  string `json:"speak,omitempty"`

	CurrentStep int `json:"current_step,omitempty"`
	TotalSteps  int `json:"total_steps,omitempty"`

	// ConversationState, when present, replaces the session's collected
	// fields wholesale (see Session.ApplyState for the merge variant).
	ConversationState map[string]any `json:"conversation_state,omitempty"`

	// Data carries the complete field payload of a terminal create action.
	Data map[string]any `json:"data,omitempty"`
}

// Kind classifies the raw action field. Anything outside the lexicon fails
// open into show_info; the body text is surfaced untouched.
func (r *Reply) Kind() Action {
	switch Action(r.Action) {
	case ActionAskQuestion, ActionCreateLeague, ActionCreateGame, ActionShowInfo, ActionError:
		return Action(r.Action)
	default:
		return ActionShowInfo
	}
}

// ErrorReply builds a diagnostic reply for the user. Error replies never
// mutate the store and never advance step state.
func ErrorReply(title, body, speak string) *Reply {
	return &Reply{
		Action: string(ActionError),
		Title:  title,
		Body:   body,
		Speak:  speak,
	}
}
