// Package dialogue holds the conversation model and the pure functions used to
// turn an utterance into a canned reply: intent classification, entity
// extraction, context derivation and reply selection.
package dialogue

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are values and are never
// modified after being appended to a History.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered, append-only log of a single session.
type History []Turn

// With returns a new history with turns appended, leaving h untouched.
func (h History) With(turns ...Turn) History {
	out := make(History, 0, len(h)+len(turns))
	out = append(out, h...)
	return append(out, turns...)
}

// Clone returns an independent copy.
func (h History) Clone() History {
	return h.With()
}

// Intent is the coarse purpose of an utterance.
type Intent string

const (
	IntentGreeting  Intent = "greeting"
	IntentFarewell  Intent = "farewell"
	IntentQuestion  Intent = "question"
	IntentRequest   Intent = "request"
	IntentComplaint Intent = "complaint"
	IntentGeneral   Intent = "general"
)

// Entity categories. Every EntitySet carries all four.
const (
	EntityDates     = "dates"
	EntityNumbers   = "numbers"
	EntityNames     = "names"
	EntityLocations = "locations"
)

// EntitySet maps a category to the values extracted for it.
type EntitySet map[string][]string

// Context is a read-only snapshot derived from the history on every call.
type Context struct {
	TurnCount     int
	LastUser      *Turn
	LastAssistant *Turn
}
