package dialogue

import "fmt"

// ApologyReply is returned whenever a reply could not be produced.
const ApologyReply = "I apologize, but I encountered an error. Could you please rephrase that?"

var cannedReplies = map[Intent]string{
	IntentGreeting:  "Hello! How can I assist you today?",
	IntentFarewell:  "Goodbye! Have a great day!",
	IntentQuestion:  "I understand you have a question. Let me help you with that.",
	IntentRequest:   "I'll help you with your request.",
	IntentComplaint: "I'm sorry to hear you're having an issue. Let me help resolve that.",
	IntentGeneral:   "I understand. Please tell me more about how I can help you.",
}

// ReplyGenerator turns a classified utterance into reply text.
type ReplyGenerator interface {
	Generate(intent Intent, entities EntitySet, c Context) (string, error)
}

// CannedReplies selects a fixed reply by intent. Entities and context are
// accepted for interface parity and ignored.
type CannedReplies struct{}

func (CannedReplies) Generate(intent Intent, _ EntitySet, _ Context) (string, error) {
	reply, ok := cannedReplies[intent]
	if !ok {
		return "", fmt.Errorf("no reply for intent %q", intent)
	}
	return reply, nil
}

// CannedReply returns the fixed reply for intent, or the general reply.
func CannedReply(intent Intent) string {
	if reply, ok := cannedReplies[intent]; ok {
		return reply
	}
	return cannedReplies[IntentGeneral]
}
