package dialogue

import "strings"

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is checked top to bottom; the first rule with a matching
// keyword wins, so the order is the tie-break.
var intentRules = []intentRule{
	{IntentGreeting, []string{"hello", "hi", "hey"}},
	{IntentFarewell, []string{"bye", "goodbye"}},
	{IntentQuestion, []string{"what", "how", "why", "when", "where"}},
	{IntentRequest, []string{"can you", "could you", "please"}},
	{IntentComplaint, []string{"problem", "issue", "wrong", "not working"}},
}

// Classify returns the intent of text by case-insensitive substring match.
// Keywords match anywhere, including inside words ("this" contains "hi").
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

// Intents lists every intent in priority order, general last.
func Intents() []Intent {
	out := make([]Intent, 0, len(intentRules)+1)
	for _, rule := range intentRules {
		out = append(out, rule.intent)
	}
	return append(out, IntentGeneral)
}
