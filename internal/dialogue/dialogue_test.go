package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"greeting hello", "hello there", IntentGreeting},
		{"greeting upper case", "HEY YOU", IntentGreeting},
		{"greeting before farewell", "hi, bye", IntentGreeting},
		{"farewell", "goodbye", IntentFarewell},
		{"farewell before question", "bye, what now", IntentFarewell},
		{"question", "where is my order", IntentQuestion},
		{"question before request", "could you tell me what time it is", IntentQuestion},
		{"request", "please send me a copy", IntentRequest},
		{"request multi word", "can you transfer me", IntentRequest},
		{"complaint", "the line keeps dropping, wrong number", IntentComplaint},
		{"complaint multi word", "my router is not working", IntentComplaint},
		{"substring inside word", "this is fine", IntentGreeting},
		{"unmatched", "xyz123", IntentGeneral},
		{"empty", "", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestIntents_PriorityOrder(t *testing.T) {
	assert.Equal(t, []Intent{
		IntentGreeting, IntentFarewell, IntentQuestion, IntentRequest, IntentComplaint, IntentGeneral,
	}, Intents())
}

func TestExtractEntities_AlwaysEmpty(t *testing.T) {
	for _, text := range []string{"", "meet me in Paris on May 5th at 3", "xyz123"} {
		entities := ExtractEntities(text)
		require.Len(t, entities, 4)
		for _, category := range []string{EntityDates, EntityNumbers, EntityNames, EntityLocations} {
			values, ok := entities[category]
			assert.True(t, ok, category)
			assert.NotNil(t, values, category)
			assert.Empty(t, values, category)
		}
	}
}

func TestDeriveContext(t *testing.T) {
	u := func(s string) Turn { return Turn{Role: RoleUser, Content: s} }
	a := func(s string) Turn { return Turn{Role: RoleAssistant, Content: s} }

	t.Run("empty history", func(t *testing.T) {
		c := DeriveContext(nil)
		assert.Equal(t, 0, c.TurnCount)
		assert.Nil(t, c.LastUser)
		assert.Nil(t, c.LastAssistant)
	})

	t.Run("first user turn", func(t *testing.T) {
		c := DeriveContext(History{u("a")})
		assert.Equal(t, 0, c.TurnCount)
		require.NotNil(t, c.LastUser)
		assert.Equal(t, "a", c.LastUser.Content)
		assert.Nil(t, c.LastAssistant)
	})

	// These pin the indexing: the current user turn has been appended and the
	// reply has not, so the last element is the utterance being answered.
	t.Run("three turns", func(t *testing.T) {
		c := DeriveContext(History{u("a"), a("b"), u("c")})
		assert.Equal(t, 1, c.TurnCount)
		require.NotNil(t, c.LastUser)
		require.NotNil(t, c.LastAssistant)
		assert.Equal(t, u("c"), *c.LastUser)
		assert.Equal(t, a("b"), *c.LastAssistant)
	})

	t.Run("five turns", func(t *testing.T) {
		c := DeriveContext(History{u("u1"), a("a1"), u("u2"), a("a2"), u("u3")})
		assert.Equal(t, 2, c.TurnCount)
		assert.Equal(t, u("u3"), *c.LastUser)
		assert.Equal(t, a("a2"), *c.LastAssistant)
	})

	t.Run("snapshot does not alias history", func(t *testing.T) {
		h := History{u("a"), a("b"), u("c")}
		c := DeriveContext(h)
		h[2].Content = "mutated"
		assert.Equal(t, "c", c.LastUser.Content)
	})
}

func TestCannedReplies(t *testing.T) {
	gen := CannedReplies{}
	seen := map[string]bool{}

	for _, intent := range Intents() {
		reply, err := gen.Generate(intent, ExtractEntities(""), Context{})
		require.NoError(t, err, intent)
		assert.NotEmpty(t, reply)
		assert.Equal(t, CannedReply(intent), reply)
		seen[reply] = true
	}
	assert.Len(t, seen, 6)

	greeting, _ := gen.Generate(IntentGreeting, nil, Context{})
	assert.Equal(t, "Hello! How can I assist you today?", greeting)
	general, _ := gen.Generate(IntentGeneral, nil, Context{})
	assert.Equal(t, "I understand. Please tell me more about how I can help you.", general)

	_, err := gen.Generate(Intent("sarcasm"), nil, Context{})
	assert.Error(t, err)
	assert.Equal(t, general, CannedReply(Intent("sarcasm")))
}

func TestHistory_WithDoesNotMutate(t *testing.T) {
	h := History{{Role: RoleUser, Content: "a"}}
	next := h.With(Turn{Role: RoleAssistant, Content: "b"})

	assert.Len(t, h, 1)
	assert.Len(t, next, 2)

	clone := next.Clone()
	clone[0].Content = "changed"
	assert.Equal(t, "a", next[0].Content)
}
