package dialogue

// ExtractEntities returns an EntitySet with every category present and empty.
// No extraction is performed yet.
func ExtractEntities(_ string) EntitySet {
	return EntitySet{
		EntityDates:     []string{},
		EntityNumbers:   []string{},
		EntityNames:     []string{},
		EntityLocations: []string{},
	}
}

// DeriveContext summarizes history. Callers pass the history as it stands
// after the current user turn is appended and before the reply is, so
// LastUser is the utterance being answered and LastAssistant the reply before it.
func DeriveContext(history History) Context {
	c := Context{TurnCount: len(history) / 2}
	if n := len(history); n > 0 {
		last := history[n-1]
		c.LastUser = &last
		if n > 1 {
			prev := history[n-2]
			c.LastAssistant = &prev
		}
	}
	return c
}
