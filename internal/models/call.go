package models

import "time"

// CallConfig is everything needed to rebuild the agent for a call.
type CallConfig struct {
	ConversationID string                 `json:"conversationId"`
	CallSID        string                 `json:"callSid"`
	From           string                 `json:"from"`
	To             string                 `json:"to"`
	AgentConfig    map[string]interface{} `json:"agentConfig"`
	Transcriber    *TranscriberConfig     `json:"transcriber,omitempty"`
	Synthesizer    *SynthesizerConfig     `json:"synthesizer,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// TranscriberConfig describes the speech-to-text provider the host attaches to the call.
type TranscriberConfig struct {
	Provider string `json:"provider"`
	Language string `json:"language,omitempty"`
	Model    string `json:"model,omitempty"`
}

// SynthesizerConfig describes the text-to-speech voice.
type SynthesizerConfig struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId,omitempty"`
}
