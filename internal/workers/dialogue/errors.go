// Package dialogueworker holds what the dialogue job workers share.
package dialogueworker

import (
	stderrors "errors"
	"strings"

	"voice-agent/internal/agent"
	"voice-agent/internal/callconfig"
	"voice-agent/internal/common/errors"
	"voice-agent/internal/common/validation"
	"voice-agent/internal/session"
)

// MapError turns a domain error into the StandardError the workflow engine understands.
func MapError(err error, conversationID string) error {
	if err == nil {
		return nil
	}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, agent.ErrUnrecognizedAgentType):
		return errors.NewAgentTypeUnrecognizedError(agentTypeFrom(err))
	case stderrors.Is(err, agent.ErrInvalidAgentConfig):
		return errors.NewAgentConfigInvalidError(err.Error())
	case stderrors.Is(err, session.ErrSessionNotFound):
		return errors.NewSessionNotFoundError(conversationID)
	case stderrors.Is(err, callconfig.ErrCallConfigNotFound):
		return errors.NewCallConfigNotFoundError(conversationID)
	case stderrors.Is(err, callconfig.ErrStoreFailed):
		return errors.NewCallConfigStoreError(err)
	case stderrors.Is(err, validation.ErrSchemaViolation):
		return errors.NewInvalidJobInputError(err.Error())
	}
	return err
}

// agentTypeFrom pulls the quoted type out of "AGENT_TYPE_UNRECOGNIZED: \"X\"".
func agentTypeFrom(err error) string {
	msg := err.Error()
	i := strings.Index(msg, "\"")
	j := strings.LastIndex(msg, "\"")
	if i < 0 || j <= i {
		return ""
	}
	return msg[i+1 : j]
}
