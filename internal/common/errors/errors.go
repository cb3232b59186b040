// Package errors provides standardized error handling for the dialogue service
// and its workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Agent construction
	ErrCodeAgentTypeUnrecognized ErrorCode = "AGENT_TYPE_UNRECOGNIZED"
	ErrCodeAgentConfigInvalid    ErrorCode = "AGENT_CONFIG_INVALID"

	// Dialogue
	ErrCodeResponseGenerationFault ErrorCode = "RESPONSE_GENERATION_FAULT"
	ErrCodeSessionNotFound         ErrorCode = "SESSION_NOT_FOUND"

	// Storage
	ErrCodeCallConfigNotFound ErrorCode = "CALL_CONFIG_NOT_FOUND"
	ErrCodeCallConfigStore    ErrorCode = "CALL_CONFIG_STORE_FAILED"
	ErrCodeArchiveWriteFailed ErrorCode = "ARCHIVE_WRITE_FAILED"

	// Workflow
	ErrCodeInvalidJobInput ErrorCode = "INVALID_JOB_INPUT"

	// Model-backed agents
	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed ErrorCode = "LLM_REQUEST_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewAgentTypeUnrecognizedError is the ConfigurationError raised by the agent
// factory. Never retryable.
func NewAgentTypeUnrecognizedError(agentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentTypeUnrecognized,
		Message:   "Unrecognized agent config type",
		Details:   fmt.Sprintf("type: %s", agentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentConfigInvalidError reports an agent payload that failed validation.
func NewAgentConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentConfigInvalid,
		Message:   "Agent configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseGenerationFault wraps a fault recovered inside a respond call.
// It is logged and counted, never returned to the caller of Respond.
func NewResponseGenerationFault(cause interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseGenerationFault,
		Message:   "Reply generation failed",
		Details:   fmt.Sprint(cause),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError reports a conversation with no live or stored session.
func NewSessionNotFoundError(conversationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Conversation session not found",
		Details:   fmt.Sprintf("conversationId: %s", conversationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCallConfigNotFoundError reports a missing call configuration.
func NewCallConfigNotFoundError(conversationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCallConfigNotFound,
		Message:   "Call configuration not found",
		Details:   fmt.Sprintf("conversationId: %s", conversationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCallConfigStoreError creates a retryable call configuration store error.
func NewCallConfigStoreError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCallConfigStore,
		Message:   "Call configuration store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveWriteFailedError creates a retryable transcript archive error.
func NewArchiveWriteFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveWriteFailed,
		Message:   "Transcript archive write failed",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJobInputError creates a non-retryable job input error.
func NewInvalidJobInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJobInput,
		Message:   "Job input failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable model timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Language model request timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRequestFailedError creates a retryable model request error.
func NewLLMRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRequestFailed,
		Message:   "Language model request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCallConfigStore, ErrCodeArchiveWriteFailed:
		return 3
	case ErrCodeLLMTimeout, ErrCodeLLMRequestFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   GetRetryCount(stdErr.Code),
		ErrorVariables: map[string]interface{}{
			"errorCategory": GetErrorCategory(stdErr.Code),
			"timestamp":     stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeAgentTypeUnrecognized, ErrCodeAgentConfigInvalid:
		return "configuration"
	case ErrCodeResponseGenerationFault, ErrCodeSessionNotFound:
		return "dialogue"
	case ErrCodeCallConfigNotFound, ErrCodeCallConfigStore, ErrCodeArchiveWriteFailed:
		return "storage"
	case ErrCodeInvalidJobInput:
		return "validation"
	case ErrCodeLLMTimeout, ErrCodeLLMRequestFailed:
		return "external_service"
	default:
		return "internal"
	}
}
