package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExpertNotFound signals a missing expert id.
	ErrExpertNotFound = errors.New("expert not found")
	// ErrDuplicateExpert signals an id seen twice while building the directory.
	ErrDuplicateExpert = errors.New("duplicate expert id")
	// ErrInvalidExpert signals an expert record violating a data invariant.
	ErrInvalidExpert = errors.New("invalid expert")
	// ErrInvalidQuery signals malformed marketplace query parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidCredentials signals an email/password pair that matched no user.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated signals a missing, expired or revoked session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrCompletionNotConfigured signals a missing completion service credential.
	ErrCompletionNotConfigured = errors.New("completion service not configured")
	// ErrCompletionProviderError signals a completion service failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrInvalidConversation signals a malformed chat request.
	ErrInvalidConversation = errors.New("invalid conversation")
	// ErrUnknownTool signals a tool name absent from the registry.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidToolArguments signals tool arguments that do not decode against the schema.
	ErrInvalidToolArguments = errors.New("invalid tool arguments")
	// ErrRateLimited signals an exhausted per-client chat quota.
	ErrRateLimited = errors.New("rate limited")
)

// ToolError wraps a tool failure with the tool name for logs and tool results.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s", e.Tool, e.Err.Error())
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a ToolError.
func NewToolError(tool string, err error) error {
	return &ToolError{Tool: tool, Err: err}
}
