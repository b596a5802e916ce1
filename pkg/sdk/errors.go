package bconnected

import "github.com/bconnected/marketplace/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrExpertNotFound       = domain.ErrExpertNotFound
	ErrInvalidQuery         = domain.ErrInvalidQuery
	ErrInvalidToolArguments = domain.ErrInvalidToolArguments
	ErrUnknownTool          = domain.ErrUnknownTool
)
