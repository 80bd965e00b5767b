package asset

import "errors"

// Validation errors returned synchronously by mutating operations. Callers
// match with errors.Is; messages carry the offending ids via %w wrapping.
var (
	ErrNotFound              = errors.New("not found")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrDuplicateIdentity     = errors.New("duplicate identity")
	ErrOutOfRange            = errors.New("wheel index out of range")
	ErrConflictingAssignment = errors.New("conflicting assignment")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrUnknownTrolley        = errors.New("unknown trolley")
	ErrUnknownVessel         = errors.New("unknown vessel")
)
