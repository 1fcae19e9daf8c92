package domain

import (
	"errors"
)

// Sentinel errors - match with errors.Is()
var (
	// ErrNotFound indicates an owner-scoped lookup miss. A project owned by a
	// different account is indistinguishable from a nonexistent one.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing or invalid session on an
	// owner-scoped operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream indicates a model-provider failure before streaming began.
	ErrUpstream = errors.New("upstream provider error")
)
