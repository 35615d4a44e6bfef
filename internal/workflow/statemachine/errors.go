package statemachine

import "errors"

// Lookup errors
var (
	ErrStateNotFound      = errors.New("state not found")
	ErrTransitionNotFound = errors.New("unknown transition")
)

// Definition errors, reported when a machine is built
var (
	ErrInvalidDefinition = errors.New("invalid state machine definition")
)
