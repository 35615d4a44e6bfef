package workflow

import (
	"errors"
	"fmt"

	"github.com/scan-io-git/findingflow/internal/issue"
)

// ErrUnknownStatus is matched by every UnknownStatusError.
var ErrUnknownStatus = errors.New("unknown status")

// ErrUnknownKind is matched by every UnknownKindError.
var ErrUnknownKind = errors.New("unknown kind")

// UnknownStatusError is returned for a finding whose status is not declared
// by the workflow of its kind.
type UnknownStatusError struct {
	Status     string
	FindingKey string
}

func (e *UnknownStatusError) Error() string {
	msg := fmt.Sprintf("Unknown status: %s", e.Status)
	if e.FindingKey != "" {
		msg += fmt.Sprintf(" [issue=%s]", e.FindingKey)
	}
	return msg
}

// Is makes errors.Is(err, ErrUnknownStatus) hold.
func (e *UnknownStatusError) Is(target error) bool {
	return target == ErrUnknownStatus
}

// UnknownKindError is returned for a finding whose kind selects no workflow.
type UnknownKindError struct {
	Kind       issue.Kind
	FindingKey string
}

func (e *UnknownKindError) Error() string {
	msg := fmt.Sprintf("Unknown kind: %q", e.Kind)
	if e.FindingKey != "" {
		msg += fmt.Sprintf(" [issue=%s]", e.FindingKey)
	}
	return msg
}

func (e *UnknownKindError) Is(target error) bool {
	return target == ErrUnknownKind
}
