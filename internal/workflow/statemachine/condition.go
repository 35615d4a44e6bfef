package statemachine

import "github.com/scan-io-git/findingflow/internal/issue"

// Condition is a guard of a transition. Implementations must not mutate the finding.
type Condition interface {
	Matches(f *issue.Finding) bool
}

// ConditionFunc adapts a plain predicate to the Condition interface.
type ConditionFunc func(f *issue.Finding) bool

// Matches calls fn(f).
func (fn ConditionFunc) Matches(f *issue.Finding) bool {
	return fn(f)
}

type notCondition struct {
	condition Condition
}

// Not inverts a condition.
func Not(c Condition) Condition {
	return notCondition{condition: c}
}

func (n notCondition) Matches(f *issue.Finding) bool {
	return !n.condition.Matches(f)
}
