package statemachine

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/findingflow/internal/issue"
)

// TransitionDef declares a transition. It is validated by NewTransition.
type TransitionDef struct {
	Key                string
	From               string
	To                 string
	Conditions         []Condition
	Functions          []Function
	RequiredPermission string
	Automatic          bool
}

// Transition is an immutable, guarded edge between two states.
type Transition struct {
	key                string
	from               string
	to                 string
	conditions         []Condition
	functions          []Function
	requiredPermission string
	automatic          bool
}

// NewTransition validates a definition and builds the transition.
func NewTransition(def TransitionDef) (*Transition, error) {
	if def.Key == "" {
		return nil, fmt.Errorf("%w: transition key must be set", ErrInvalidDefinition)
	}
	if strings.ToLower(def.Key) != def.Key {
		return nil, fmt.Errorf("%w: transition key must be lower-case: %s", ErrInvalidDefinition, def.Key)
	}
	if def.From == "" {
		return nil, fmt.Errorf("%w: originating status must be set on transition %s", ErrInvalidDefinition, def.Key)
	}
	if def.To == "" {
		return nil, fmt.Errorf("%w: destination status must be set on transition %s", ErrInvalidDefinition, def.Key)
	}

	return &Transition{
		key:                def.Key,
		from:               def.From,
		to:                 def.To,
		conditions:         append([]Condition(nil), def.Conditions...),
		functions:          append([]Function(nil), def.Functions...),
		requiredPermission: def.RequiredPermission,
		automatic:          def.Automatic,
	}, nil
}

func (t *Transition) Key() string  { return t.key }
func (t *Transition) From() string { return t.from }
func (t *Transition) To() string   { return t.to }

// RequiredPermission is the permission a caller must hold, or "" when none is declared.
func (t *Transition) RequiredPermission() string { return t.requiredPermission }

// Automatic transitions are never offered to users.
func (t *Transition) Automatic() bool { return t.automatic }

func (t *Transition) Conditions() []Condition {
	return append([]Condition(nil), t.conditions...)
}

func (t *Transition) Functions() []Function {
	return append([]Function(nil), t.functions...)
}

// Supports reports whether every guard holds for the finding.
func (t *Transition) Supports(f *issue.Finding) bool {
	for _, c := range t.conditions {
		if !c.Matches(f) {
			return false
		}
	}
	return true
}

// Apply runs the functions in declaration order and returns the comments
// they produced. It does not check the guards nor change the status.
func (t *Transition) Apply(f *issue.Finding, ctx issue.ChangeContext) []string {
	fc := NewFunctionContext(f, ctx)
	for _, fn := range t.functions {
		fn.Execute(fc)
	}
	return fc.Comments()
}

func (t *Transition) String() string {
	return fmt.Sprintf("%s->%s->%s", t.from, t.key, t.to)
}
