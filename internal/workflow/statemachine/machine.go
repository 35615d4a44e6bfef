// Package statemachine holds the primitives finding workflows are declared
// with: states, guarded transitions, conditions and side-effect functions.
//
// A StateMachine is built once by a Builder and never mutated afterwards, so
// it can be shared by concurrent callers without locking.
package statemachine

import (
	"fmt"
)

// StateMachine is an ordered set of states.
type StateMachine struct {
	keys   []string
	states map[string]*State
}

// StateKeys returns the declared state keys in declaration order.
func (m *StateMachine) StateKeys() []string {
	return append([]string(nil), m.keys...)
}

// State returns the state with the given key.
func (m *StateMachine) State(key string) (*State, error) {
	s, ok := m.states[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStateNotFound, key)
	}
	return s, nil
}

// HasState reports whether the key is a declared state.
func (m *StateMachine) HasState(key string) bool {
	_, ok := m.states[key]
	return ok
}

// Builder collects states and transitions and validates them on Build.
type Builder struct {
	keys        []string
	transitions []TransitionDef
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// States declares states, in order.
func (b *Builder) States(keys ...string) *Builder {
	b.keys = append(b.keys, keys...)
	return b
}

// Transition declares a transition.
func (b *Builder) Transition(def TransitionDef) *Builder {
	b.transitions = append(b.transitions, def)
	return b
}

// Transitions declares the same transition from several originating states.
func (b *Builder) Transitions(def TransitionDef, from ...string) *Builder {
	for _, f := range from {
		d := def
		d.From = f
		b.transitions = append(b.transitions, d)
	}
	return b
}

// Build validates the definition and returns the machine. Every returned
// error wraps ErrInvalidDefinition.
func (b *Builder) Build() (*StateMachine, error) {
	declared := make(map[string]bool, len(b.keys))
	for _, k := range b.keys {
		if k == "" {
			return nil, fmt.Errorf("%w: state key must be set", ErrInvalidDefinition)
		}
		if declared[k] {
			return nil, fmt.Errorf("%w: state '%s' is declared several times", ErrInvalidDefinition, k)
		}
		declared[k] = true
	}

	outgoing := make(map[string][]*Transition, len(b.keys))
	for _, def := range b.transitions {
		t, err := NewTransition(def)
		if err != nil {
			return nil, err
		}
		if !declared[t.From()] {
			return nil, fmt.Errorf("%w: originating state '%s' of transition '%s' is not declared", ErrInvalidDefinition, t.From(), t.Key())
		}
		if !declared[t.To()] {
			return nil, fmt.Errorf("%w: destination state '%s' of transition '%s' is not declared", ErrInvalidDefinition, t.To(), t.Key())
		}
		outgoing[t.From()] = append(outgoing[t.From()], t)
	}

	m := &StateMachine{
		keys:   append([]string(nil), b.keys...),
		states: make(map[string]*State, len(b.keys)),
	}
	for _, k := range b.keys {
		s, err := newState(k, outgoing[k])
		if err != nil {
			return nil, err
		}
		m.states[k] = s
	}
	return m, nil
}
