package statemachine

import (
	"fmt"

	"github.com/scan-io-git/findingflow/internal/issue"
)

// State is a status of a machine and its outgoing transitions, in declaration order.
type State struct {
	key         string
	transitions []*Transition
	byKey       map[string]*Transition
}

func newState(key string, transitions []*Transition) (*State, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: state key must be set", ErrInvalidDefinition)
	}
	s := &State{key: key, byKey: make(map[string]*Transition, len(transitions))}
	for _, t := range transitions {
		if _, exists := s.byKey[t.Key()]; exists {
			return nil, fmt.Errorf("%w: transition '%s' is declared several times from the originating state '%s'", ErrInvalidDefinition, t.Key(), key)
		}
		s.byKey[t.Key()] = t
		s.transitions = append(s.transitions, t)
	}
	return s, nil
}

func (s *State) Key() string { return s.key }

// Transitions returns every outgoing transition, manual and automatic.
func (s *State) Transitions() []*Transition {
	return append([]*Transition(nil), s.transitions...)
}

// Transition returns the named outgoing transition.
func (s *State) Transition(key string) (*Transition, error) {
	t, ok := s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w from state %s: %s", ErrTransitionNotFound, s.key, key)
	}
	return t, nil
}

// OutManualTransitions returns the manual transitions whose guards hold for the finding.
func (s *State) OutManualTransitions(f *issue.Finding) []*Transition {
	var out []*Transition
	for _, t := range s.transitions {
		if !t.Automatic() && t.Supports(f) {
			out = append(out, t)
		}
	}
	return out
}

// OutAutomaticTransition returns the first automatic transition whose guards
// hold, or nil.
func (s *State) OutAutomaticTransition(f *issue.Finding) *Transition {
	for _, t := range s.transitions {
		if t.Automatic() && t.Supports(f) {
			return t
		}
	}
	return nil
}
