// Package workflow declares the lifecycle of findings and applies it.
//
// Standard findings and security hotspots follow two distinct state machines,
// selected by the kind of the finding. Manual transitions are requested by
// users; automatic transitions are applied after each analysis and close dead
// findings, reopen taint vulnerabilities whose flow changed and resurrect
// closed findings seen again.
package workflow

import (
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/findingflow/internal/issue"
	sm "github.com/scan-io-git/findingflow/internal/workflow/statemachine"
)

// Workflow dispatches findings to the machine of their kind.
// It holds no mutable state and is safe for concurrent use.
type Workflow struct {
	standard *sm.StateMachine
	hotspot  *sm.StateMachine
	logger   hclog.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger used to trace applied automatic transitions.
func WithLogger(logger hclog.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Outcome describes an applied automatic transition.
type Outcome struct {
	Transition string
	From       string
	To         string
	Comments   []string
}

// New builds both machines. A nil checker flags no finding as a taint
// vulnerability. Errors are definition errors and should stop start-up.
func New(taint TaintChecker, opts ...Option) (*Workflow, error) {
	if taint == nil {
		taint = noTaint{}
	}

	standard, err := NewStandardMachine(taint)
	if err != nil {
		return nil, err
	}
	hotspot, err := NewHotspotMachine()
	if err != nil {
		return nil, err
	}

	w := &Workflow{
		standard: standard,
		hotspot:  hotspot,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Machine returns the state machine followed by findings of the given kind,
// or nil for a kind no workflow handles.
func (w *Workflow) Machine(kind issue.Kind) *sm.StateMachine {
	switch kind {
	case issue.KindStandard:
		return w.standard
	case issue.KindHotspot:
		return w.hotspot
	default:
		return nil
	}
}

// StatusKeys returns every status declared by either machine, standard
// statuses first.
func (w *Workflow) StatusKeys() []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range []*sm.StateMachine{w.standard, w.hotspot} {
		for _, k := range m.StateKeys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// OutTransitions returns the manual transitions currently offered for the finding.
func (w *Workflow) OutTransitions(f *issue.Finding) ([]*sm.Transition, error) {
	state, err := w.state(f)
	if err != nil {
		return nil, err
	}
	return state.OutManualTransitions(f), nil
}

// OutTransitionKeys returns the keys of OutTransitions.
func (w *Workflow) OutTransitionKeys(f *issue.Finding) ([]string, error) {
	transitions, err := w.OutTransitions(f)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(transitions))
	for _, t := range transitions {
		keys = append(keys, t.Key())
	}
	return keys, nil
}

// DoManualTransition applies a user transition. It returns false, leaving the
// finding untouched, when the transition is automatic or its guards do not
// hold. Unknown statuses and transitions absent from the current state are
// reported as errors.
func (w *Workflow) DoManualTransition(f *issue.Finding, key string, ctx issue.ChangeContext) (bool, error) {
	state, err := w.state(f)
	if err != nil {
		return false, err
	}
	t, err := state.Transition(key)
	if err != nil {
		return false, err
	}
	if t.Automatic() || !t.Supports(f) {
		return false, nil
	}
	w.apply(f, t, ctx)
	return true, nil
}

// DoAutomaticTransition applies the first automatic transition whose guards
// hold. It returns nil when none applies.
func (w *Workflow) DoAutomaticTransition(f *issue.Finding, ctx issue.ChangeContext) (*Outcome, error) {
	state, err := w.state(f)
	if err != nil {
		return nil, err
	}
	t := state.OutAutomaticTransition(f)
	if t == nil {
		return nil, nil
	}

	from := f.Status
	comments := w.apply(f, t, ctx)
	w.logger.Debug("automatic transition applied", "issue", f.Key, "transition", t.Key(), "from", from, "to", t.To())

	return &Outcome{Transition: t.Key(), From: from, To: t.To(), Comments: comments}, nil
}

// CanUnclose reports whether a closed finding would be brought back by the
// automatic pass once an analysis sees it again.
func (w *Workflow) CanUnclose(f *issue.Finding) bool {
	if f.Status != issue.StatusClosed {
		return false
	}
	state, err := w.state(f)
	if err != nil {
		return false
	}
	alive := f.Clone()
	alive.BeingClosed = false
	return state.OutAutomaticTransition(alive) != nil
}

func (w *Workflow) apply(f *issue.Finding, t *sm.Transition, ctx issue.ChangeContext) []string {
	comments := t.Apply(f, ctx)
	for _, text := range comments {
		f.Comments = append(f.Comments, issue.NewComment(ctx, text))
	}
	f.SetStatus(t.To(), ctx)
	f.SetUpdateDate(ctx.Date)
	f.Changed = true
	return comments
}

func (w *Workflow) state(f *issue.Finding) (*sm.State, error) {
	machine := w.Machine(f.Kind)
	if machine == nil {
		return nil, &UnknownKindError{Kind: f.Kind, FindingKey: f.Key}
	}
	state, err := machine.State(f.Status)
	if err != nil {
		return nil, &UnknownStatusError{Status: f.Status, FindingKey: f.Key}
	}
	return state, nil
}
