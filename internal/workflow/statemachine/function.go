package statemachine

import (
	"time"

	"github.com/scan-io-git/findingflow/internal/issue"
)

// Function is a side effect run when a transition is applied.
type Function interface {
	Execute(fc *FunctionContext)
}

// FunctionFunc adapts a plain function to the Function interface.
type FunctionFunc func(fc *FunctionContext)

// Execute calls fn(fc).
func (fn FunctionFunc) Execute(fc *FunctionContext) {
	fn(fc)
}

// FunctionContext is the mutation surface handed to functions. Every change
// goes through the recording setters of the finding. Comments are collected
// and returned to the caller instead of being written to the finding.
type FunctionContext struct {
	finding  *issue.Finding
	change   issue.ChangeContext
	comments []string
}

// NewFunctionContext wraps a finding for the duration of one transition.
func NewFunctionContext(f *issue.Finding, ctx issue.ChangeContext) *FunctionContext {
	return &FunctionContext{finding: f, change: ctx}
}

// Finding returns the finding being transitioned.
func (fc *FunctionContext) Finding() *issue.Finding {
	return fc.finding
}

// ChangeContext returns the context the transition runs in.
func (fc *FunctionContext) ChangeContext() issue.ChangeContext {
	return fc.change
}

func (fc *FunctionContext) SetStatus(status string) *FunctionContext {
	fc.finding.SetStatus(status, fc.change)
	return fc
}

// SetResolution sets the resolution. The empty string clears it.
func (fc *FunctionContext) SetResolution(resolution string) *FunctionContext {
	fc.finding.SetResolution(resolution, fc.change)
	return fc
}

// RecordResolution sets the resolution and records it in the current change
// even when it is unchanged.
func (fc *FunctionContext) RecordResolution(resolution string) *FunctionContext {
	fc.finding.RecordResolution(resolution, fc.change)
	return fc
}

func (fc *FunctionContext) Assign(assignee string) *FunctionContext {
	fc.finding.Assign(assignee, fc.change)
	return fc
}

func (fc *FunctionContext) UnsetAssignee() *FunctionContext {
	fc.finding.Unassign(fc.change)
	return fc
}

func (fc *FunctionContext) UnsetLine() *FunctionContext {
	fc.finding.UnsetLine(fc.change)
	return fc
}

// SetCloseDate sets the close date to the date of the change context.
func (fc *FunctionContext) SetCloseDate() *FunctionContext {
	date := fc.change.Date
	fc.finding.SetCloseDate(&date)
	return fc
}

// SetCloseDateAt sets an explicit close date.
func (fc *FunctionContext) SetCloseDateAt(date time.Time) *FunctionContext {
	fc.finding.SetCloseDate(&date)
	return fc
}

func (fc *FunctionContext) UnsetCloseDate() *FunctionContext {
	fc.finding.SetCloseDate(nil)
	return fc
}

// AddComment queues a plain-text comment.
func (fc *FunctionContext) AddComment(text string) *FunctionContext {
	fc.comments = append(fc.comments, text)
	return fc
}

// Comments returns the comments produced so far, in order.
func (fc *FunctionContext) Comments() []string {
	return append([]string(nil), fc.comments...)
}
