package workflow

import (
	"github.com/scan-io-git/findingflow/internal/issue"
	sm "github.com/scan-io-git/findingflow/internal/workflow/statemachine"
)

// TaintReopenComment is added when a false-positive taint vulnerability is reopened.
const TaintReopenComment = "Automatically reopened because the vulnerability flow changed."

// SetResolution sets a fixed resolution.
func SetResolution(resolution string) sm.Function {
	return sm.FunctionFunc(func(fc *sm.FunctionContext) {
		fc.SetResolution(resolution)
	})
}

var (
	UnsetResolution = SetResolution("")

	UnsetAssignee = sm.FunctionFunc(func(fc *sm.FunctionContext) {
		fc.UnsetAssignee()
	})

	SetCloseDate = sm.FunctionFunc(func(fc *sm.FunctionContext) {
		fc.SetCloseDate()
	})

	UnsetCloseDate = sm.FunctionFunc(func(fc *sm.FunctionContext) {
		fc.UnsetCloseDate()
	})
)

// Close resolves a dead finding: REMOVED when its rule is disabled, FIXED
// otherwise. The line no longer exists. The closing change always carries
// the resolution held before, which resurrection restores.
var Close = sm.FunctionFunc(func(fc *sm.FunctionContext) {
	if fc.Finding().OnDisabledRule {
		fc.RecordResolution(issue.ResolutionRemoved)
	} else {
		fc.RecordResolution(issue.ResolutionFixed)
	}
	fc.UnsetLine()
})

// RestoreResolution puts back the resolution held before the last closing.
var RestoreResolution = sm.FunctionFunc(func(fc *sm.FunctionContext) {
	prior, ok := ScanPriorLife(fc.Finding().History)
	if !ok {
		return
	}
	fc.SetResolution(prior.Resolution)
})

// AddComment appends a fixed comment.
func AddComment(text string) sm.Function {
	return sm.FunctionFunc(func(fc *sm.FunctionContext) {
		fc.AddComment(text)
	})
}
