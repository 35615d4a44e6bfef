package workflow

import (
	"github.com/scan-io-git/findingflow/internal/issue"
	sm "github.com/scan-io-git/findingflow/internal/workflow/statemachine"
)

// IsBeingClosed holds for findings absent from the latest analysis.
var IsBeingClosed = sm.ConditionFunc(func(f *issue.Finding) bool {
	return f.BeingClosed
})

// IsFromHotspot holds for vulnerabilities raised from a reviewed hotspot.
var IsFromHotspot = sm.ConditionFunc(func(f *issue.Finding) bool {
	return f.FromHotspot
})

// HasLocationsChanged holds when the latest analysis reported a different flow.
var HasLocationsChanged = sm.ConditionFunc(func(f *issue.Finding) bool {
	return f.LocationsChanged
})

// HasResolution holds when the resolution is one of the given ones.
func HasResolution(resolutions ...string) sm.Condition {
	return sm.ConditionFunc(func(f *issue.Finding) bool {
		return f.HasResolution(resolutions...)
	})
}

// IsTaintVulnerability delegates to the given checker.
func IsTaintVulnerability(checker TaintChecker) sm.Condition {
	return sm.ConditionFunc(checker.IsTaintVulnerability)
}

// PreviousStatusWas holds when the history shows the finding had the given
// status right before it was last closed.
func PreviousStatusWas(status string) sm.Condition {
	return sm.ConditionFunc(func(f *issue.Finding) bool {
		prior, ok := ScanPriorLife(f.History)
		return ok && prior.Status == status
	})
}
