package workflow

import (
	"github.com/scan-io-git/findingflow/internal/issue"
	sm "github.com/scan-io-git/findingflow/internal/workflow/statemachine"
)

// Manual transitions of security hotspots.
const (
	TransitionResolveAsReviewed     = "resolveasreviewed"
	TransitionResolveAsSafe         = "resolveassafe"
	TransitionResolveAsAcknowledged = "resolveasacknowledged"
	TransitionResetAsToReview       = "resetastoreview"
)

// HotspotStatuses in declaration order.
var HotspotStatuses = []string{
	issue.StatusToReview,
	issue.StatusReviewed,
	issue.StatusClosed,
}

// NewHotspotMachine builds the workflow of security hotspots. A reviewed
// hotspot whose resolution is neither FIXED nor SAFE offers no transition.
// Closed hotspots are never resurrected.
func NewHotspotMachine() (*sm.StateMachine, error) {
	b := sm.NewBuilder().States(HotspotStatuses...)

	resolutions := []struct {
		key        string
		resolution string
		// guard applied when leaving REVIEWED
		fromReviewed []string
	}{
		{TransitionResolveAsReviewed, issue.ResolutionFixed, []string{issue.ResolutionSafe}},
		{TransitionResolveAsSafe, issue.ResolutionSafe, []string{issue.ResolutionFixed}},
		{TransitionResolveAsAcknowledged, issue.ResolutionAcknowledged, []string{issue.ResolutionFixed, issue.ResolutionSafe}},
	}
	for _, r := range resolutions {
		b.Transition(sm.TransitionDef{
			Key:                r.key,
			From:               issue.StatusToReview,
			To:                 issue.StatusReviewed,
			Functions:          []sm.Function{SetResolution(r.resolution)},
			RequiredPermission: PermissionSecurityHotspotAdmin,
		})
		b.Transition(sm.TransitionDef{
			Key:                r.key,
			From:               issue.StatusReviewed,
			To:                 issue.StatusReviewed,
			Conditions:         []sm.Condition{HasResolution(r.fromReviewed...)},
			Functions:          []sm.Function{SetResolution(r.resolution)},
			RequiredPermission: PermissionSecurityHotspotAdmin,
		})
	}

	b.Transition(sm.TransitionDef{
		Key:                TransitionResetAsToReview,
		From:               issue.StatusReviewed,
		To:                 issue.StatusToReview,
		Conditions:         []sm.Condition{HasResolution(issue.ResolutionFixed, issue.ResolutionSafe)},
		Functions:          []sm.Function{UnsetResolution},
		RequiredPermission: PermissionSecurityHotspotAdmin,
	})

	b.Transitions(sm.TransitionDef{
		Key:        TransitionAutomaticClose,
		To:         issue.StatusClosed,
		Conditions: []sm.Condition{IsBeingClosed},
		Functions:  []sm.Function{Close, SetCloseDate},
		Automatic:  true,
	}, issue.StatusToReview, issue.StatusReviewed)

	return b.Build()
}
