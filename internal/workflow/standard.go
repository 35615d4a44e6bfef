package workflow

import (
	"github.com/scan-io-git/findingflow/internal/issue"
	sm "github.com/scan-io-git/findingflow/internal/workflow/statemachine"
)

// Permissions a caller must hold to apply some manual transitions.
const (
	PermissionIssueAdmin           = "issueadmin"
	PermissionSecurityHotspotAdmin = "securityhotspotadmin"
)

// Manual transitions of standard findings.
const (
	TransitionConfirm       = "confirm"
	TransitionUnconfirm     = "unconfirm"
	TransitionReopen        = "reopen"
	TransitionResolve       = "resolve"
	TransitionFalsePositive = "falsepositive"
	TransitionWontFix       = "wontfix"
	TransitionAccept        = "accept"
)

// Automatic transitions.
const (
	TransitionAutomaticClose            = "automaticclose"
	TransitionAutomaticReopen           = "automaticreopen"
	TransitionAutomaticReopenTaint      = "automaticreopentaint"
	TransitionAutomaticUncloseOpen      = "automaticuncloseopen"
	TransitionAutomaticUncloseReopened  = "automaticunclosereopened"
	TransitionAutomaticUncloseConfirmed = "automaticuncloseconfirmed"
	TransitionAutomaticUncloseResolved  = "automaticuncloseresolved"
	TransitionAutomaticUncloseSandbox   = "automaticunclosesandbox"
)

// StandardStatuses in declaration order.
var StandardStatuses = []string{
	issue.StatusOpen,
	issue.StatusConfirmed,
	issue.StatusReopened,
	issue.StatusResolved,
	issue.StatusClosed,
	issue.StatusInSandbox,
}

// NewStandardMachine builds the workflow of bugs, vulnerabilities and code smells.
func NewStandardMachine(taint TaintChecker) (*sm.StateMachine, error) {
	b := sm.NewBuilder().States(StandardStatuses...)
	buildStandardManualTransitions(b)
	buildStandardAutomaticTransitions(b, taint)
	return b.Build()
}

func buildStandardManualTransitions(b *sm.Builder) {
	b.Transitions(sm.TransitionDef{
		Key:       TransitionConfirm,
		To:        issue.StatusConfirmed,
		Functions: []sm.Function{UnsetResolution},
	}, issue.StatusOpen, issue.StatusReopened, issue.StatusInSandbox)

	b.Transition(sm.TransitionDef{
		Key:  TransitionUnconfirm,
		From: issue.StatusConfirmed,
		To:   issue.StatusReopened,
	})

	b.Transition(sm.TransitionDef{
		Key:       TransitionReopen,
		From:      issue.StatusResolved,
		To:        issue.StatusReopened,
		Functions: []sm.Function{UnsetResolution},
	})
	b.Transition(sm.TransitionDef{
		Key:  TransitionReopen,
		From: issue.StatusInSandbox,
		To:   issue.StatusOpen,
	})

	resolvable := []string{issue.StatusOpen, issue.StatusConfirmed, issue.StatusReopened, issue.StatusInSandbox}

	b.Transitions(sm.TransitionDef{
		Key:       TransitionResolve,
		To:        issue.StatusResolved,
		Functions: []sm.Function{SetResolution(issue.ResolutionFixed)},
	}, resolvable...)

	b.Transitions(sm.TransitionDef{
		Key:                TransitionFalsePositive,
		To:                 issue.StatusResolved,
		Functions:          []sm.Function{SetResolution(issue.ResolutionFalsePositive), UnsetAssignee},
		RequiredPermission: PermissionIssueAdmin,
	}, resolvable...)

	b.Transitions(sm.TransitionDef{
		Key:                TransitionWontFix,
		To:                 issue.StatusResolved,
		Functions:          []sm.Function{SetResolution(issue.ResolutionWontFix), UnsetAssignee},
		RequiredPermission: PermissionIssueAdmin,
	}, resolvable...)

	b.Transitions(sm.TransitionDef{
		Key:                TransitionAccept,
		To:                 issue.StatusResolved,
		Functions:          []sm.Function{SetResolution(issue.ResolutionWontFix), UnsetAssignee},
		RequiredPermission: PermissionIssueAdmin,
	}, resolvable...)
}

// Automatic transitions are evaluated in declaration order, the first one
// whose guards hold wins.
func buildStandardAutomaticTransitions(b *sm.Builder, taint TaintChecker) {
	b.Transitions(sm.TransitionDef{
		Key:        TransitionAutomaticClose,
		To:         issue.StatusClosed,
		Conditions: []sm.Condition{IsBeingClosed},
		Functions:  []sm.Function{Close, SetCloseDate},
		Automatic:  true,
	}, issue.StatusOpen, issue.StatusConfirmed, issue.StatusReopened, issue.StatusResolved, issue.StatusInSandbox)

	b.Transition(sm.TransitionDef{
		Key:  TransitionAutomaticReopenTaint,
		From: issue.StatusResolved,
		To:   issue.StatusOpen,
		Conditions: []sm.Condition{
			HasResolution(issue.ResolutionFalsePositive),
			HasLocationsChanged,
			IsTaintVulnerability(taint),
		},
		Functions: []sm.Function{UnsetResolution, AddComment(TaintReopenComment)},
		Automatic: true,
	})

	b.Transition(sm.TransitionDef{
		Key:        TransitionAutomaticReopen,
		From:       issue.StatusResolved,
		To:         issue.StatusReopened,
		Conditions: []sm.Condition{sm.Not(IsBeingClosed), HasResolution(issue.ResolutionFixed)},
		Functions:  []sm.Function{UnsetResolution},
		Automatic:  true,
	})

	unclose := []struct {
		key    string
		status string
	}{
		{TransitionAutomaticUncloseOpen, issue.StatusOpen},
		{TransitionAutomaticUncloseReopened, issue.StatusReopened},
		{TransitionAutomaticUncloseConfirmed, issue.StatusConfirmed},
		{TransitionAutomaticUncloseResolved, issue.StatusResolved},
		{TransitionAutomaticUncloseSandbox, issue.StatusInSandbox},
	}
	for _, u := range unclose {
		b.Transition(sm.TransitionDef{
			Key:  u.key,
			From: issue.StatusClosed,
			To:   u.status,
			Conditions: []sm.Condition{
				PreviousStatusWas(u.status),
				HasResolution(issue.ResolutionFixed, issue.ResolutionRemoved),
				sm.Not(IsFromHotspot),
			},
			Functions: []sm.Function{RestoreResolution, UnsetCloseDate},
			Automatic: true,
		})
	}
}
