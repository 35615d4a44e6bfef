package workflow

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/findingflow/internal/issue"
	sm "github.com/scan-io-git/findingflow/internal/workflow/statemachine"
)

type taintStub bool

func (s taintStub) IsTaintVulnerability(*issue.Finding) bool { return bool(s) }

var analysisDate = time.Date(2024, 6, 1, 9, 30, 15, 123000000, time.UTC)

func newWorkflow(t *testing.T) *Workflow {
	t.Helper()
	w, err := New(NewRuleRepositoryChecker(DefaultTaintRuleRepositories))
	require.NoError(t, err)
	return w
}

func lineOf(n int) *int {
	return &n
}

func TestStatusKeys(t *testing.T) {
	w := newWorkflow(t)

	assert.Equal(t, []string{
		issue.StatusOpen, issue.StatusConfirmed, issue.StatusReopened, issue.StatusResolved,
		issue.StatusClosed, issue.StatusInSandbox, issue.StatusToReview, issue.StatusReviewed,
	}, w.StatusKeys())
}

func TestOutTransitionKeys_Standard(t *testing.T) {
	w := newWorkflow(t)

	tests := []struct {
		status string
		want   []string
	}{
		{issue.StatusOpen, []string{"confirm", "resolve", "falsepositive", "wontfix", "accept"}},
		{issue.StatusConfirmed, []string{"unconfirm", "resolve", "falsepositive", "wontfix", "accept"}},
		{issue.StatusReopened, []string{"confirm", "resolve", "falsepositive", "wontfix", "accept"}},
		{issue.StatusResolved, []string{"reopen"}},
		{issue.StatusClosed, []string{}},
		{issue.StatusInSandbox, []string{"confirm", "reopen", "resolve", "falsepositive", "wontfix", "accept"}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := &issue.Finding{Key: "K", Kind: issue.KindStandard, Status: tt.status, BeingClosed: true}
			got, err := w.OutTransitionKeys(f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutTransitionKeys_Hotspot(t *testing.T) {
	w := newWorkflow(t)

	tests := []struct {
		name       string
		status     string
		resolution string
		want       []string
	}{
		{"to review", issue.StatusToReview, "", []string{"resolveasreviewed", "resolveassafe", "resolveasacknowledged"}},
		{"to review with stale resolution", issue.StatusToReview, issue.ResolutionSafe, []string{"resolveasreviewed", "resolveassafe", "resolveasacknowledged"}},
		{"reviewed fixed", issue.StatusReviewed, issue.ResolutionFixed, []string{"resolveassafe", "resolveasacknowledged", "resetastoreview"}},
		{"reviewed safe", issue.StatusReviewed, issue.ResolutionSafe, []string{"resolveasreviewed", "resolveasacknowledged", "resetastoreview"}},
		{"reviewed acknowledged is frozen", issue.StatusReviewed, issue.ResolutionAcknowledged, []string{}},
		{"reviewed without resolution is frozen", issue.StatusReviewed, "", []string{}},
		{"closed", issue.StatusClosed, issue.ResolutionFixed, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &issue.Finding{Key: "H", Kind: issue.KindHotspot, Status: tt.status, Resolution: tt.resolution}
			got, err := w.OutTransitionKeys(f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutTransitions_NeverOfferUnsupported(t *testing.T) {
	w := newWorkflow(t)
	resolutions := []string{"", issue.ResolutionFixed, issue.ResolutionSafe, issue.ResolutionAcknowledged, issue.ResolutionWontFix}

	for _, kind := range []issue.Kind{issue.KindStandard, issue.KindHotspot} {
		for _, status := range w.Machine(kind).StateKeys() {
			for _, resolution := range resolutions {
				f := &issue.Finding{Kind: kind, Status: status, Resolution: resolution}
				transitions, err := w.OutTransitions(f)
				require.NoError(t, err)
				for _, tr := range transitions {
					assert.True(t, tr.Supports(f), "%s offered from %s/%s", tr.Key(), status, resolution)
					assert.False(t, tr.Automatic())
				}
			}
		}
	}
}

func TestRequiredPermissions(t *testing.T) {
	w := newWorkflow(t)

	transitions, err := w.OutTransitions(&issue.Finding{Kind: issue.KindStandard, Status: issue.StatusOpen})
	require.NoError(t, err)
	perms := map[string]string{}
	for _, tr := range transitions {
		perms[tr.Key()] = tr.RequiredPermission()
	}
	assert.Equal(t, map[string]string{
		"confirm":       "",
		"resolve":       "",
		"falsepositive": PermissionIssueAdmin,
		"wontfix":       PermissionIssueAdmin,
		"accept":        PermissionIssueAdmin,
	}, perms)

	transitions, err = w.OutTransitions(&issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusToReview})
	require.NoError(t, err)
	for _, tr := range transitions {
		assert.Equal(t, PermissionSecurityHotspotAdmin, tr.RequiredPermission())
	}
}

func TestUnknownStatus(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.OutTransitionKeys(&issue.Finding{Kind: issue.KindStandard, Key: "K1", Status: "xxx"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.Equal(t, "Unknown status: xxx [issue=K1]", err.Error())

	_, err = w.OutTransitionKeys(&issue.Finding{Kind: issue.KindStandard, Status: "xxx"})
	assert.Equal(t, "Unknown status: xxx", err.Error())

	var statusErr *UnknownStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "xxx", statusErr.Status)
}

func TestUnknownStatus_DispatchedByKind(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.OutTransitionKeys(&issue.Finding{Kind: issue.KindStandard, Status: issue.StatusToReview})
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	_, err = w.OutTransitionKeys(&issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusOpen})
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestUnknownKind(t *testing.T) {
	w := newWorkflow(t)

	for _, kind := range []issue.Kind{"", "hotspot", "STANDART"} {
		t.Run(string(kind), func(t *testing.T) {
			f := &issue.Finding{Key: "K1", Kind: kind, Status: issue.StatusOpen, BeingClosed: true}
			before := f.Clone()

			_, err := w.OutTransitionKeys(f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownKind))
			assert.Equal(t, fmt.Sprintf("Unknown kind: %q [issue=K1]", kind), err.Error())

			applied, err := w.DoManualTransition(f, TransitionConfirm, issue.NewUserContext(analysisDate, "u"))
			assert.False(t, applied)
			assert.True(t, errors.Is(err, ErrUnknownKind))

			outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
			assert.Nil(t, outcome)
			var kindErr *UnknownKindError
			require.True(t, errors.As(err, &kindErr))
			assert.Equal(t, kind, kindErr.Kind)
			assert.Equal(t, before, f)
		})
	}
	assert.Nil(t, w.Machine("xxx"))
}

func TestDoManualTransition_FalsePositive(t *testing.T) {
	w := newWorkflow(t)
	f := &issue.Finding{Key: "K1", Kind: issue.KindStandard, Status: issue.StatusOpen, Assignee: "alice"}

	applied, err := w.DoManualTransition(f, TransitionFalsePositive, issue.NewUserContext(analysisDate, "admin"))
	require.NoError(t, err)
	assert.True(t, applied)

	assert.Equal(t, issue.StatusResolved, f.Status)
	assert.Equal(t, issue.ResolutionFalsePositive, f.Resolution)
	assert.Empty(t, f.Assignee)
	assert.True(t, f.Changed)
	require.NotNil(t, f.UpdateDate)
	assert.Equal(t, analysisDate.Truncate(time.Second), *f.UpdateDate)
	assert.Empty(t, f.Comments)

	require.NotNil(t, f.CurrentChange)
	assert.Equal(t, "admin", f.CurrentChange.UserUUID)
	assert.Equal(t, issue.Diff{Old: issue.StatusOpen, New: issue.StatusResolved}, f.CurrentChange.Diffs[issue.FieldStatus])
	assert.Equal(t, issue.Diff{Old: "", New: issue.ResolutionFalsePositive}, f.CurrentChange.Diffs[issue.FieldResolution])
	assert.Equal(t, issue.Diff{Old: "alice", New: ""}, f.CurrentChange.Diffs[issue.FieldAssignee])
	assert.Empty(t, f.History)
}

func TestDoManualTransition_SideEffects(t *testing.T) {
	w := newWorkflow(t)

	tests := []struct {
		name           string
		finding        issue.Finding
		transition     string
		wantStatus     string
		wantResolution string
		wantAssignee   string
	}{
		{"confirm", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusOpen, Assignee: "a"}, TransitionConfirm, issue.StatusConfirmed, "", "a"},
		{"unconfirm", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusConfirmed}, TransitionUnconfirm, issue.StatusReopened, "", ""},
		{"resolve", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusReopened, Assignee: "a"}, TransitionResolve, issue.StatusResolved, issue.ResolutionFixed, "a"},
		{"wontfix", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusConfirmed, Assignee: "a"}, TransitionWontFix, issue.StatusResolved, issue.ResolutionWontFix, ""},
		{"accept", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusOpen, Assignee: "a"}, TransitionAccept, issue.StatusResolved, issue.ResolutionWontFix, ""},
		{"reopen resolved", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusResolved, Resolution: issue.ResolutionFixed}, TransitionReopen, issue.StatusReopened, "", ""},
		{"reopen sandbox", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusInSandbox}, TransitionReopen, issue.StatusOpen, "", ""},
		{"resolve sandbox", issue.Finding{Kind: issue.KindStandard, Status: issue.StatusInSandbox}, TransitionResolve, issue.StatusResolved, issue.ResolutionFixed, ""},
		{"hotspot reviewed", issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusToReview}, TransitionResolveAsReviewed, issue.StatusReviewed, issue.ResolutionFixed, ""},
		{"hotspot safe", issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusReviewed, Resolution: issue.ResolutionFixed}, TransitionResolveAsSafe, issue.StatusReviewed, issue.ResolutionSafe, ""},
		{"hotspot acknowledged", issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusReviewed, Resolution: issue.ResolutionSafe}, TransitionResolveAsAcknowledged, issue.StatusReviewed, issue.ResolutionAcknowledged, ""},
		{"hotspot reset", issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusReviewed, Resolution: issue.ResolutionSafe}, TransitionResetAsToReview, issue.StatusToReview, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.finding
			applied, err := w.DoManualTransition(&f, tt.transition, issue.NewUserContext(analysisDate, "u"))
			require.NoError(t, err)
			assert.True(t, applied)
			assert.Equal(t, tt.wantStatus, f.Status)
			assert.Equal(t, tt.wantResolution, f.Resolution)
			assert.Equal(t, tt.wantAssignee, f.Assignee)
		})
	}
}

func TestDoManualTransition_RejectedLeavesFindingUntouched(t *testing.T) {
	w := newWorkflow(t)

	tests := []struct {
		name       string
		finding    *issue.Finding
		transition string
		wantErr    error
	}{
		{
			name:       "guard false",
			finding:    &issue.Finding{Key: "H1", Kind: issue.KindHotspot, Status: issue.StatusReviewed, Resolution: issue.ResolutionAcknowledged},
			transition: TransitionResetAsToReview,
		},
		{
			name:       "automatic transition",
			finding:    &issue.Finding{Kind: issue.KindStandard, Key: "K1", Status: issue.StatusOpen, BeingClosed: true, Line: lineOf(3)},
			transition: TransitionAutomaticClose,
		},
		{
			name:       "transition absent from state",
			finding:    &issue.Finding{Kind: issue.KindStandard, Key: "K2", Status: issue.StatusResolved, Resolution: issue.ResolutionFixed},
			transition: TransitionConfirm,
			wantErr:    sm.ErrTransitionNotFound,
		},
		{
			name:       "unknown transition",
			finding:    &issue.Finding{Kind: issue.KindStandard, Key: "K3", Status: issue.StatusOpen},
			transition: "doesnotexist",
			wantErr:    sm.ErrTransitionNotFound,
		},
		{
			name:       "unknown status",
			finding:    &issue.Finding{Kind: issue.KindStandard, Key: "K4", Status: "xxx"},
			transition: TransitionConfirm,
			wantErr:    ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.finding.Clone()

			applied, err := w.DoManualTransition(tt.finding, tt.transition, issue.NewUserContext(analysisDate, "u"))
			assert.False(t, applied)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, before, tt.finding)
		})
	}
}

func TestDoManualTransition_UnknownTransitionMessage(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.DoManualTransition(&issue.Finding{Kind: issue.KindStandard, Status: issue.StatusResolved}, TransitionConfirm, issue.NewUserContext(analysisDate, "u"))
	require.Error(t, err)
	assert.Equal(t, "unknown transition from state RESOLVED: confirm", err.Error())
}

func TestDoAutomaticTransition_CloseDeadFinding(t *testing.T) {
	w := newWorkflow(t)

	for _, disabled := range []bool{false, true} {
		for _, status := range []string{issue.StatusOpen, issue.StatusConfirmed, issue.StatusReopened, issue.StatusResolved, issue.StatusInSandbox} {
			t.Run(fmt.Sprintf("%s disabled=%v", status, disabled), func(t *testing.T) {
				f := &issue.Finding{Kind: issue.KindStandard, Key: "K", Status: status, Line: lineOf(12), BeingClosed: true, OnDisabledRule: disabled}

				outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
				require.NoError(t, err)
				require.NotNil(t, outcome)
				assert.Equal(t, TransitionAutomaticClose, outcome.Transition)
				assert.Equal(t, status, outcome.From)
				assert.Equal(t, issue.StatusClosed, outcome.To)

				assert.Equal(t, issue.StatusClosed, f.Status)
				if disabled {
					assert.Equal(t, issue.ResolutionRemoved, f.Resolution)
				} else {
					assert.Equal(t, issue.ResolutionFixed, f.Resolution)
				}
				assert.Nil(t, f.Line)
				require.NotNil(t, f.CloseDate)
				assert.Equal(t, analysisDate.Truncate(time.Second), *f.CloseDate)
				assert.Equal(t, analysisDate.Truncate(time.Second), *f.UpdateDate)
				assert.True(t, f.Changed)
			})
		}
	}
}

func TestDoAutomaticTransition_CloseHotspot(t *testing.T) {
	w := newWorkflow(t)

	for _, status := range []string{issue.StatusToReview, issue.StatusReviewed} {
		f := &issue.Finding{Kind: issue.KindHotspot, Status: status, Resolution: issue.ResolutionSafe, BeingClosed: true}
		if status == issue.StatusToReview {
			f.Resolution = ""
		}

		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		require.NotNil(t, outcome)
		assert.Equal(t, issue.StatusClosed, f.Status)
		assert.Equal(t, issue.ResolutionFixed, f.Resolution)
	}
}

func TestDoAutomaticTransition_TaintReopen(t *testing.T) {
	w := newWorkflow(t)
	taint := func() *issue.Finding {
		return &issue.Finding{
			Kind:             issue.KindStandard,
			Key:              "T1",
			RuleKey:          "javasecurity:S3649",
			Type:             issue.TypeVulnerability,
			Status:           issue.StatusResolved,
			Resolution:       issue.ResolutionFalsePositive,
			LocationsChanged: true,
		}
	}

	f := taint()
	outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, TransitionAutomaticReopenTaint, outcome.Transition)
	assert.Equal(t, issue.StatusOpen, f.Status)
	assert.Empty(t, f.Resolution)
	assert.Equal(t, []string{TaintReopenComment}, outcome.Comments)
	require.Len(t, f.Comments, 1)
	assert.Equal(t, TaintReopenComment, f.Comments[0].Text)
	assert.Equal(t, analysisDate, f.Comments[0].CreationDate)

	t.Run("non taint rule", func(t *testing.T) {
		f := taint()
		f.RuleKey = "java:S2077"
		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		assert.Nil(t, outcome)
		assert.Equal(t, issue.StatusResolved, f.Status)
		assert.Equal(t, issue.ResolutionFalsePositive, f.Resolution)
		assert.Empty(t, f.Comments)
	})

	t.Run("not a vulnerability", func(t *testing.T) {
		f := taint()
		f.Type = issue.TypeBug
		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		assert.Nil(t, outcome)
	})

	t.Run("locations unchanged", func(t *testing.T) {
		f := taint()
		f.LocationsChanged = false
		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		assert.Nil(t, outcome)
	})

	t.Run("wont fix", func(t *testing.T) {
		f := taint()
		f.Resolution = issue.ResolutionWontFix
		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		assert.Nil(t, outcome)
	})

	t.Run("custom checker", func(t *testing.T) {
		w, err := New(taintStub(true))
		require.NoError(t, err)
		f := taint()
		f.RuleKey = "custom:R1"
		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		require.NotNil(t, outcome)
		assert.Equal(t, issue.StatusOpen, f.Status)
	})
}

func TestDoAutomaticTransition_ReopenResolvedAsFixed(t *testing.T) {
	w := newWorkflow(t)
	f := &issue.Finding{Kind: issue.KindStandard, Key: "K", Status: issue.StatusResolved, Resolution: issue.ResolutionFixed}

	outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, TransitionAutomaticReopen, outcome.Transition)
	assert.Equal(t, issue.StatusReopened, f.Status)
	assert.Empty(t, f.Resolution)
	assert.Empty(t, outcome.Comments)
}

func TestDoAutomaticTransition_NothingApplies(t *testing.T) {
	w := newWorkflow(t)

	findings := []*issue.Finding{
		{Key: "open", Kind: issue.KindStandard, Status: issue.StatusOpen},
		{Key: "resolved", Kind: issue.KindStandard, Status: issue.StatusResolved, Resolution: issue.ResolutionWontFix},
		{Key: "closed-no-history", Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed},
		{Key: "hotspot", Kind: issue.KindHotspot, Status: issue.StatusReviewed, Resolution: issue.ResolutionSafe},
	}
	for _, f := range findings {
		t.Run(f.Key, func(t *testing.T) {
			before := f.Clone()
			outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
			require.NoError(t, err)
			assert.Nil(t, outcome)
			assert.Equal(t, before, f)
		})
	}
}

func TestDoAutomaticTransition_UnknownStatus(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.DoAutomaticTransition(&issue.Finding{Kind: issue.KindStandard, Key: "K", Status: "xxx"}, issue.NewScanContext(analysisDate))
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestResurrection_RoundTrip(t *testing.T) {
	w := newWorkflow(t)
	statuses := []string{issue.StatusOpen, issue.StatusReopened, issue.StatusConfirmed, issue.StatusResolved}
	resolutions := []string{"", issue.ResolutionFixed, issue.ResolutionWontFix, issue.ResolutionFalsePositive}

	for _, status := range statuses {
		for _, resolution := range resolutions {
			t.Run(status+"/"+resolution, func(t *testing.T) {
				f := &issue.Finding{Key: "K", Kind: issue.KindStandard, Status: status, Resolution: resolution, Line: lineOf(5)}

				f.BeingClosed = true
				outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(at(10)))
				require.NoError(t, err)
				require.NotNil(t, outcome)
				assert.Equal(t, issue.StatusClosed, f.Status)
				assert.Equal(t, issue.ResolutionFixed, f.Resolution)
				f.FlushCurrentChange()

				f.BeingClosed = false
				outcome, err = w.DoAutomaticTransition(f, issue.NewScanContext(at(20)))
				require.NoError(t, err)
				require.NotNil(t, outcome)
				assert.Equal(t, issue.StatusClosed, outcome.From)
				assert.Equal(t, status, f.Status)
				assert.Equal(t, resolution, f.Resolution)
				assert.Nil(t, f.CloseDate)
				assert.Equal(t, at(20), *f.UpdateDate)
				assert.True(t, f.Changed)
			})
		}
	}
}

func TestDoAutomaticTransition_CloseRecordsPriorResolution(t *testing.T) {
	w := newWorkflow(t)

	tests := []struct {
		name       string
		resolution string
		disabled   bool
		want       issue.Diff
	}{
		{"already fixed", issue.ResolutionFixed, false, issue.Diff{Old: issue.ResolutionFixed, New: issue.ResolutionFixed}},
		{"already removed", issue.ResolutionRemoved, true, issue.Diff{Old: issue.ResolutionRemoved, New: issue.ResolutionRemoved}},
		{"false positive", issue.ResolutionFalsePositive, false, issue.Diff{Old: issue.ResolutionFalsePositive, New: issue.ResolutionFixed}},
		{"no resolution", "", true, issue.Diff{Old: "", New: issue.ResolutionRemoved}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &issue.Finding{Key: "K", Kind: issue.KindStandard, Status: issue.StatusResolved, Resolution: tt.resolution, BeingClosed: true, OnDisabledRule: tt.disabled}

			_, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
			require.NoError(t, err)

			require.NotNil(t, f.CurrentChange)
			diff, ok := f.CurrentChange.Get(issue.FieldResolution)
			require.True(t, ok)
			assert.Equal(t, tt.want, diff)
		})
	}
}

func TestResurrection_FixedWithoutHistory(t *testing.T) {
	w := newWorkflow(t)

	for _, status := range []string{issue.StatusOpen, issue.StatusResolved} {
		t.Run(status, func(t *testing.T) {
			f := &issue.Finding{Key: "K", Kind: issue.KindStandard, Status: status, Resolution: issue.ResolutionFixed, BeingClosed: true}

			_, err := w.DoAutomaticTransition(f, issue.NewScanContext(at(1)))
			require.NoError(t, err)
			f.FlushCurrentChange()
			require.Len(t, f.History, 1)

			f.BeingClosed = false
			outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(at(2)))
			require.NoError(t, err)
			require.NotNil(t, outcome)
			assert.Equal(t, status, f.Status)
			assert.Equal(t, issue.ResolutionFixed, f.Resolution)
		})
	}
}

func TestResurrection_RemovedFinding(t *testing.T) {
	w := newWorkflow(t)
	f := &issue.Finding{
		Kind:       issue.KindStandard,
		Key:        "K",
		Status:     issue.StatusClosed,
		Resolution: issue.ResolutionRemoved,
		History: []issue.Change{
			change(at(1), statusDiff(issue.StatusConfirmed, issue.StatusClosed), resolutionDiff("", issue.ResolutionRemoved)),
		},
	}

	outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(at(2)))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, TransitionAutomaticUncloseConfirmed, outcome.Transition)
	assert.Equal(t, issue.StatusConfirmed, f.Status)
	assert.Empty(t, f.Resolution)
}

func TestResurrection_MostRecentClosingWins(t *testing.T) {
	w := newWorkflow(t)
	f := &issue.Finding{
		Kind:       issue.KindStandard,
		Key:        "K",
		Status:     issue.StatusClosed,
		Resolution: issue.ResolutionFixed,
		History: []issue.Change{
			change(at(1), statusDiff(issue.StatusConfirmed, issue.StatusClosed), resolutionDiff("", issue.ResolutionFixed)),
			change(at(2), statusDiff(issue.StatusClosed, issue.StatusReopened), resolutionDiff(issue.ResolutionFixed, "")),
			change(at(3), statusDiff(issue.StatusReopened, issue.StatusClosed), resolutionDiff("", issue.ResolutionFixed)),
		},
	}

	outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(at(4)))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, TransitionAutomaticUncloseReopened, outcome.Transition)
	assert.Equal(t, issue.StatusReopened, f.Status)
	assert.Empty(t, f.Resolution)
}

func TestResurrection_Excluded(t *testing.T) {
	w := newWorkflow(t)
	closedFrom := func(status string) []issue.Change {
		return []issue.Change{change(at(1), statusDiff(status, issue.StatusClosed), resolutionDiff("", issue.ResolutionFixed))}
	}

	tests := []struct {
		name    string
		finding *issue.Finding
	}{
		{
			name:    "closed with another resolution",
			finding: &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionWontFix, History: closedFrom(issue.StatusOpen)},
		},
		{
			name:    "raised from a hotspot",
			finding: &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, FromHotspot: true, History: closedFrom(issue.StatusOpen)},
		},
		{
			name:    "hotspot",
			finding: &issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, History: closedFrom(issue.StatusToReview)},
		},
		{
			name:    "previous status unknown to the machine",
			finding: &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, History: closedFrom(issue.StatusToReview)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.finding.Clone()
			outcome, err := w.DoAutomaticTransition(tt.finding, issue.NewScanContext(at(2)))
			require.NoError(t, err)
			assert.Nil(t, outcome)
			assert.Equal(t, before, tt.finding)
		})
	}
}

func TestCanUnclose(t *testing.T) {
	w := newWorkflow(t)
	closedFrom := []issue.Change{change(at(1), statusDiff(issue.StatusOpen, issue.StatusClosed), resolutionDiff("", issue.ResolutionFixed))}

	tests := []struct {
		name    string
		finding *issue.Finding
		want    bool
	}{
		{"resurrectable", &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, BeingClosed: true, History: closedFrom}, true},
		{"no history", &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed}, false},
		{"other resolution", &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionWontFix, History: closedFrom}, false},
		{"raised from a hotspot", &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, FromHotspot: true, History: closedFrom}, false},
		{"hotspot", &issue.Finding{Kind: issue.KindHotspot, Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, History: closedFrom}, false},
		{"not closed", &issue.Finding{Kind: issue.KindStandard, Status: issue.StatusOpen}, false},
		{"unknown kind", &issue.Finding{Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, History: closedFrom}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.finding.Clone()
			assert.Equal(t, tt.want, w.CanUnclose(tt.finding))
			assert.Equal(t, before, tt.finding)
		})
	}
}

func TestDoAutomaticTransition_IsIdempotentOnClosed(t *testing.T) {
	w := newWorkflow(t)
	f := &issue.Finding{Kind: issue.KindStandard, Key: "K", Status: issue.StatusClosed, Resolution: issue.ResolutionFixed, BeingClosed: true}

	for i := 0; i < 2; i++ {
		outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
		require.NoError(t, err)
		assert.Nil(t, outcome)
	}
	assert.Empty(t, f.History)
	assert.Nil(t, f.CurrentChange)
	assert.False(t, f.Changed)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug, DisableTime: true})
	w, err := New(nil, WithLogger(logger))
	require.NoError(t, err)

	f := &issue.Finding{Kind: issue.KindStandard, Key: "K9", Status: issue.StatusOpen, BeingClosed: true}
	_, err = w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "automatic transition applied")
	assert.Contains(t, buf.String(), "issue=K9")
	assert.Contains(t, buf.String(), "transition=automaticclose")
}

func TestNew_NilCheckerFlagsNothing(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	f := &issue.Finding{
		Kind: issue.KindStandard, RuleKey: "javasecurity:S3649", Type: issue.TypeVulnerability,
		Status: issue.StatusResolved, Resolution: issue.ResolutionFalsePositive, LocationsChanged: true,
	}

	outcome, err := w.DoAutomaticTransition(f, issue.NewScanContext(analysisDate))
	require.NoError(t, err)
	assert.Nil(t, outcome)
}
