// Package tracking runs the analysis pass: it reconciles the findings of a
// new analysis with the tracked ones and lets the workflow move each tracked
// finding accordingly.
package tracking

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/findingflow/internal/issue"
	"github.com/scan-io-git/findingflow/internal/sarif"
	"github.com/scan-io-git/findingflow/internal/store"
	"github.com/scan-io-git/findingflow/internal/workflow"
	"github.com/scan-io-git/findingflow/pkg/issuecorrelation"
)

// Summary counts what an analysis pass did.
type Summary struct {
	Tracked     int
	Matched     int
	New         int
	Closed      int
	Unclosed    int
	Reopened    int
	Failed      int
	Transitions map[string]int
}

type Tracker struct {
	workflow      *workflow.Workflow
	disabledRules map[string]struct{}
	newKey        func() string
	logger        hclog.Logger
}

type Option func(*Tracker)

func WithLogger(logger hclog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithDisabledRules lists the rules whose dead findings are closed as removed.
func WithDisabledRules(ruleKeys []string) Option {
	return func(t *Tracker) {
		for _, k := range ruleKeys {
			t.disabledRules[k] = struct{}{}
		}
	}
}

// WithKeyGenerator replaces the generator of new finding keys.
func WithKeyGenerator(gen func() string) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newKey = gen
		}
	}
}

func New(wf *workflow.Workflow, opts ...Option) *Tracker {
	t := &Tracker{
		workflow:      wf,
		disabledRules: map[string]struct{}{},
		newKey:        uuid.NewString,
		logger:        hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track reconciles the analysis findings with the snapshot, then runs the
// automatic transitions of every tracked finding. New findings are appended
// to the snapshot.
func (t *Tracker) Track(ctx context.Context, snapshot *store.Snapshot, analysis []sarif.Finding, date time.Time) (Summary, error) {
	summary := Summary{Transitions: map[string]int{}}
	tracked := snapshot.Findings
	summary.Tracked = len(tracked)

	// Live findings come first so they win over closed ones at the same
	// location. Closed findings the workflow would not bring back stay out,
	// so the analysis finding they would absorb is tracked as a new one.
	ordered := make([]*issue.Finding, 0, len(tracked))
	var closed []*issue.Finding
	for _, f := range tracked {
		switch {
		case f.Status != issue.StatusClosed:
			ordered = append(ordered, f)
		case t.workflow.CanUnclose(f):
			closed = append(closed, f)
		}
	}
	ordered = append(ordered, closed...)

	known := make([]issuecorrelation.IssueMetadata, len(ordered))
	for i, f := range ordered {
		known[i] = trackedMetadata(strconv.Itoa(i), f)
	}
	incoming := make([]issuecorrelation.IssueMetadata, len(analysis))
	for i, a := range analysis {
		incoming[i] = a.Metadata(strconv.Itoa(i))
	}

	correlator := issuecorrelation.NewCorrelator(incoming, known)
	correlator.Process()

	matched := map[*issue.Finding]bool{}
	for _, m := range correlator.Matches() {
		f := ordered[index(m.Known.IssueID)]
		refresh(f, analysis[index(m.New.IssueID)])
		matched[f] = true
		summary.Matched++
	}

	for _, f := range tracked {
		f.IsNew = false
		if matched[f] {
			continue
		}
		f.BeingClosed = true
		f.LocationsChanged = false
		_, f.OnDisabledRule = t.disabledRules[f.RuleKey]
	}

	scan := issue.NewScanContext(date)
	for _, f := range tracked {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		// Nothing brings back a closed finding that is still dead.
		if f.Status == issue.StatusClosed && f.BeingClosed {
			continue
		}

		outcome, err := t.workflow.DoAutomaticTransition(f, scan)
		if err != nil {
			t.logger.Warn("automatic transition failed", "issue", f.Key, "error", err)
			summary.Failed++
			continue
		}
		if outcome == nil {
			continue
		}

		t.logger.Info("finding moved", "issue", f.Key, "transition", outcome.Transition, "from", outcome.From, "to", outcome.To)
		summary.Transitions[outcome.Transition]++
		switch {
		case outcome.To == issue.StatusClosed:
			summary.Closed++
		case outcome.From == issue.StatusClosed:
			summary.Unclosed++
		case outcome.From == issue.StatusResolved:
			summary.Reopened++
		}
	}

	for _, m := range correlator.UnmatchedNew() {
		f := t.newFinding(analysis[index(m.IssueID)], date)
		snapshot.Findings = append(snapshot.Findings, f)
		summary.New++
		t.logger.Debug("new finding", "issue", f.Key, "rule", f.RuleKey, "file", f.FilePath)
	}

	analysisDate := date
	snapshot.AnalysisDate = &analysisDate
	return summary, nil
}

func (t *Tracker) newFinding(a sarif.Finding, date time.Time) *issue.Finding {
	status := issue.StatusOpen
	if a.Kind == issue.KindHotspot {
		status = issue.StatusToReview
	}
	f := &issue.Finding{
		Key:           t.newKey(),
		RuleKey:       a.RuleKey,
		Kind:          a.Kind,
		Type:          a.Type,
		Severity:      a.Severity,
		Message:       a.Message,
		LocationsHash: a.FlowHash,
		Status:        status,
		CreationDate:  date,
		IsNew:         true,
		Changed:       true,
	}
	f.SetLocation(a.FilePath, linePtr(a.Line), a.EndLine, a.SnippetHash)
	f.SetUpdateDate(date)
	return f
}

// refresh copies the location and the description of the analysis finding
// onto the tracked finding it was matched to.
func refresh(f *issue.Finding, a sarif.Finding) {
	f.BeingClosed = false
	f.OnDisabledRule = false
	f.LocationsChanged = f.LocationsHash != "" && a.FlowHash != "" && f.LocationsHash != a.FlowHash
	if a.FlowHash != "" {
		f.LocationsHash = a.FlowHash
	}

	f.SetLocation(a.FilePath, linePtr(a.Line), a.EndLine, a.SnippetHash)
	if a.Message != "" && f.Message != a.Message {
		f.Message = a.Message
		f.Changed = true
	}
	if a.Severity != "" && f.Severity != a.Severity {
		f.Severity = a.Severity
		f.Changed = true
	}
}

// trackedMetadata is the correlation view of a tracked finding. Closed
// findings lost their line, so the end line stands in for it.
func trackedMetadata(id string, f *issue.Finding) issuecorrelation.IssueMetadata {
	start := f.EndLine
	if f.Line != nil {
		start = *f.Line
	}
	return issuecorrelation.IssueMetadata{
		IssueID:     id,
		RuleKey:     f.RuleKey,
		Severity:    f.Severity,
		Filename:    f.FilePath,
		StartLine:   start,
		EndLine:     f.EndLine,
		SnippetHash: f.SnippetHash,
	}
}

func linePtr(line int) *int {
	if line <= 0 {
		return nil
	}
	return &line
}

func index(id string) int {
	i, _ := strconv.Atoi(id)
	return i
}
