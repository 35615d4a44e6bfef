package issue

import "time"

// Kind selects the workflow a finding follows.
type Kind string

const (
	KindStandard Kind = "STANDARD"
	KindHotspot  Kind = "HOTSPOT"
)

// Type further classifies standard findings.
type Type string

const (
	TypeBug           Type = "BUG"
	TypeVulnerability Type = "VULNERABILITY"
	TypeCodeSmell     Type = "CODE_SMELL"
)

// Statuses declared by the standard and hotspot workflows.
const (
	StatusOpen      = "OPEN"
	StatusConfirmed = "CONFIRMED"
	StatusReopened  = "REOPENED"
	StatusResolved  = "RESOLVED"
	StatusClosed    = "CLOSED"
	StatusInSandbox = "IN_SANDBOX"
	StatusToReview  = "TO_REVIEW"
	StatusReviewed  = "REVIEWED"
)

// Resolutions. An empty resolution means the finding has none.
const (
	ResolutionFixed         = "FIXED"
	ResolutionWontFix       = "WONT_FIX"
	ResolutionFalsePositive = "FALSE_POSITIVE"
	ResolutionRemoved       = "REMOVED"
	ResolutionSafe          = "SAFE"
	ResolutionAcknowledged  = "ACKNOWLEDGED"
)

// Finding is a tracked quality issue or security hotspot.
//
// Persisted fields carry yaml tags. Flags computed for a single analysis
// (IsNew, BeingClosed, OnDisabledRule, LocationsChanged) and the bookkeeping
// of the ongoing call (Changed, SendNotifications, CurrentChange) are not
// persisted as such: the current change is appended to History by whoever
// stores the finding.
type Finding struct {
	Key           string `yaml:"key"`
	RuleKey       string `yaml:"rule_key"`
	Kind          Kind   `yaml:"kind"`
	Type          Type   `yaml:"type,omitempty"`
	Severity      string `yaml:"severity,omitempty"`
	Message       string `yaml:"message,omitempty"`
	FilePath      string `yaml:"file_path,omitempty"`
	Line          *int   `yaml:"line,omitempty"`
	EndLine       int    `yaml:"end_line,omitempty"`
	SnippetHash   string `yaml:"snippet_hash,omitempty"`
	LocationsHash string `yaml:"locations_hash,omitempty"`

	Status     string `yaml:"status"`
	Resolution string `yaml:"resolution,omitempty"`
	Assignee   string `yaml:"assignee,omitempty"`

	CreationDate time.Time  `yaml:"creation_date"`
	UpdateDate   *time.Time `yaml:"update_date,omitempty"`
	CloseDate    *time.Time `yaml:"close_date,omitempty"`

	// FromHotspot marks a vulnerability that was raised from a reviewed hotspot.
	FromHotspot bool      `yaml:"from_hotspot,omitempty"`
	Comments    []Comment `yaml:"comments,omitempty"`
	History     []Change  `yaml:"history,omitempty"`

	IsNew            bool `yaml:"-"`
	BeingClosed      bool `yaml:"-"`
	OnDisabledRule   bool `yaml:"-"`
	LocationsChanged bool `yaml:"-"`

	Changed           bool    `yaml:"-"`
	SendNotifications bool    `yaml:"-"`
	CurrentChange     *Change `yaml:"-"`
}

// IsHotspot reports whether the finding follows the hotspot workflow.
func (f *Finding) IsHotspot() bool {
	return f.Kind == KindHotspot
}

// HasResolution reports whether the current resolution is one of the given ones.
func (f *Finding) HasResolution(resolutions ...string) bool {
	for _, r := range resolutions {
		if f.Resolution == r {
			return true
		}
	}
	return false
}

// SetUpdateDate sets the update date with whole-second precision.
func (f *Finding) SetUpdateDate(t time.Time) {
	truncated := t.Truncate(time.Second)
	f.UpdateDate = &truncated
}

// FlushCurrentChange appends the change recorded during the last calls to the
// history and resets the per-call bookkeeping. Callers use it once the
// finding has been stored.
func (f *Finding) FlushCurrentChange() {
	if f.CurrentChange != nil && len(f.CurrentChange.Diffs) > 0 {
		f.History = append(f.History, *f.CurrentChange)
	}
	f.CurrentChange = nil
	f.Changed = false
	f.SendNotifications = false
}

// Clone returns a deep copy of the finding.
func (f *Finding) Clone() *Finding {
	c := *f
	if f.Line != nil {
		line := *f.Line
		c.Line = &line
	}
	if f.UpdateDate != nil {
		d := *f.UpdateDate
		c.UpdateDate = &d
	}
	if f.CloseDate != nil {
		d := *f.CloseDate
		c.CloseDate = &d
	}
	if f.Comments != nil {
		c.Comments = append([]Comment(nil), f.Comments...)
	}
	if f.History != nil {
		c.History = make([]Change, len(f.History))
		for i, ch := range f.History {
			c.History[i] = ch.clone()
		}
	}
	if f.CurrentChange != nil {
		cc := f.CurrentChange.clone()
		c.CurrentChange = &cc
	}
	return &c
}
