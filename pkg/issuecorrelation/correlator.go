package issuecorrelation

// IssueMetadata describes the minimal metadata required to correlate issues.
// Fields:
//   - IssueID: identifier of the issue for the caller, not used by correlation logic.
//   - RuleKey: "repository:rule" key of the rule that raised the issue.
//   - Filename, StartLine, EndLine: location information inside a file.
//   - SnippetHash: optional code snippet fingerprint used for stronger matching.
type IssueMetadata struct {
	IssueID     string
	RuleKey     string
	Severity    string
	Filename    string
	StartLine   int
	EndLine     int
	SnippetHash string
}

// Match pairs a known issue with the new issue it was correlated to.
type Match struct {
	Known IssueMetadata
	New   IssueMetadata
}

// Correlator pairs the issues of a new analysis with known (tracked) issues.
// Use NewCorrelator to create an instance and call Process() to compute
// matches. After processing, use Matches(), UnmatchedNew() and
// UnmatchedKnown() to inspect results.
//
// Pairing is one-to-one: a known issue is matched to at most one new issue
// and the other way round. Within a stage, known issues are served in the
// order they were given, so callers put the issues they prefer to keep alive
// first.
type Correlator struct {
	NewIssues   []IssueMetadata
	KnownIssues []IssueMetadata

	// internal indexes populated by Process()
	knownToNew map[int]int
	newToKnown map[int]int

	processed bool
}

// NewCorrelator constructs a Correlator with the provided slices of new and
// known issues. The correlator is inert until Process() is called.
func NewCorrelator(newIssues, knownIssues []IssueMetadata) *Correlator {
	return &Correlator{
		NewIssues:   newIssues,
		KnownIssues: knownIssues,
	}
}

// Process computes correlations using four ordered stages. Once a known or
// new issue has been matched in an earlier stage it is excluded from later
// stages. The stages are:
// 1) rulekey+filename+startline+endline+snippethash
// 2) rulekey+filename+snippethash
// 3) rulekey+filename+startline+endline
// 4) rulekey+filename+startline
// Process is idempotent.
func (c *Correlator) Process() {
	if c.processed {
		return
	}
	c.knownToNew = make(map[int]int)
	c.newToKnown = make(map[int]int)

	for _, stage := range []int{1, 2, 3, 4} {
		for ki, k := range c.KnownIssues {
			if _, ok := c.knownToNew[ki]; ok {
				continue
			}
			for ni, n := range c.NewIssues {
				if _, ok := c.newToKnown[ni]; ok {
					continue
				}
				if matchStage(k, n, stage) {
					c.knownToNew[ki] = ni
					c.newToKnown[ni] = ki
					break
				}
			}
		}
	}

	c.processed = true
}

// matchStage applies the specified stage matching rules. It returns true when
// the two IssueMetadata values should be considered a match for the given
// stage. RuleKey must be present for all stages and snippet stages require a
// snippet hash on both sides.
func matchStage(a, b IssueMetadata, stage int) bool {
	if a.RuleKey == "" || b.RuleKey == "" {
		return false
	}
	if a.RuleKey != b.RuleKey {
		return false
	}
	if a.Filename != b.Filename {
		return false
	}

	sameSnippet := a.SnippetHash != "" && a.SnippetHash == b.SnippetHash

	switch stage {
	case 1:
		return a.StartLine == b.StartLine && a.EndLine == b.EndLine && sameSnippet
	case 2:
		return sameSnippet
	case 3:
		return a.StartLine == b.StartLine && a.EndLine == b.EndLine
	case 4:
		return a.StartLine == b.StartLine
	default:
		return false
	}
}

// UnmatchedNew returns the new issues that were not correlated to any known
// issue, in their original order. Process() is invoked if needed.
func (c *Correlator) UnmatchedNew() []IssueMetadata {
	c.Process()

	var out []IssueMetadata
	for ni, n := range c.NewIssues {
		if _, ok := c.newToKnown[ni]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// UnmatchedKnown returns the known issues that were not correlated to any
// new issue, in their original order. Process() is invoked if needed.
func (c *Correlator) UnmatchedKnown() []IssueMetadata {
	c.Process()

	var out []IssueMetadata
	for ki, k := range c.KnownIssues {
		if _, ok := c.knownToNew[ki]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// Matches returns the correlated pairs ordered like the known issues.
// Process() is invoked if needed.
func (c *Correlator) Matches() []Match {
	c.Process()

	var out []Match
	for ki, k := range c.KnownIssues {
		ni, ok := c.knownToNew[ki]
		if !ok {
			continue
		}
		out = append(out, Match{Known: k, New: c.NewIssues[ni]})
	}
	return out
}
