package workflow

import (
	"strings"

	"github.com/scan-io-git/findingflow/internal/issue"
)

// TaintChecker tells whether a finding is a taint vulnerability, whose data
// flow may change between two analyses.
type TaintChecker interface {
	IsTaintVulnerability(f *issue.Finding) bool
}

// DefaultTaintRuleRepositories are the rule repositories of the taint analyzers.
var DefaultTaintRuleRepositories = []string{
	"javasecurity",
	"jssecurity",
	"tssecurity",
	"phpsecurity",
	"pythonsecurity",
	"roslyn.sonaranalyzer.security.cs",
}

// RuleRepositoryChecker flags vulnerabilities raised by rules of a known set
// of repositories.
type RuleRepositoryChecker struct {
	repositories map[string]struct{}
}

// NewRuleRepositoryChecker returns a checker for the given rule repositories.
func NewRuleRepositoryChecker(repositories []string) *RuleRepositoryChecker {
	c := &RuleRepositoryChecker{repositories: make(map[string]struct{}, len(repositories))}
	for _, r := range repositories {
		c.repositories[r] = struct{}{}
	}
	return c
}

// IsTaintVulnerability implements TaintChecker.
func (c *RuleRepositoryChecker) IsTaintVulnerability(f *issue.Finding) bool {
	if f.Type != issue.TypeVulnerability {
		return false
	}
	_, ok := c.repositories[RuleRepository(f.RuleKey)]
	return ok
}

// RuleRepository returns the repository part of a "repository:rule" key.
func RuleRepository(ruleKey string) string {
	repo, _, found := strings.Cut(ruleKey, ":")
	if !found {
		return ""
	}
	return repo
}

type noTaint struct{}

func (noTaint) IsTaintVulnerability(*issue.Finding) bool { return false }
