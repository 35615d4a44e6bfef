package sarif

import (
	"fmt"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scan-io-git/findingflow/internal/issue"
	"github.com/scan-io-git/findingflow/pkg/issuecorrelation"
)

// Finding is a single result of an analysis, ready to be correlated with
// tracked findings.
type Finding struct {
	RuleKey     string
	Kind        issue.Kind
	Type        issue.Type
	Severity    string
	Message     string
	FilePath    string
	Line        int
	EndLine     int
	SnippetHash string
	// FlowHash fingerprints the code flow of the result. Empty when the
	// result has none.
	FlowHash string
}

// Metadata returns the correlation view of the finding. id identifies it for
// the caller.
func (f Finding) Metadata(id string) issuecorrelation.IssueMetadata {
	return issuecorrelation.IssueMetadata{
		IssueID:     id,
		RuleKey:     f.RuleKey,
		Severity:    f.Severity,
		Filename:    f.FilePath,
		StartLine:   f.Line,
		EndLine:     f.EndLine,
		SnippetHash: f.SnippetHash,
	}
}

// EnrichResultsLevelProperty stores the effective level of every result in
// its "Level" property.
func (r Report) EnrichResultsLevelProperty() {
	for _, run := range r.Runs {
		rulesMap := rulesByID(run)

		for _, result := range run.Results {
			if result.Properties == nil {
				result.Properties = make(map[string]interface{})
			}
			if result.Properties["Level"] != nil {
				continue
			}
			rule := rulesMap[ruleID(result)]
			switch {
			case result.Level != nil:
				// used by snyk
				result.Properties["Level"] = *result.Level
			case rule != nil && rule.Properties["problem.severity"] != nil:
				// used by codeql
				result.Properties["Level"] = rule.Properties["problem.severity"]
			case rule != nil && rule.DefaultConfiguration != nil:
				result.Properties["Level"] = rule.DefaultConfiguration.Level
			default:
				result.Properties["Level"] = "unknown"
			}
		}
	}
}

// ExtractFindings flattens every result of the report into findings. Results
// without a rule id are skipped.
func (r Report) ExtractFindings() ([]Finding, error) {
	if r.Report == nil || len(r.Runs) == 0 {
		return nil, fmt.Errorf("sarif report has no runs")
	}

	r.EnrichResultsLevelProperty()

	var findings []Finding
	for _, run := range r.Runs {
		toolName := ""
		if run.Tool.Driver != nil {
			toolName = run.Tool.Driver.Name
		}
		rules := rulesByID(run)

		for i, res := range run.Results {
			id := ruleID(res)
			if id == "" {
				r.logger.Warn("SARIF result missing rule ID, skipping", "result_index", i)
				continue
			}

			filePath, local := ExtractFileURIFromResult(res, r.sourceFolder)
			if filePath == "" {
				r.logger.Warn("SARIF result missing file URI", "rule_id", id)
			}
			line, endLine := ExtractRegionFromResult(res)

			snippetHash := issuecorrelation.ComputeSnippetHash(r.fs, local, line, endLine)
			if snippetHash == "" && filePath != "" && line > 0 {
				r.logger.Debug("failed to compute snippet hash", "rule_id", id, "file", filePath, "line", line)
			}

			kind, typ := classify(rules[id])
			level, _ := res.Properties["Level"].(string)

			findings = append(findings, Finding{
				RuleKey:     ruleKey(toolName, id),
				Kind:        kind,
				Type:        typ,
				Severity:    displaySeverity(level),
				Message:     resultMessage(res),
				FilePath:    filePath,
				Line:        line,
				EndLine:     endLine,
				SnippetHash: snippetHash,
				FlowHash:    calculateCodeFlowFingerprint(res, r.sourceFolder),
			})
		}
	}
	return findings, nil
}

func rulesByID(run *sarif.Run) map[string]*sarif.ReportingDescriptor {
	rules := map[string]*sarif.ReportingDescriptor{}
	if run.Tool.Driver == nil {
		return rules
	}
	for _, rule := range run.Tool.Driver.Rules {
		if rule == nil {
			continue
		}
		if id := strings.TrimSpace(rule.ID); id != "" {
			rules[id] = rule
		}
	}
	return rules
}

func ruleID(res *sarif.Result) string {
	if res.RuleID == nil {
		return ""
	}
	return strings.TrimSpace(*res.RuleID)
}

// ruleKey builds the "repository:rule" key of a result. Rule ids that
// already name their repository are kept as they are.
func ruleKey(toolName, id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	repo := strings.ToLower(strings.Join(strings.Fields(toolName), ""))
	if repo == "" {
		repo = "sarif"
	}
	return repo + ":" + id
}

// classify derives the kind and type of the findings raised by a rule from
// its "type" property, then from its tags.
func classify(rule *sarif.ReportingDescriptor) (issue.Kind, issue.Type) {
	if rule == nil {
		return issue.KindStandard, issue.TypeCodeSmell
	}

	if typ, ok := rule.Properties["type"].(string); ok {
		switch strings.ToUpper(strings.TrimSpace(typ)) {
		case "SECURITY_HOTSPOT":
			return issue.KindHotspot, ""
		case string(issue.TypeVulnerability):
			return issue.KindStandard, issue.TypeVulnerability
		case string(issue.TypeBug):
			return issue.KindStandard, issue.TypeBug
		case string(issue.TypeCodeSmell):
			return issue.KindStandard, issue.TypeCodeSmell
		}
	}

	tags := ruleTags(rule)
	switch {
	case tags["security-hotspot"]:
		return issue.KindHotspot, ""
	case tags["vulnerability"], tags["security"]:
		return issue.KindStandard, issue.TypeVulnerability
	case tags["bug"]:
		return issue.KindStandard, issue.TypeBug
	default:
		return issue.KindStandard, issue.TypeCodeSmell
	}
}

func ruleTags(rule *sarif.ReportingDescriptor) map[string]bool {
	tags := map[string]bool{}
	switch raw := rule.Properties["tags"].(type) {
	case []interface{}:
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tags[strings.ToLower(strings.TrimSpace(s))] = true
			}
		}
	case []string:
		for _, s := range raw {
			tags[strings.ToLower(strings.TrimSpace(s))] = true
		}
	}
	return tags
}

func resultMessage(res *sarif.Result) string {
	if res.Message.Text != nil {
		return strings.TrimSpace(*res.Message.Text)
	}
	if res.Message.Markdown != nil {
		return strings.TrimSpace(*res.Message.Markdown)
	}
	return ""
}

// displaySeverity normalizes SARIF severity levels to more descriptive labels.
func displaySeverity(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "error":
		return "High"
	case "warning":
		return "Medium"
	case "note":
		return "Low"
	case "none":
		return "Info"
	case "", "unknown":
		return ""
	default:
		return cases.Title(language.Und).String(normalized)
	}
}
