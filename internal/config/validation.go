package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateWorkflowConfig(&cfg.Workflow); err != nil {
		return fmt.Errorf("YAML global config: workflow directive is invalid: %w", err)
	}
	if err := ValidateTrackingConfig(&cfg.Tracking); err != nil {
		return fmt.Errorf("YAML global config: tracking directive is invalid: %w", err)
	}
	return nil
}

// ValidateWorkflowConfig checks rule repositories and disabled rule keys.
func ValidateWorkflowConfig(wf *Workflow) error {
	if wf == nil {
		return fmt.Errorf("workflow configuration is nil")
	}
	for i, repo := range wf.TaintRuleRepositories {
		if strings.TrimSpace(repo) == "" {
			return fmt.Errorf("taint_rule_repositories[%d] must not be empty", i)
		}
	}
	for _, rule := range wf.DisabledRules {
		repo, key, found := strings.Cut(rule, ":")
		if !found || repo == "" || key == "" {
			return fmt.Errorf("disabled rule '%s' must have the 'repository:rule' form", rule)
		}
	}
	return nil
}

// ValidateTrackingConfig checks the snapshot location.
func ValidateTrackingConfig(tr *Tracking) error {
	if tr == nil {
		return fmt.Errorf("tracking configuration is nil")
	}
	if strings.TrimSpace(tr.Store) == "" {
		return fmt.Errorf("store path must be set")
	}
	return nil
}
