package cmd

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/internal/workflow"
	"github.com/scan-io-git/findingflow/pkg/shared/files"
)

// HasFlags reports whether any flag of the set was given on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	return flags.NFlag() > 0
}

// NewWorkflow builds the workflow configured by cfg.
func NewWorkflow(cfg *config.Config, logger hclog.Logger) (*workflow.Workflow, error) {
	repositories := workflow.DefaultTaintRuleRepositories
	if cfg != nil && cfg.Workflow.TaintRuleRepositories != nil {
		repositories = cfg.Workflow.TaintRuleRepositories
	}
	return workflow.New(workflow.NewRuleRepositoryChecker(repositories), workflow.WithLogger(logger))
}

// ResolveStorePath returns the snapshot file to use: the flag value when set,
// otherwise the configured store. A directory gets the default file name.
func ResolveStorePath(fs afero.Fs, flagValue string, cfg *config.Config) (string, error) {
	path := strings.TrimSpace(flagValue)
	if path == "" && cfg != nil {
		path = cfg.Tracking.Store
	}
	if path == "" {
		path = config.DefaultStorePath
	}

	fullPath, _, err := files.DetermineFileFullPath(fs, path, config.DefaultStorePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve store path: %w", err)
	}
	return fullPath, nil
}

// MissingFlagsError formats the list of missing required flags.
func MissingFlagsError(missing []string) error {
	return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
}
