package transition

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/internal/issue"
	"github.com/scan-io-git/findingflow/internal/store"
	"github.com/scan-io-git/findingflow/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/findingflow/internal/cmd"
)

// RunOptionsTransition holds the arguments of the transition command.
type RunOptionsTransition struct {
	Store      string
	Key        string
	Transition string
	User       string
}

var (
	AppConfig         *config.Config
	logger            hclog.Logger
	fs                afero.Fs
	now               = time.Now
	transitionOptions RunOptionsTransition

	exampleTransitionUsage = `  # Confirm a finding
  findingflow transition --key KEY --transition confirm --user alice

  # Mark a finding as false positive in a specific store
  findingflow transition --store /path/to/findings.yml --key KEY --transition falsepositive`

	TransitionCmd = &cobra.Command{
		Use:                   "transition --key KEY --transition NAME [--user UUID] [--store PATH]",
		Short:                 "Apply a manual transition to a finding",
		Example:               exampleTransitionUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !cmdutil.HasFlags(cmd.Flags()) {
				return cmd.Help()
			}
			return runTransition(cmd.OutOrStdout(), transitionOptions)
		},
	}
)

// Init wires config, logger and filesystem into the command package.
func Init(cfg *config.Config, l hclog.Logger, f afero.Fs) {
	AppConfig = cfg
	logger = l
	fs = f
}

func validateTransitionArgs(options *RunOptionsTransition) error {
	var missing []string
	if strings.TrimSpace(options.Key) == "" {
		missing = append(missing, "key")
	}
	if strings.TrimSpace(options.Transition) == "" {
		missing = append(missing, "transition")
	}
	if len(missing) > 0 {
		return cmdutil.MissingFlagsError(missing)
	}
	if options.Transition != strings.ToLower(options.Transition) {
		return fmt.Errorf("transition must be lower-case: %s", options.Transition)
	}
	return nil
}

func runTransition(out io.Writer, options RunOptionsTransition) error {
	if err := validateTransitionArgs(&options); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(options, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	storePath, err := cmdutil.ResolveStorePath(fs, options.Store, AppConfig)
	if err != nil {
		return errors.NewCommandError(options, err, 1)
	}

	st := store.NewFileStore(fs)
	snapshot, err := st.Load(storePath)
	if err != nil {
		logger.Error("failed to load store", "path", storePath, "error", err)
		return errors.NewCommandError(options, err, 2)
	}

	finding, err := snapshot.Find(options.Key)
	if err != nil {
		return errors.NewCommandError(options, err, 1)
	}

	wf, err := cmdutil.NewWorkflow(AppConfig, logger)
	if err != nil {
		return errors.NewCommandError(options, fmt.Errorf("failed to build workflow: %w", err), 2)
	}

	from := finding.Status
	applied, err := wf.DoManualTransition(finding, options.Transition, issue.NewUserContext(now(), options.User))
	if err != nil {
		return errors.NewCommandError(options, err, 1)
	}
	if !applied {
		return errors.NewCommandError(options, fmt.Errorf("transition %q cannot be applied to finding %s in status %s", options.Transition, finding.Key, from), 1)
	}

	if err := st.Save(storePath, snapshot); err != nil {
		logger.Error("failed to save store", "path", storePath, "error", err)
		return errors.NewCommandError(options, err, 2)
	}

	logger.Info("transition applied", "issue", finding.Key, "transition", options.Transition, "from", from, "to", finding.Status)
	if simple, ok := issue.SimpleStatus(finding); ok && simple != finding.Status {
		fmt.Fprintf(out, "%s: %s -> %s (%s)\n", finding.Key, from, finding.Status, simple)
		return nil
	}
	fmt.Fprintf(out, "%s: %s -> %s\n", finding.Key, from, finding.Status)
	return nil
}

func init() {
	TransitionCmd.Flags().StringVar(&transitionOptions.Store, "store", "", "Path to the findings store (default is tracking.store from the config)")
	TransitionCmd.Flags().StringVarP(&transitionOptions.Key, "key", "k", "", "Key of the finding")
	TransitionCmd.Flags().StringVarP(&transitionOptions.Transition, "transition", "t", "", "Key of the transition to apply (e.g. confirm, resolve, falsepositive)")
	TransitionCmd.Flags().StringVarP(&transitionOptions.User, "user", "u", "", "UUID of the user applying the transition")
	TransitionCmd.Flags().BoolP("help", "h", false, "Show help for transition command.")
}
