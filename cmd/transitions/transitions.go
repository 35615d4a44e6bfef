package transitions

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/internal/store"
	"github.com/scan-io-git/findingflow/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/findingflow/internal/cmd"
)

// RunOptionsTransitions holds the arguments of the transitions command.
type RunOptionsTransitions struct {
	Store string
	Key   string
}

var (
	AppConfig          *config.Config
	logger             hclog.Logger
	fs                 afero.Fs
	transitionsOptions RunOptionsTransitions

	exampleTransitionsUsage = `  # List the transitions a user can apply to a finding
  findingflow transitions --key 0b6d7d0e-4d2c-4a4f-9c1a-2b8c5c0a7f11

  # Read findings from a specific store
  findingflow transitions --store /path/to/findings.yml --key KEY`

	TransitionsCmd = &cobra.Command{
		Use:                   "transitions --key KEY [--store PATH]",
		Short:                 "List the manual transitions available for a finding",
		Example:               exampleTransitionsUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !cmdutil.HasFlags(cmd.Flags()) {
				return cmd.Help()
			}
			return runTransitions(cmd.OutOrStdout(), transitionsOptions)
		},
	}
)

// Init wires config, logger and filesystem into the command package.
func Init(cfg *config.Config, l hclog.Logger, f afero.Fs) {
	AppConfig = cfg
	logger = l
	fs = f
}

func runTransitions(out io.Writer, options RunOptionsTransitions) error {
	if strings.TrimSpace(options.Key) == "" {
		return errors.NewCommandError(options, cmdutil.MissingFlagsError([]string{"key"}), 1)
	}

	storePath, err := cmdutil.ResolveStorePath(fs, options.Store, AppConfig)
	if err != nil {
		return errors.NewCommandError(options, err, 1)
	}

	snapshot, err := store.NewFileStore(fs).Load(storePath)
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

	outTransitions, err := wf.OutTransitions(finding)
	if err != nil {
		return errors.NewCommandError(options, err, 1)
	}

	for _, t := range outTransitions {
		if p := t.RequiredPermission(); p != "" {
			fmt.Fprintf(out, "%s -> %s (requires %s)\n", t.Key(), t.To(), p)
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", t.Key(), t.To())
	}
	return nil
}

func init() {
	TransitionsCmd.Flags().StringVar(&transitionsOptions.Store, "store", "", "Path to the findings store (default is tracking.store from the config)")
	TransitionsCmd.Flags().StringVarP(&transitionsOptions.Key, "key", "k", "", "Key of the finding")
	TransitionsCmd.Flags().BoolP("help", "h", false, "Show help for transitions command.")
}
