package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/findingflow/cmd/statuses"
	"github.com/scan-io-git/findingflow/cmd/track"
	"github.com/scan-io-git/findingflow/cmd/transition"
	"github.com/scan-io-git/findingflow/cmd/transitions"
	"github.com/scan-io-git/findingflow/cmd/version"
	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/internal/logger"

	cmderrors "github.com/scan-io-git/findingflow/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	Logger    hclog.Logger
	rootCmd   = &cobra.Command{
		Use:                   "findingflow [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Findingflow tracks the lifecycle of static analysis findings.",
		Long: `Findingflow tracks the lifecycle of static analysis findings.

Each analysis is reconciled with the tracked findings: findings are opened,
closed, reopened and resurrected by the workflow, and users move them with
manual transitions.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.AddCommand(
		statuses.StatusesCmd,
		transitions.TransitionsCmd,
		transition.TransitionCmd,
		track.TrackCmd,
		version.NewVersionCmd(),
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		var cmdErr *cmderrors.CommandError
		if errors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	var err error
	AppConfig, err = config.Load(fs, cfgFile, cfgFile != "")
	if err != nil {
		return cmderrors.NewCommandError(nil, err, 1)
	}
	Logger = logger.NewLogger(AppConfig, "core")

	statuses.Init(AppConfig, Logger)
	transitions.Init(AppConfig, Logger, fs)
	transition.Init(AppConfig, Logger, fs)
	track.Init(AppConfig, Logger, fs)
	return nil
}
