package statuses

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/findingflow/internal/cmd"
)

var (
	AppConfig *config.Config
	logger    hclog.Logger

	StatusesCmd = &cobra.Command{
		Use:                   "statuses",
		Short:                 "List the statuses declared by the workflows",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatuses(cmd.OutOrStdout())
		},
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runStatuses(out io.Writer) error {
	wf, err := cmdutil.NewWorkflow(AppConfig, logger)
	if err != nil {
		return errors.NewCommandError(nil, fmt.Errorf("failed to build workflow: %w", err), 2)
	}
	for _, status := range wf.StatusKeys() {
		fmt.Fprintln(out, status)
	}
	return nil
}
