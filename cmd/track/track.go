package track

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/findingflow/internal/config"
	"github.com/scan-io-git/findingflow/internal/git"
	"github.com/scan-io-git/findingflow/internal/sarif"
	"github.com/scan-io-git/findingflow/internal/store"
	"github.com/scan-io-git/findingflow/internal/tracking"

	cmdutil "github.com/scan-io-git/findingflow/internal/cmd"
	cmderrors "github.com/scan-io-git/findingflow/pkg/shared/errors"
)

// RunOptionsTrack holds the arguments of the track command.
type RunOptionsTrack struct {
	Store          string
	SarifPath      string
	SourceFolder   string
	NoSuppressions bool
}

var (
	AppConfig    *config.Config
	logger       hclog.Logger
	fs           afero.Fs
	now          = time.Now
	trackOptions RunOptionsTrack

	exampleTrackUsage = `  # Track the findings of a SARIF report produced on the current folder
  findingflow track --sarif /path/to/report.sarif --source-folder .

  # Use a specific store and ignore suppressed results
  findingflow track --store /path/to/findings.yml --sarif report.sarif --source-folder /path/to/repo --no-suppressions`

	TrackCmd = &cobra.Command{
		Use:                   "track --sarif PATH --source-folder PATH [--store PATH] [--no-suppressions]",
		Short:                 "Reconcile the findings of a SARIF report with the tracked findings",
		Long: `Reconcile the findings of a SARIF report with the tracked findings.

Tracked findings missing from the report are closed, findings that come back
are reopened and new findings are added to the store.`,
		Example:               exampleTrackUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !cmdutil.HasFlags(cmd.Flags()) {
				return cmd.Help()
			}
			return runTrack(cmd.Context(), cmd.OutOrStdout(), trackOptions)
		},
	}
)

// Init wires config, logger and filesystem into the command package.
func Init(cfg *config.Config, l hclog.Logger, f afero.Fs) {
	AppConfig = cfg
	logger = l
	fs = f
}

func runTrack(ctx context.Context, out io.Writer, options RunOptionsTrack) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateTrackArgs(fs, &options); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return cmderrors.NewCommandError(options, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	storePath, err := cmdutil.ResolveStorePath(fs, options.Store, AppConfig)
	if err != nil {
		return cmderrors.NewCommandError(options, err, 1)
	}

	report, err := sarif.ReadReport(fs, options.SarifPath, logger, options.SourceFolder, options.NoSuppressions)
	if err != nil {
		logger.Error("failed to read SARIF report", "path", options.SarifPath, "error", err)
		return cmderrors.NewCommandError(options, err, 2)
	}
	if tool, err := report.ExtractToolNameAndVersion(); err == nil {
		logger.Debug("SARIF report loaded", "tool", tool.Name)
	}

	analysis, err := report.ExtractFindings()
	if err != nil {
		return cmderrors.NewCommandError(options, err, 2)
	}

	st := store.NewFileStore(fs)
	snapshot, err := st.Load(storePath)
	if err != nil {
		logger.Error("failed to load store", "path", storePath, "error", err)
		return cmderrors.NewCommandError(options, err, 2)
	}

	wf, err := cmdutil.NewWorkflow(AppConfig, logger)
	if err != nil {
		return cmderrors.NewCommandError(options, fmt.Errorf("failed to build workflow: %w", err), 2)
	}

	var disabled []string
	if AppConfig != nil {
		disabled = AppConfig.Workflow.DisabledRules
	}
	tracker := tracking.New(wf, tracking.WithLogger(logger), tracking.WithDisabledRules(disabled))

	summary, err := tracker.Track(ctx, snapshot, analysis, now())
	if err != nil {
		return cmderrors.NewCommandError(options, err, 2)
	}

	stampRevision(snapshot, options.SourceFolder)

	if err := st.Save(storePath, snapshot); err != nil {
		logger.Error("failed to save store", "path", storePath, "error", err)
		return cmderrors.NewCommandError(options, err, 2)
	}

	logger.Info("analysis tracked", "store", storePath, "findings", len(analysis), "new", summary.New, "closed", summary.Closed)
	printSummary(out, summary)
	return nil
}

// stampRevision records the revision the analysis ran on when the source
// folder is a git repository.
func stampRevision(snapshot *store.Snapshot, sourceFolder string) {
	md, err := git.CollectRepositoryMetadata(sourceFolder)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			logger.Debug("source folder is not a git repository", "path", sourceFolder)
		} else {
			logger.Warn("failed to collect repository metadata", "error", err)
		}
		return
	}
	snapshot.Revision = md.Revision()
	snapshot.Branch = md.Branch()
}

func printSummary(out io.Writer, summary tracking.Summary) {
	fmt.Fprintf(out, "tracked: %d, matched: %d, new: %d, closed: %d, unclosed: %d, reopened: %d, failed: %d\n",
		summary.Tracked, summary.Matched, summary.New, summary.Closed, summary.Unclosed, summary.Reopened, summary.Failed)

	keys := make([]string, 0, len(summary.Transitions))
	for k := range summary.Transitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %d\n", k, summary.Transitions[k])
	}
}

func init() {
	TrackCmd.Flags().StringVar(&trackOptions.Store, "store", "", "Path to the findings store (default is tracking.store from the config)")
	TrackCmd.Flags().StringVarP(&trackOptions.SarifPath, "sarif", "i", "", "Path to the SARIF report")
	TrackCmd.Flags().StringVarP(&trackOptions.SourceFolder, "source-folder", "s", "", "Folder the analysis ran on, used to resolve file paths and compute snippet hashes")
	TrackCmd.Flags().BoolVar(&trackOptions.NoSuppressions, "no-suppressions", false, "Ignore results suppressed in the SARIF report")
	TrackCmd.Flags().BoolP("help", "h", false, "Show help for track command.")
}
