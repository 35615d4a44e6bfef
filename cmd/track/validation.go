package track

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	cmdutil "github.com/scan-io-git/findingflow/internal/cmd"
	"github.com/scan-io-git/findingflow/pkg/shared/files"
)

// validateTrackArgs validates the required command options.
func validateTrackArgs(fs afero.Fs, options *RunOptionsTrack) error {
	var missing []string
	if strings.TrimSpace(options.SarifPath) == "" {
		missing = append(missing, "sarif")
	}
	if strings.TrimSpace(options.SourceFolder) == "" {
		missing = append(missing, "source-folder")
	}
	if len(missing) > 0 {
		return cmdutil.MissingFlagsError(missing)
	}

	sarifPath, err := files.ExpandPath(options.SarifPath)
	if err != nil {
		return err
	}
	if err := files.ValidatePath(fs, sarifPath); err != nil {
		return fmt.Errorf("invalid sarif report: %w", err)
	}
	options.SarifPath = sarifPath

	sourceFolder, err := files.ExpandPath(options.SourceFolder)
	if err != nil {
		return err
	}
	if err := files.ValidateDir(fs, sourceFolder); err != nil {
		return fmt.Errorf("invalid source folder: %w", err)
	}
	options.SourceFolder = sourceFolder
	return nil
}
