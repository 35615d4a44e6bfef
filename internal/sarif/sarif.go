package sarif

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/spf13/afero"

	"github.com/scan-io-git/findingflow/pkg/shared/files"
)

type Report struct {
	*sarif.Report
	logger       hclog.Logger
	sourceFolder string
	fs           afero.Fs
}

type ToolMetadata struct {
	Name    string
	Version *string
}

func readSarifReport(fs afero.Fs, inputPath string) (*sarif.Report, error) {
	data, err := afero.ReadFile(fs, inputPath)
	if err != nil {
		return nil, err
	}

	var sarifReport sarif.Report
	if err := json.Unmarshal(data, &sarifReport); err != nil {
		return nil, fmt.Errorf("failed to parse SARIF report '%s': %w", inputPath, err)
	}

	return &sarifReport, nil
}

// remove all results with Suppressions property
func removeSuppressedResults(report *sarif.Report) {
	for _, run := range report.Runs {
		var filteredResults []*sarif.Result

		for _, result := range run.Results {
			if len(result.Suppressions) == 0 {
				filteredResults = append(filteredResults, result)
			}
		}

		run.Results = filteredResults
	}
}

// ReadReport loads a SARIF report. sourceFolder is the folder the analysis
// ran on: relative artifact URIs are resolved against it.
func ReadReport(fs afero.Fs, inputPath string, logger hclog.Logger, sourceFolder string, noSuppressions bool) (*Report, error) {
	sarifReport, err := readSarifReport(fs, inputPath)
	if err != nil {
		return nil, err
	}

	if noSuppressions {
		removeSuppressedResults(sarifReport)
	}

	expandedSourceFolder, err := files.ExpandPath(sourceFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to expand source folder: %w", err)
	}
	absPath, err := filepath.Abs(expandedSourceFolder)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Report{
		Report:       sarifReport,
		logger:       logger,
		sourceFolder: absPath,
		fs:           fs,
	}, nil
}

// ExtractToolNameAndVersion function extracts tool name and version from a sarif report
func (r Report) ExtractToolNameAndVersion() (*ToolMetadata, error) {
	if len(r.Runs) == 0 || r.Runs[0].Tool.Driver == nil {
		return nil, fmt.Errorf("sarif report has no tool driver")
	}
	return &ToolMetadata{
		Name:    r.Runs[0].Tool.Driver.Name,
		Version: r.Runs[0].Tool.Driver.SemanticVersion,
	}, nil
}

// calculateCodeFlowFingerprint hashes every location of every thread flow of
// a result, in order. Results without code flow have an empty fingerprint.
func calculateCodeFlowFingerprint(result *sarif.Result, sourceFolder string) string {
	var fingerprint string
	for _, codeFlow := range result.CodeFlows {
		for _, threadFlow := range codeFlow.ThreadFlows {
			fingerprint += "#"
			for _, location := range threadFlow.Locations {
				if location == nil || location.Location == nil || location.Location.PhysicalLocation == nil {
					continue
				}
				physical := location.Location.PhysicalLocation
				uri := ""
				if physical.ArtifactLocation != nil && physical.ArtifactLocation.URI != nil {
					uri = relativePath(*physical.ArtifactLocation.URI, sourceFolder)
				}
				startLine, startColumn, endLine, endColumn := regionBounds(physical.Region)
				fingerprint += fmt.Sprintf("|%s:%d:%d:%d:%d;", uri, startLine, startColumn, endLine, endColumn)
			}
		}
	}
	if fingerprint == "" {
		return ""
	}
	return calculateMD5Hash(fingerprint)
}

// function that calculates md5 hash for a given text
func calculateMD5Hash(text string) string {
	hash := md5.New()
	io.WriteString(hash, text)
	return hex.EncodeToString(hash.Sum(nil))
}

func regionBounds(region *sarif.Region) (startLine, startColumn, endLine, endColumn int) {
	if region == nil {
		return 0, 0, 0, 0
	}
	if region.StartLine != nil {
		startLine = *region.StartLine
	}
	if region.StartColumn != nil {
		startColumn = *region.StartColumn
	}
	if region.EndLine != nil {
		endLine = *region.EndLine
	} else {
		endLine = startLine
	}
	if region.EndColumn != nil {
		endColumn = *region.EndColumn
	}
	return startLine, startColumn, endLine, endColumn
}
