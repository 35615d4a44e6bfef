package issuecorrelation

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// ComputeSnippetHash reads the snippet (single line or range) from a file
// and returns its SHA256 hex string. Returns empty string on any error or if inputs are invalid.
func ComputeSnippetHash(fs afero.Fs, localPath string, line, endLine int) string {
	if strings.TrimSpace(localPath) == "" || line <= 0 {
		return ""
	}
	data, err := afero.ReadFile(fs, localPath)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	start := line
	end := line
	if endLine > line {
		end = endLine
	}
	// 1-based line numbers
	if start > len(lines) {
		return ""
	}
	if end > len(lines) {
		end = len(lines)
	}
	snippet := strings.Join(lines[start-1:end], "\n")
	sum := sha256.Sum256([]byte(snippet))
	return fmt.Sprintf("%x", sum[:])
}
