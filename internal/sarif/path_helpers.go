package sarif

import (
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

// PathWithin checks if a path is within another path (root).
// Returns true if path is within root, or if root is empty.
func PathWithin(path, root string) bool {
	if root == "" {
		return true
	}
	cleanPath, err1 := filepath.Abs(path)
	cleanRoot, err2 := filepath.Abs(root)
	if err1 != nil || err2 != nil {
		cleanPath = filepath.Clean(path)
		cleanRoot = filepath.Clean(root)
	}
	if cleanPath == cleanRoot {
		return true
	}
	rootWithSep := cleanRoot + string(filepath.Separator)
	return strings.HasPrefix(cleanPath, rootWithSep)
}

// normaliseURI turns a SARIF artifact URI into a cleaned path using the host
// OS separators.
func normaliseURI(rawURI string) string {
	rawURI = strings.TrimSpace(rawURI)
	if rawURI == "" {
		return ""
	}
	osURI := strings.TrimPrefix(rawURI, "file://")
	return filepath.Clean(filepath.FromSlash(osURI))
}

// relativePath converts an artifact URI to a forward-slash path relative to
// the source folder. URIs outside of the source folder keep their absolute
// form without the leading separator.
func relativePath(rawURI, sourceFolder string) string {
	cleanURI := normaliseURI(rawURI)
	if cleanURI == "" {
		return ""
	}

	if !filepath.IsAbs(cleanURI) {
		return strings.TrimPrefix(filepath.ToSlash(cleanURI), "./")
	}

	if sourceFolder != "" && PathWithin(cleanURI, sourceFolder) {
		if rel, err := filepath.Rel(sourceFolder, cleanURI); err == nil && rel != "." {
			return filepath.ToSlash(rel)
		}
	}
	return strings.TrimLeft(filepath.ToSlash(cleanURI), "/")
}

// localPath determines the filesystem path of an artifact URI, used to read
// the flagged code.
func localPath(rawURI, sourceFolder string) string {
	cleanURI := normaliseURI(rawURI)
	if cleanURI == "" {
		return ""
	}
	if filepath.IsAbs(cleanURI) || sourceFolder == "" {
		return cleanURI
	}
	return filepath.Join(sourceFolder, cleanURI)
}

// ExtractFileURIFromResult derives both the source-relative path and the local
// filesystem path for the first location in a SARIF result.
func ExtractFileURIFromResult(res *sarif.Result, absSourceFolder string) (string, string) {
	if res == nil || len(res.Locations) == 0 {
		return "", ""
	}
	loc := res.Locations[0]
	if loc.PhysicalLocation == nil {
		return "", ""
	}
	art := loc.PhysicalLocation.ArtifactLocation
	if art == nil || art.URI == nil {
		return "", ""
	}
	rawURI := strings.TrimSpace(*art.URI)
	if rawURI == "" {
		return "", ""
	}
	return relativePath(rawURI, absSourceFolder), localPath(rawURI, absSourceFolder)
}

// ExtractRegionFromResult returns start and end line numbers (0 when not
// present) of the first location of a result. A missing end line defaults to
// the start line.
func ExtractRegionFromResult(res *sarif.Result) (int, int) {
	if res == nil || len(res.Locations) == 0 {
		return 0, 0
	}
	loc := res.Locations[0]
	if loc.PhysicalLocation == nil {
		return 0, 0
	}
	start, _, end, _ := regionBounds(loc.PhysicalLocation.Region)
	return start, end
}
