// Package store persists snapshots of tracked findings as YAML documents.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/scan-io-git/findingflow/internal/issue"
)

var ErrFindingNotFound = errors.New("finding not found")

// Snapshot is the state of the findings tracked for a project after the last
// analysis or manual change.
type Snapshot struct {
	Revision     string           `yaml:"revision,omitempty"`
	Branch       string           `yaml:"branch,omitempty"`
	AnalysisDate *time.Time       `yaml:"analysis_date,omitempty"`
	Findings     []*issue.Finding `yaml:"findings"`
}

// Find returns the finding with the given key.
func (s *Snapshot) Find(key string) (*issue.Finding, error) {
	for _, f := range s.Findings {
		if f.Key == key {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFindingNotFound, key)
}

// FileStore reads and writes snapshots on a filesystem.
type FileStore struct {
	FS afero.Fs
}

func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{FS: fs}
}

// Load reads the snapshot stored at path. A missing file is an empty snapshot.
func (s *FileStore) Load(path string) (*Snapshot, error) {
	data, err := afero.ReadFile(s.FS, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read store %q: %w", path, err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse store %q: %w", path, err)
	}
	return &snapshot, nil
}

// Save writes the snapshot to path. The change recorded on each finding since
// it was loaded is appended to its history first.
func (s *FileStore) Save(path string, snapshot *Snapshot) error {
	for _, f := range snapshot.Findings {
		f.FlushCurrentChange()
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	return writeFileAtomic(s.FS, path, data)
}

// writeFileAtomic writes data to a temp file next to path, then renames it.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
