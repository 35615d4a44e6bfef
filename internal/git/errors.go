package git

import "errors"

// Repo errors
var (
	ErrSourceFolderNotSet = errors.New("source folder is not set")
	ErrNotRepository      = errors.New("source folder is not a git repository")
)
