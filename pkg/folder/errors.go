package folder

import "errors"

var (
	// ErrNoFolders is returned when a source contains no customer folders.
	ErrNoFolders = errors.New("folder: no folders found")

	// ErrReadSource is returned when the ingestion source cannot be listed.
	ErrReadSource = errors.New("folder: failed to read source")
)
