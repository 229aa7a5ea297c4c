package folder

import (
	"context"
	"io"
)

// File is a read-only handle to an invoice file owned by the ingestion layer.
type File interface {
	// Name returns the original filename (without directories).
	Name() string

	// Open returns a reader over the full file content.
	// The caller is responsible for closing it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Folder is one customer's set of invoice files.
type Folder struct {
	Name  string
	Files []File
}

// Filenames returns the names of the folder's files in order.
func (f Folder) Filenames() []string {
	names := make([]string, len(f.Files))
	for i, file := range f.Files {
		names[i] = file.Name()
	}
	return names
}

// Names returns the folder names in order.
func Names(folders []Folder) []string {
	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = f.Name
	}
	return names
}

// Duplicates returns folder names that occur more than once, in order of
// their second occurrence.
func Duplicates(folders []Folder) []string {
	seen := make(map[string]int, len(folders))
	var dups []string
	for _, f := range folders {
		seen[f.Name]++
		if seen[f.Name] == 2 {
			dups = append(dups, f.Name)
		}
	}
	return dups
}

// TotalFiles returns the number of files across all folders.
func TotalFiles(folders []Folder) int {
	n := 0
	for _, f := range folders {
		n += len(f.Files)
	}
	return n
}

func hidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
