package folder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"slices"
	"strings"
)

// MemFile is a File held in memory.
type MemFile struct {
	name string
	data []byte
}

// NewMemFile creates an in-memory file.
func NewMemFile(name string, data []byte) *MemFile {
	return &MemFile{name: name, data: data}
}

func (f *MemFile) Name() string { return f.name }

func (f *MemFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// FromMultipart builds folders from an uploaded multipart form.
// Every file field name is a folder name and every file under it becomes
// one of that folder's files. File content is copied into memory because
// multipart temporary files do not outlive the request.
func FromMultipart(form *multipart.Form) ([]Folder, error) {
	if form == nil || len(form.File) == 0 {
		return nil, ErrNoFolders
	}

	names := make([]string, 0, len(form.File))
	for name := range form.File {
		if name == "" || hidden(name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	folders := make([]Folder, 0, len(names))
	for _, name := range names {
		headers := slices.Clone(form.File[name])
		slices.SortStableFunc(headers, func(a, b *multipart.FileHeader) int {
			return strings.Compare(a.Filename, b.Filename)
		})

		files := make([]File, 0, len(headers))
		for _, fh := range headers {
			if hidden(fh.Filename) {
				continue
			}
			data, err := readHeader(fh)
			if err != nil {
				return nil, errors.Join(ErrReadSource, fmt.Errorf("%s/%s: %w", name, fh.Filename, err))
			}
			files = append(files, NewMemFile(fh.Filename, data))
		}
		folders = append(folders, Folder{Name: name, Files: files})
	}

	if len(folders) == 0 {
		return nil, ErrNoFolders
	}
	return folders, nil
}

func readHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
