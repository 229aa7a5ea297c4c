package folder

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
)

// FromDir reads customer folders from a directory on disk.
func FromDir(dir string) ([]Folder, error) {
	return FromFS(os.DirFS(dir), ".")
}

// FromFS reads customer folders from root within fsys. Each direct
// subdirectory of root becomes a Folder; its regular files (not nested
// directories) become the folder's files.
func FromFS(fsys fs.FS, root string) ([]Folder, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, errors.Join(ErrReadSource, err)
	}

	var folders []Folder
	for _, entry := range entries {
		if !entry.IsDir() || hidden(entry.Name()) {
			continue
		}

		dir := path.Join(root, entry.Name())
		children, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, errors.Join(ErrReadSource, err)
		}

		files := make([]File, 0, len(children))
		for _, child := range children {
			if child.IsDir() || hidden(child.Name()) {
				continue
			}
			files = append(files, &fsFile{
				fsys: fsys,
				path: path.Join(dir, child.Name()),
				name: child.Name(),
			})
		}

		folders = append(folders, Folder{Name: entry.Name(), Files: files})
	}

	if len(folders) == 0 {
		return nil, ErrNoFolders
	}
	return folders, nil
}

type fsFile struct {
	fsys fs.FS
	path string
	name string
}

func (f *fsFile) Name() string { return f.name }

func (f *fsFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.fsys.Open(f.path)
}
