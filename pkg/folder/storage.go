package folder

import (
	"context"
	"errors"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/rjcompany/nfmailer/pkg/storage"
)

// ObjectReader is the subset of storage.Storage used to ingest folders.
type ObjectReader interface {
	List(ctx context.Context, prefix string) ([]storage.FileInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// FromStorage reads customer folders from keys shaped "<prefix>/<client>/<file>".
// Keys directly under prefix and keys nested deeper than one level are ignored.
func FromStorage(ctx context.Context, store ObjectReader, prefix string) ([]Folder, error) {
	prefix = strings.Trim(prefix, "/")
	listPrefix := prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	objects, err := store.List(ctx, listPrefix)
	if err != nil {
		return nil, errors.Join(ErrReadSource, err)
	}

	var folders []Folder
	index := make(map[string]int)
	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.Key, listPrefix)
		client, name, ok := strings.Cut(rel, "/")
		if !ok || client == "" || name == "" || strings.Contains(name, "/") {
			continue
		}
		if hidden(client) || hidden(name) {
			continue
		}

		i, exists := index[client]
		if !exists {
			i = len(folders)
			index[client] = i
			folders = append(folders, Folder{Name: client})
		}
		folders[i].Files = append(folders[i].Files, &objectFile{
			store: store,
			key:   obj.Key,
			name:  path.Base(name),
		})
	}

	if len(folders) == 0 {
		return nil, ErrNoFolders
	}

	slices.SortStableFunc(folders, func(a, b Folder) int { return strings.Compare(a.Name, b.Name) })
	for _, f := range folders {
		slices.SortStableFunc(f.Files, func(a, b File) int { return strings.Compare(a.Name(), b.Name()) })
	}
	return folders, nil
}

type objectFile struct {
	store ObjectReader
	key   string
	name  string
}

func (f *objectFile) Name() string { return f.name }

func (f *objectFile) Open(ctx context.Context) (io.ReadCloser, error) {
	return f.store.Get(ctx, f.key)
}
