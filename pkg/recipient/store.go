package recipient

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rjcompany/nfmailer/pkg/cache"
)

// Store is a read-through lookup of overrides keyed by folder name.
type Store interface {
	// Get returns the override for folder, or nil when none is set.
	Get(ctx context.Context, folder string) (*Override, error)
	Set(ctx context.Context, folder string, o Override) error
	Delete(ctx context.Context, folder string) error
	// All returns every override currently set.
	All(ctx context.Context) (map[string]Override, error)
	Clear(ctx context.Context) error
}

// CacheStore is a Store backed by a cache.Cache (memory or Redis).
type CacheStore struct {
	cache cache.Cache[Override]
}

// NewStore wraps c as a Store. Entries never expire.
func NewStore(c cache.Cache[Override]) *CacheStore {
	return &CacheStore{cache: c}
}

// NewMemoryStore returns a process-local Store.
func NewMemoryStore() *CacheStore {
	return NewStore(cache.NewMemory[Override](cache.WithCleanupInterval(0)))
}

// Get implements Store.
func (s *CacheStore) Get(ctx context.Context, folder string) (*Override, error) {
	o, err := s.cache.Get(ctx, folder)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return &o, nil
}

// Set implements Store.
func (s *CacheStore) Set(ctx context.Context, folder string, o Override) error {
	if err := s.cache.Set(ctx, folder, o, -1); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Delete implements Store.
func (s *CacheStore) Delete(ctx context.Context, folder string) error {
	if err := s.cache.Delete(ctx, folder); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// All implements Store.
func (s *CacheStore) All(ctx context.Context) (map[string]Override, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return entries, nil
}

// Clear implements Store.
func (s *CacheStore) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Close releases the underlying cache.
func (s *CacheStore) Close() error {
	return s.cache.Close()
}

var _ Store = (*CacheStore)(nil)

// LoadFile reads a YAML map of folder name to override:
//
//	ACME:
//	  email: fin@acme.com
//	  use_override: true
func LoadFile(path string) (map[string]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return Parse(data)
}

// Parse decodes the YAML overrides format read by LoadFile.
func Parse(data []byte) (map[string]Override, error) {
	out := make(map[string]Override)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return out, nil
}

// Import stores every override in overrides.
func Import(ctx context.Context, s Store, overrides map[string]Override) error {
	for folder, o := range overrides {
		if err := s.Set(ctx, folder, o); err != nil {
			return fmt.Errorf("import override %q: %w", folder, err)
		}
	}
	return nil
}

// ResolveFor looks up folder's override in s and resolves it against global.
func ResolveFor(ctx context.Context, s Store, folder, global string) (string, error) {
	o, err := s.Get(ctx, folder)
	if err != nil {
		return "", err
	}
	return Resolve(o, global), nil
}
