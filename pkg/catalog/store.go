package catalog

import (
	"context"
	"sync/atomic"
)

// Loader loads a catalog snapshot from some backing source: a schema
// file or a live database.
type Loader interface {
	Load(ctx context.Context) (*Catalog, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Catalog, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*Catalog, error) {
	return f(ctx)
}

// Store holds the current catalog snapshot and swaps it atomically on
// reload. Readers always see a complete snapshot; a failed reload
// leaves the previous snapshot in place.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a store holding the given initial snapshot. A nil
// catalog is replaced by an empty one.
func NewStore(initial *Catalog) *Store {
	if initial == nil {
		initial = New()
	}
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the current catalog snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap replaces the current snapshot. Nil catalogs are ignored.
func (s *Store) Swap(c *Catalog) {
	if c == nil {
		return
	}
	s.current.Store(c)
}

// Reload loads a fresh snapshot from the loader and swaps it in. On
// error the current snapshot is kept.
func (s *Store) Reload(ctx context.Context, loader Loader) error {
	c, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	s.Swap(c)
	return nil
}
