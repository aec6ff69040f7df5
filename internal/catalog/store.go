package catalog

import "sync/atomic"

// Store holds the current catalog snapshot. Readers take one snapshot per
// request; reloads swap the pointer and never mutate a published catalog.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store holding c.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap publishes c and returns the previous snapshot.
func (s *Store) Swap(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
