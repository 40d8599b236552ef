package content

import "sync/atomic"

// Store holds the collection currently being served. A reload never mutates
// a collection; it swaps in a new one.
type Store struct {
	current atomic.Pointer[Collection]
}

// NewStore creates a store serving c.
func NewStore(c *Collection) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the collection being served.
func (s *Store) Current() *Collection {
	return s.current.Load()
}

// Swap installs c and returns the previous collection.
func (s *Store) Swap(c *Collection) *Collection {
	return s.current.Swap(c)
}
