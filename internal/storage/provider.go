// Package storage defines the read-only content source abstraction.
package storage

import "time"

// Entry describes one Markdown source found by List.
type Entry struct {
	Path    string // slash-separated, relative to the content root
	ModTime time.Time
}

// Provider is the interface for reading article sources.
type Provider interface {
	// List returns every Markdown source under dir in lexical path order.
	List(dir string) ([]Entry, error)
	// Read returns the raw bytes of the source at path.
	Read(path string) ([]byte, error)
	// Root returns the on-disk directory backing the provider, or "" when the
	// provider is not backed by a directory (embedded content).
	Root() string
}
