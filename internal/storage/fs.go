package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Extensions lists the file extensions treated as articles.
var Extensions = []string{".md", ".markdown"}

// FS implements Provider on top of an fs.FS.
type FS struct {
	fsys fs.FS
	root string // absolute directory, empty for embedded content
}

// NewFS creates a provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fsys: os.DirFS(abs), root: abs}, nil
}

// FromFS wraps an existing file system, e.g. content bundled with embed.
func FromFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Root returns the backing directory.
func (f *FS) Root() string {
	return f.root
}

// safePath turns a caller-supplied relative path into an fs.FS name and
// rejects anything that escapes the root.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" || rel == "." {
		return ".", nil
	}
	slashed := filepath.ToSlash(rel)
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	cleaned := path.Clean(slashed)
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("storage: path escapes content root: %s", rel)
	}
	return cleaned, nil
}

// IsArticle reports whether name has one of the article extensions.
func IsArticle(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// List walks dir and returns every article source. Directories whose name
// starts with "_" or "." are skipped.
func (f *FS) List(dir string) ([]Entry, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []Entry
	err = fs.WalkDir(f.fsys, base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			name := d.Name()
			if p != base && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if !IsArticle(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, Entry{Path: p, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a source file.
func (f *FS) Read(p string) ([]byte, error) {
	name, err := f.safePath(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}
