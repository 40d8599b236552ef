// Package testutil provides shared test helpers for setting up content
// directories and databases.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jinkyeom/sciencestop/internal/index"
	"github.com/jinkyeom/sciencestop/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sciencestop-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestContent writes files (slash-separated path -> contents) into a
// temporary directory and returns it with a storage.Provider on top.
func TestContent(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Article builds a source file with a YAML header. Each extra line is added
// to the header verbatim.
func Article(title, date, body string, extra ...string) string {
	var b strings.Builder
	b.WriteString("---\ntitle: " + title + "\n")
	if date != "" {
		b.WriteString("date: \"" + date + "\"\n")
	}
	for _, e := range extra {
		b.WriteString(e + "\n")
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}
