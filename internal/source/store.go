// Package source loads markup pages from a local directory and keeps
// them cached until invalidated. A companion watcher invalidates pages
// when their files change on disk.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// PageExt is the file extension for markup pages.
const PageExt = ".pv"

// Store errors.
var (
	ErrNotFound    = errors.New("page not found")
	ErrInvalidName = errors.New("invalid page name")
)

// Store is a read-through cache over a directory of markup pages.
// Page names map to files: "home" loads <dir>/home.pv.
type Store struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]string
}

// NewStore creates a store over a page directory.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]string),
	}
}

// Dir returns the page directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load returns the raw markup for a page name, reading from disk on a
// cache miss. A missing file yields ErrNotFound.
func (s *Store) Load(name string) (string, error) {
	key, err := cleanName(name)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	text, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, key+PageExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("load page %s: %w", name, err)
	}

	text = string(data)
	s.mu.Lock()
	s.cache[key] = text
	s.mu.Unlock()
	return text, nil
}

// Invalidate drops a page from the cache so the next Load re-reads the
// file. Unknown names are a no-op.
func (s *Store) Invalidate(name string) {
	key, err := cleanName(name)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
}

// Names lists the page names available on disk, without extension.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), PageExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), PageExt))
	}
	return names, nil
}

// cleanName normalizes a page name and rejects anything that could
// escape the page directory. The extension is optional.
func cleanName(name string) (string, error) {
	name = strings.TrimSuffix(name, PageExt)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	return name, nil
}

// PageName derives the page name from a file path, or "" if the path
// is not a page file.
func PageName(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, PageExt) {
		return ""
	}
	return strings.TrimSuffix(base, PageExt)
}
