// Package includes implements textual inclusion for `include "path";`
// directives (spec.md §6.2). It is adapted from go-dws's internal/units
// unit registry: the same "resolve once, cache by canonical path, detect
// cycles" shape, simplified from DWScript's module-level uses-clause
// symbol import down to C-style textual inclusion.
package includes

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache resolves include paths against a fixed search path list and
// guarantees each file is read at most once (spec.md §6.2 invariant).
type Cache struct {
	searchPaths []string
	resolved    map[string]string // canonical path -> source text
	visiting    map[string]bool   // cycle detection, active resolution stack
}

func NewCache(searchPaths []string) *Cache {
	return &Cache{
		searchPaths: searchPaths,
		resolved:    make(map[string]string),
		visiting:    make(map[string]bool),
	}
}

// Resolve finds path relative to fromDir or the search path list, reads it
// if not already cached, and returns its source text and canonical path.
// A second Resolve for the same canonical path returns the cached text
// without touching the filesystem again.
func (c *Cache) Resolve(path, fromDir string) (canonical, source string, err error) {
	candidates := []string{filepath.Join(fromDir, path)}
	for _, dir := range c.searchPaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	var abs string
	for _, cand := range candidates {
		if _, statErr := os.Stat(cand); statErr == nil {
			abs, err = filepath.Abs(cand)
			if err != nil {
				return "", "", err
			}
			break
		}
	}
	if abs == "" {
		return "", "", fmt.Errorf("include %q not found in any search path", path)
	}

	if src, ok := c.resolved[abs]; ok {
		return abs, src, nil
	}
	if c.visiting[abs] {
		return "", "", fmt.Errorf("circular include detected: %q", path)
	}

	c.visiting[abs] = true
	defer delete(c.visiting, abs)

	data, readErr := os.ReadFile(abs)
	if readErr != nil {
		return "", "", fmt.Errorf("reading include %q: %w", path, readErr)
	}
	src := string(data)
	c.resolved[abs] = src
	return abs, src, nil
}

// Seen reports whether canonical has already been resolved, letting the
// pipeline skip re-parsing a file included from two different places.
func (c *Cache) Seen(canonical string) bool {
	_, ok := c.resolved[canonical]
	return ok
}
