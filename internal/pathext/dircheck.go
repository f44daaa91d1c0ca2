package pathext

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DirChecker reports whether a path names an existing directory.
// Implementations must fail open: any error means false.
type DirChecker interface {
	IsDir(path string) bool
}

// OSDirChecker checks directories with os.Stat.
type OSDirChecker struct{}

// IsDir implements DirChecker.
func (OSDirChecker) IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// DefaultCacheSize is the number of stat results CachedDirChecker keeps.
const DefaultCacheSize = 4096

// CachedDirChecker memoizes another DirChecker's answers.
// Results are not invalidated on their own; call Purge after the tree changes.
type CachedDirChecker struct {
	next  DirChecker
	cache *lru.Cache[string, bool]
}

// NewCachedDirChecker wraps next with an LRU cache of the given size.
// A size <= 0 uses DefaultCacheSize.
func NewCachedDirChecker(next DirChecker, size int) (*CachedDirChecker, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, bool](size)
	if err != nil {
		return nil, fmt.Errorf("creating directory cache: %w", err)
	}
	return &CachedDirChecker{next: next, cache: cache}, nil
}

// IsDir implements DirChecker.
func (c *CachedDirChecker) IsDir(path string) bool {
	path = filepath.Clean(path)
	if isDir, ok := c.cache.Get(path); ok {
		return isDir
	}
	isDir := c.next.IsDir(path)
	c.cache.Add(path, isDir)
	return isDir
}

// Purge drops every cached result.
func (c *CachedDirChecker) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached results.
func (c *CachedDirChecker) Len() int {
	return c.cache.Len()
}

// DirSet is a DirChecker backed by a fixed set of cleaned paths.
type DirSet map[string]bool

// NewDirSet returns a DirSet containing dirs.
func NewDirSet(dirs ...string) DirSet {
	s := make(DirSet, len(dirs))
	for _, d := range dirs {
		s[filepath.Clean(d)] = true
	}
	return s
}

// IsDir implements DirChecker.
func (s DirSet) IsDir(path string) bool {
	return s[filepath.Clean(path)]
}
