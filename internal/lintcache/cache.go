package lintcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/importext/importext/internal/platform"
)

// FileName is the cache file written into the project root.
const FileName = ".importext-cache.json"

// formatVersion is bumped when the on-disk layout changes; older files are
// discarded rather than misread.
const formatVersion = 1

// Entry records the state of a file the last time it linted clean.
type Entry struct {
	Hash        string `json:"hash"`
	Fingerprint string `json:"fingerprint"`
}

// Cache maps file paths to their last clean state.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	dirty   bool
}

type fileFormat struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// New returns an empty cache that saves to FileName in dir.
func New(dir string) *Cache {
	return &Cache{
		path:    filepath.Join(dir, FileName),
		entries: make(map[string]Entry),
	}
}

// Load reads the cache from dir. A missing file yields an empty cache.
// A corrupt file yields an empty cache and an error the caller may report.
func Load(dir string) (*Cache, error) {
	c := New(dir)

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("reading lint cache: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return c, fmt.Errorf("parsing lint cache %s: %w", c.path, err)
	}
	if f.Version != formatVersion {
		// Stale layout. Start over and overwrite on save.
		c.dirty = true
		return c, nil
	}
	if f.Entries != nil {
		c.entries = f.Entries
	}
	return c, nil
}

// Path returns the file the cache saves to.
func (c *Cache) Path() string {
	return c.path
}

// Fresh reports whether path was clean with the same content and options.
func (c *Cache) Fresh(path string, content []byte, fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	return ok && e.Fingerprint == fingerprint && e.Hash == Hash(content)
}

// Record marks path as clean for content under fingerprint.
func (c *Cache) Record(path string, content []byte, fingerprint string) {
	e := Entry{Hash: Hash(content), Fingerprint: fingerprint}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[path] != e {
		c.entries[path] = e
		c.dirty = true
	}
}

// Forget drops path so it is linted next time.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.dirty = true
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache if anything changed since it was loaded.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	f := fileFormat{Version: formatVersion, Entries: c.entries}
	if err := platform.WriteJSONAtomic(c.path, f, 0644); err != nil {
		return fmt.Errorf("writing lint cache: %w", err)
	}
	c.dirty = false
	return nil
}

// Hash returns the hex sha256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes the JSON encoding of v. Options that affect lint results
// go in v, so changing any of them invalidates every entry.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprinting options: %w", err)
	}
	return Hash(data), nil
}
