package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/rangelint/internal/types"
)

const cacheFileName = "issues.gob"

// CacheEntry is the stored result of linting one file.
type CacheEntry struct {
	Hash      string
	Issues    []tt.Issue
	CreatedAt time.Time
}

type cacheFile struct {
	ConfigHash string
	Entries    map[string]CacheEntry
}

// Cache remembers the issues of files whose content has not changed since
// they were last linted. All entries are dropped when the configuration
// they were produced with changes.
type Cache struct {
	CacheDir   string
	configHash string
	maxAge     time.Duration
	entries    map[string]CacheEntry
	dirty      bool
	mutex      sync.Mutex
}

// NewCache opens the cache stored in cacheDir, creating the directory when
// needed. configHash identifies the configuration; see HashConfig.
func NewCache(cacheDir, configHash string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		CacheDir:   cacheDir,
		configHash: configHash,
		entries:    make(map[string]CacheEntry),
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored cacheFile
	if err := gob.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	if stored.ConfigHash != c.configHash {
		c.dirty = true
		return nil
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	return nil
}

// Save writes the cache to disk if it changed since it was loaded.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}

	tmp, err := os.CreateTemp(c.CacheDir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	stored := cacheFile{ConfigHash: c.configHash, Entries: c.entries}
	if err := gob.NewEncoder(tmp).Encode(stored); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path()); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	c.dirty = false
	return nil
}

// Set records the issues found in content.
func (c *Cache) Set(filename string, content []byte, issues []tt.Issue) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = CacheEntry{
		Hash:      hashContent(content),
		Issues:    issues,
		CreatedAt: time.Now(),
	}
	c.dirty = true
}

// Get returns the issues stored for filename if content is unchanged.
func (c *Cache) Get(filename string, content []byte) ([]tt.Issue, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[filename]
	if !ok {
		return nil, false
	}
	if entry.Hash != hashContent(content) || c.expired(entry) {
		delete(c.entries, filename)
		c.dirty = true
		return nil, false
	}
	return entry.Issues, true
}

func (c *Cache) expired(entry CacheEntry) bool {
	return c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge
}

// SetMaxAge makes entries older than d stale. Zero disables expiry.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = d
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	c.dirty = true
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}

// HashConfig returns the cache key of a configuration given in any stable
// serialized form.
func HashConfig(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
