// Package cache stores compiled template descriptors keyed by the content
// hash of their parse artifacts, so watch mode can skip recompiling inputs
// that have not changed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache is an on-disk descriptor cache with a JSON index and LRU eviction.
type Cache struct {
	mu      sync.RWMutex
	dir     string
	index   *Index
	maxSize int64
	maxAge  time.Duration
}

// Index tracks all cached descriptors.
type Index struct {
	Version string            `json:"version"`
	Entries map[string]*Entry `json:"entries"`
	Updated time.Time         `json:"updated"`
}

// Entry is one cached descriptor file.
type Entry struct {
	Key        string    `json:"key"`
	Hash       string    `json:"hash"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	Created    time.Time `json:"created"`
	LastAccess time.Time `json:"last_access"`
}

// Config holds cache configuration.
type Config struct {
	Dir     string        // Cache directory (default: $HOME/.cache/loom)
	MaxSize int64         // Maximum cache size in bytes (default: 256 MB)
	MaxAge  time.Duration // Maximum age for entries (default: 7 days)
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		Dir:     filepath.Join(homeDir, ".cache", "loom"),
		MaxSize: 256 << 20,
		MaxAge:  7 * 24 * time.Hour,
	}
}

// New opens (or creates) a cache at config.Dir. A corrupt or missing index
// starts fresh rather than failing.
func New(config Config) (*Cache, error) {
	if config.Dir == "" {
		config = DefaultConfig()
	}

	if err := os.MkdirAll(config.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:     config.Dir,
		maxSize: config.MaxSize,
		maxAge:  config.MaxAge,
	}

	if err := c.loadIndex(); err != nil {
		c.index = emptyIndex()
	}

	return c, nil
}

func emptyIndex() *Index {
	return &Index{
		Version: "1",
		Entries: make(map[string]*Entry),
		Updated: time.Now(),
	}
}

// Get retrieves a cached descriptor. Expired or unreadable entries are
// dropped and reported as misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.index.Entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if c.isExpired(entry) {
		c.Delete(key)
		return nil, false
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		c.Delete(key)
		return nil, false
	}

	c.mu.Lock()
	entry.LastAccess = time.Now()
	c.mu.Unlock()

	return data, true
}

// Put stores a descriptor under key. Storing the same bytes twice is a
// no-op.
func (c *Cache) Put(key string, data []byte) error {
	hash := hashBytes(data)

	c.mu.RLock()
	if existing, ok := c.index.Entries[key]; ok && existing.Hash == hash {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	size := int64(len(data))
	if err := c.ensureSpace(size); err != nil {
		return err
	}

	path := filepath.Join(c.dir, "descriptors", fmt.Sprintf("%s_%s.json", sanitizeKey(key), hash[:8]))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create descriptors directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	entry := &Entry{
		Key:        key,
		Hash:       hash,
		Path:       path,
		Size:       size,
		Created:    now,
		LastAccess: now,
	}

	c.mu.Lock()
	if old, ok := c.index.Entries[key]; ok && old.Path != path {
		os.Remove(old.Path)
	}
	c.index.Entries[key] = entry
	c.index.Updated = now
	c.mu.Unlock()

	return c.saveIndex()
}

// Delete removes an entry.
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index.Entries[key]
	if !ok {
		return nil
	}

	os.Remove(entry.Path)
	delete(c.index.Entries, key)
	c.index.Updated = time.Now()

	return c.saveIndexLocked()
}

// Clear removes everything.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(c.dir, "descriptors")); err != nil {
		return fmt.Errorf("failed to clear descriptors: %w", err)
	}

	c.index = emptyIndex()
	return c.saveIndexLocked()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index.Entries)
}

// Key builds a cache key from an artifact path and its content.
func Key(path string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.dir, "index.json"))
	if err != nil {
		return err
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return err
	}
	if index.Entries == nil {
		index.Entries = make(map[string]*Entry)
	}

	c.index = &index
	return nil
}

func (c *Cache) saveIndex() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveIndexLocked()
}

// saveIndexLocked writes the index; the caller must hold at least a read
// lock.
func (c *Cache) saveIndexLocked() error {
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, "index.json"), data, 0644)
}

func (c *Cache) isExpired(entry *Entry) bool {
	if c.maxAge <= 0 {
		return false
	}
	return time.Since(entry.Created) > c.maxAge
}

// ensureSpace evicts least-recently-used entries until the new payload fits.
func (c *Cache) ensureSpace(needed int64) error {
	if c.maxSize <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total := int64(0)
	for _, entry := range c.index.Entries {
		total += entry.Size
	}

	for total+needed > c.maxSize && len(c.index.Entries) > 0 {
		var evictKey string
		var evict *Entry
		for key, entry := range c.index.Entries {
			if evict == nil || entry.LastAccess.Before(evict.LastAccess) {
				evictKey = key
				evict = entry
			}
		}
		os.Remove(evict.Path)
		delete(c.index.Entries, evictKey)
		total -= evict.Size
	}

	return nil
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func sanitizeKey(key string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	sanitized := replacer.Replace(key)
	if len(sanitized) > 64 {
		sanitized = sanitized[:64]
	}
	return sanitized
}
