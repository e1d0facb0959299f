// Package assets resolves demo asset paths and caches file contents.
package assets

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Manager loads files from an asset root.
// All paths are slash-separated and relative to the root.
type Manager struct {
	root  fs.FS
	dir   string
	cache *Cache
}

// NewManager creates a manager rooted at an on-disk directory.
func NewManager(dir string) *Manager {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &Manager{
		root:  os.DirFS(abs),
		dir:   abs,
		cache: NewCache(),
	}
}

// NewManagerFS creates a manager over an arbitrary file system.
func NewManagerFS(root fs.FS) *Manager {
	return &Manager{
		root:  root,
		cache: NewCache(),
	}
}

// Load returns the contents of name, reading it at most once.
func (m *Manager) Load(name string) ([]byte, error) {
	name = Clean(name)
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	data, err := fs.ReadFile(m.root, name)
	if err != nil {
		return nil, fault.Wrap(fault.AssetLoad, "assets.Load", err)
	}

	m.cache.Set(name, data)
	logger.Debug("asset loaded", zap.String("path", name), zap.Int("bytes", len(data)))
	return data, nil
}

// Open opens name for streaming reads. Results are not cached.
func (m *Manager) Open(name string) (fs.File, error) {
	f, err := m.root.Open(Clean(name))
	if err != nil {
		return nil, fault.Wrap(fault.AssetLoad, "assets.Open", err)
	}
	return f, nil
}

// Exists reports whether name is present under the root.
func (m *Manager) Exists(name string) bool {
	_, err := fs.Stat(m.root, Clean(name))
	return err == nil
}

// FS returns the underlying file system.
func (m *Manager) FS() fs.FS {
	return m.root
}

// Abs returns the on-disk path of name, or "" when the manager is not disk-backed.
func (m *Manager) Abs(name string) string {
	if m.dir == "" {
		return ""
	}
	return filepath.Join(m.dir, filepath.FromSlash(Clean(name)))
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops every cached file.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Clean normalizes an asset path into the form fs.FS expects:
// slash separated, no leading slash, no "." or ".." segments escaping the root.
func Clean(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}

// Join joins a directory and a file name relative to the asset root.
func Join(dir, name string) string {
	return Clean(path.Join(dir, name))
}

// IsNotExist reports whether err means the asset is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
