package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"stripgen/internal/project"
)

// Current schema version - increment when CacheEntry format changes
const cacheSchemaVersion uint16 = 1

// DiskCache remembers, per input content and configuration, which bytes the
// normalizer produced. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is the msgpack payload stored per key.
type CacheEntry struct {
	Schema     uint16
	Outcome    uint8
	Signature  string
	OutputHash project.Digest
	OutputSize uint32
}

// CacheDir returns the default cache location for app.
func CacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDiskCache initializes a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.Hex()
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "strip", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry to the disk cache.
func (c *DiskCache) Put(key project.Digest, entry *CacheEntry) error {
	if c == nil || entry == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if removeErr := os.Remove(tmp); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "cache: failed to remove temp file: %v\n", removeErr)
		}
	}()

	entry.Schema = cacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads an entry. Missing entries and entries of another schema are misses.
func (c *DiskCache) Get(key project.Digest) (*CacheEntry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var entry CacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", key.Hex(), err)
	}
	if entry.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &entry, true, nil
}

// Clear removes every cached entry.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "strip"))
}

// cacheKey binds an input's content to the configuration that processes it.
func cacheKey(content []byte, fingerprint project.Digest) project.Digest {
	return project.Combine(project.DigestBytes(content), fingerprint)
}

func newCacheEntry(outcome uint8, signature string, output []byte) (*CacheEntry, error) {
	size, err := safecast.Conv[uint32](len(output))
	if err != nil {
		return nil, fmt.Errorf("cache: output too large: %w", err)
	}
	return &CacheEntry{
		Outcome:    outcome,
		Signature:  signature,
		OutputHash: project.DigestBytes(output),
		OutputSize: size,
	}, nil
}

// upToDate reports whether path already holds the bytes described by entry.
func (e *CacheEntry) upToDate(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	size, err := safecast.Conv[uint32](info.Size())
	if err != nil || size != e.OutputSize {
		return false
	}
	// #nosec G304 -- path is produced by the driver
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return project.DigestBytes(data) == e.OutputHash
}
