package sales

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"sales_insights/internal/checksum"
)

// LoaderFunc loads the dataset behind a source path.
type LoaderFunc func(path string) (*Dataset, error)

// Storage is the main interface for our dataset cache.
type Storage interface {
	Get(source string) (*Dataset, error)
	Invalidate(source string)
	Purge()
}

// FileCache keeps one immutable Dataset per source path and reloads it when
// the file's identity changes. A reload swaps the whole dataset.
type FileCache struct {
	mu   sync.RWMutex
	m    map[string]*Dataset
	load LoaderFunc
}

// NewFileCache instantiates a FileCache. A nil loader means Load.
func NewFileCache(load LoaderFunc) *FileCache {
	if load == nil {
		load = Load
	}
	return &FileCache{
		m:    map[string]*Dataset{},
		load: load,
	}
}

// Get returns the cached dataset for source, loading it when absent or stale.
// Returns ErrDataSourceNotFound if the file is gone; its stale entry is dropped.
func (c *FileCache) Get(source string) (*Dataset, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Invalidate(source)
			return nil, fmt.Errorf("%w: %s", ErrDataSourceNotFound, source)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", source, err)
	}
	identity := checksum.SourceIdentity(source, info.ModTime(), info.Size())

	c.mu.RLock()
	ds, ok := c.m[source]
	c.mu.RUnlock()
	if ok && ds.Identity == identity {
		return ds, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another reader may have reloaded while we waited for the lock
	if ds, ok := c.m[source]; ok && ds.Identity == identity {
		return ds, nil
	}

	ds, err = c.load(source)
	if err != nil {
		return nil, err
	}
	if ds.Identity == "" {
		ds.Identity = identity
	}
	c.m[source] = ds
	return ds, nil
}

// Invalidate drops the cached dataset for source.
func (c *FileCache) Invalidate(source string) {
	c.mu.Lock()
	delete(c.m, source)
	c.mu.Unlock()
}

// Purge drops every cached dataset.
func (c *FileCache) Purge() {
	c.mu.Lock()
	c.m = map[string]*Dataset{}
	c.mu.Unlock()
}
