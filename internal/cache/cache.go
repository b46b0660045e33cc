// Package cache holds resolved bundles for one loader. Entries are bounded
// by an LRU, concurrent loads of the same key are collapsed, and entries are
// dropped explicitly or when a watched location changes on disk.
package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cache is an LRU of values keyed by bundle location.
type Cache[V any] struct {
	entries *lru.Cache[string, V]
	flight  singleflight.Group
	logger  *slog.Logger

	mu          sync.Mutex
	generations map[string]uint64
	epoch       uint64
	watcher     *fsnotify.Watcher
	rules       map[string][]watchRule // watched directory -> rules
	done        chan struct{}
	closeOnce   sync.Once
}

type watchRule struct {
	key  string
	file string // empty matches any entry in the directory
}

// New creates a cache holding at most size entries.
func New[V any](size int, logger *slog.Logger) (*Cache[V], error) {
	entries, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache[V]{
		entries:     entries,
		logger:      logger,
		generations: make(map[string]uint64),
		rules:       make(map[string][]watchRule),
		done:        make(chan struct{}),
	}, nil
}

// Get returns the cached value for key, calling load on a miss. Concurrent
// misses for the same key share one load. Errors are not cached. hit reports
// whether the value came from the cache.
//
// The shared load runs under a context that keeps ctx's values but not its
// cancellation, so one caller giving up never fails the others. A caller
// whose ctx ends returns ctx.Err() at once; the load carries on and its
// result is still cached.
func (c *Cache[V]) Get(ctx context.Context, key string, load func(context.Context) (V, error)) (v V, hit bool, err error) {
	if v, ok := c.entries.Get(key); ok {
		return v, true, nil
	}
	if err := ctx.Err(); err != nil {
		return v, false, err
	}

	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}

		gen := c.generation(key)
		v, err := load(shared)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// Skip the insert when the key was invalidated during the load.
		if c.generationLocked(key) == gen {
			c.entries.Add(key, v)
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return v, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return v, false, res.Err
		}
		return res.Val.(V), false, nil
	}
}

// Invalidate drops key. It reports whether an entry was present.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	c.generations[key]++
	c.mu.Unlock()
	return c.entries.Remove(key)
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

func (c *Cache[V]) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationLocked(key)
}

func (c *Cache[V]) generationLocked(key string) uint64 {
	return c.generations[key] + c.epoch
}

// WatchDir invalidates key whenever anything directly inside dir is
// created, written, removed or renamed.
func (c *Cache[V]) WatchDir(dir, key string) error {
	return c.watch(filepath.Clean(dir), watchRule{key: key})
}

// WatchFile invalidates key whenever file is created, written, removed or
// renamed. The parent directory is watched so that replacing the file is
// also seen.
func (c *Cache[V]) WatchFile(file, key string) error {
	file = filepath.Clean(file)
	return c.watch(filepath.Dir(file), watchRule{key: key, file: file})
}

func (c *Cache[V]) watch(dir string, rule watchRule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return fmt.Errorf("watch %s: cache closed", dir)
	default:
	}

	if c.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		c.watcher = w
		go c.processEvents(w)
	}

	existing, watched := c.rules[dir]
	for _, r := range existing {
		if r == rule {
			return nil
		}
	}
	if !watched {
		if err := c.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	c.rules[dir] = append(existing, rule)
	return nil
}

func (c *Cache[V]) processEvents(w *fsnotify.Watcher) {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			c.handleEvent(filepath.Clean(event.Name), event.Op.String())
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			c.logger.Warn("cache watcher error", slog.Any("error", err))
		}
	}
}

func (c *Cache[V]) handleEvent(name, op string) {
	c.mu.Lock()
	var keys []string
	for _, r := range c.rules[filepath.Dir(name)] {
		if r.file == "" || r.file == name {
			keys = append(keys, r.key)
		}
	}
	c.mu.Unlock()

	for _, key := range keys {
		if c.Invalidate(key) {
			c.logger.Debug("cache entry invalidated",
				slog.String("key", key),
				slog.String("path", name),
				slog.String("op", op))
		}
	}
}

// Close stops watching. The cache remains usable without invalidation by
// file events.
func (c *Cache[V]) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		close(c.done)
		if c.watcher != nil {
			err = c.watcher.Close()
		}
	})
	return err
}
