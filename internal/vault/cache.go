package vault

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joestump/bytevault/internal/localstore"
	"github.com/joestump/bytevault/internal/remote"
)

// ErrNotCacheable is returned when asked to cache anything but the clean page.
var ErrNotCacheable = errors.New("vault: only page 1 without a search is cached")

// Snapshot is the persisted first page of links. LastSyncedAt is unix
// milliseconds; zero means not yet synced.
type Snapshot struct {
	Links        []remote.Link
	Page         int
	TotalPages   int
	LastSyncedAt int64
	Version      uint64
}

// Cache persists the links snapshot. All writes go through one mutex and
// bump the stored version, so the last write is always the newest.
type Cache struct {
	kv localstore.Store
	mu sync.Mutex
}

func NewCache(kv localstore.Store) *Cache {
	return &Cache{kv: kv}
}

// Load returns the stored snapshot, or nil when there is none.
func (c *Cache) Load() (*Snapshot, error) {
	vals, err := c.kv.Get(
		localstore.KeyCachedLinks,
		localstore.KeyCachedPage,
		localstore.KeyCachedTotalPages,
		localstore.KeyLastSyncedAt,
		localstore.KeyCacheVersion,
	)
	if err != nil {
		return nil, err
	}
	if _, ok := vals[localstore.KeyCachedLinks]; !ok {
		return nil, nil
	}

	var snap Snapshot
	fields := []struct {
		key string
		dst any
	}{
		{localstore.KeyCachedLinks, &snap.Links},
		{localstore.KeyCachedPage, &snap.Page},
		{localstore.KeyCachedTotalPages, &snap.TotalPages},
		{localstore.KeyLastSyncedAt, &snap.LastSyncedAt},
		{localstore.KeyCacheVersion, &snap.Version},
	}
	for _, f := range fields {
		if _, err := localstore.GetJSON(c.kv, f.key, f.dst); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

// Write replaces the snapshot with links for view. It refuses any view but
// the clean page.
func (c *Cache) Write(view ListState, links []remote.Link, syncedAt int64) (uint64, error) {
	if !view.Clean() {
		return 0, ErrNotCacheable
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	version, err := c.nextVersion()
	if err != nil {
		return 0, err
	}
	if links == nil {
		links = []remote.Link{}
	}
	err = c.kv.Set(map[string]any{
		localstore.KeyCachedLinks:      links,
		localstore.KeyCachedPage:       1,
		localstore.KeyCachedTotalPages: view.TotalPages,
		localstore.KeyLastSyncedAt:     syncedAt,
		localstore.KeyCacheVersion:     version,
	})
	if err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return version, nil
}

// Touch records a sync without changing the cached links.
func (c *Cache) Touch(syncedAt int64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	version, err := c.nextVersion()
	if err != nil {
		return 0, err
	}
	err = c.kv.Set(map[string]any{
		localstore.KeyLastSyncedAt: syncedAt,
		localstore.KeyCacheVersion: version,
	})
	if err != nil {
		return 0, fmt.Errorf("touch snapshot: %w", err)
	}
	return version, nil
}

// Patch rewrites the cached links through fn and resets LastSyncedAt to
// syncedAt. It is a no-op when nothing is cached.
func (c *Cache) Patch(fn func([]remote.Link) []remote.Link, syncedAt int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var links []remote.Link
	found, err := localstore.GetJSON(c.kv, localstore.KeyCachedLinks, &links)
	if err != nil || !found {
		return err
	}
	version, err := c.nextVersion()
	if err != nil {
		return err
	}
	patched := fn(links)
	if patched == nil {
		patched = []remote.Link{}
	}
	err = c.kv.Set(map[string]any{
		localstore.KeyCachedLinks:  patched,
		localstore.KeyLastSyncedAt: syncedAt,
		localstore.KeyCacheVersion: version,
	})
	if err != nil {
		return fmt.Errorf("patch snapshot: %w", err)
	}
	return nil
}

// Clear drops the snapshot. The version counter survives so versions stay
// increasing across sign-ins.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Remove(
		localstore.KeyCachedLinks,
		localstore.KeyCachedPage,
		localstore.KeyCachedTotalPages,
		localstore.KeyLastSyncedAt,
	)
}

func (c *Cache) nextVersion() (uint64, error) {
	var v uint64
	if _, err := localstore.GetJSON(c.kv, localstore.KeyCacheVersion, &v); err != nil {
		return 0, err
	}
	return v + 1, nil
}
