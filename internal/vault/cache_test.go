package vault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/bytevault/internal/localstore"
	"github.com/joestump/bytevault/internal/remote"
	"github.com/joestump/bytevault/internal/vault"
)

func TestCache_RefusesAnythingButCleanPage(t *testing.T) {
	c := vault.NewCache(localstore.NewMemory())
	links := []remote.Link{{ID: "a"}}

	_, err := c.Write(vault.ListState{Page: 2}, links, 1)
	assert.ErrorIs(t, err, vault.ErrNotCacheable)
	_, err = c.Write(vault.ListState{Page: 1, Search: "go"}, links, 1)
	assert.ErrorIs(t, err, vault.ErrNotCacheable)
	_, err = c.Write(vault.ListState{Page: 1, Sort: vault.SortOldest}, links, 1)
	assert.ErrorIs(t, err, vault.ErrNotCacheable)

	snap, err := c.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCache_VersionsIncrease(t *testing.T) {
	c := vault.NewCache(localstore.NewMemory())
	clean := vault.ListState{Page: 1, Sort: vault.SortNewest, TotalPages: 2}

	v1, err := c.Write(clean, []remote.Link{{ID: "a"}, {ID: "b"}}, 100)
	require.NoError(t, err)
	v2, err := c.Touch(200)
	require.NoError(t, err)
	require.NoError(t, c.Patch(func(links []remote.Link) []remote.Link { return links[1:] }, 0))

	snap, err := c.Load()
	require.NoError(t, err)
	assert.Less(t, v1, v2)
	assert.Less(t, v2, snap.Version)
	assert.Equal(t, []string{"b"}, ids(snap.Links))
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 2, snap.TotalPages)
	assert.Zero(t, snap.LastSyncedAt)
}

func TestCache_PatchWithoutSnapshot(t *testing.T) {
	c := vault.NewCache(localstore.NewMemory())
	called := false
	require.NoError(t, c.Patch(func(l []remote.Link) []remote.Link {
		called = true
		return l
	}, 0))
	assert.False(t, called)
	snap, err := c.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCache_ClearKeepsVersion(t *testing.T) {
	kv := localstore.NewMemory()
	c := vault.NewCache(kv)
	v1, err := c.Write(vault.ListState{Page: 1, Sort: vault.SortNewest}, nil, 5)
	require.NoError(t, err)
	require.NoError(t, c.Clear())

	snap, err := c.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)

	v2, err := c.Write(vault.ListState{Page: 1, Sort: vault.SortNewest}, nil, 6)
	require.NoError(t, err)
	assert.Greater(t, v2, v1)
}
