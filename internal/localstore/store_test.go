package localstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/bytevault/internal/localstore"
)

func stores(t *testing.T) map[string]localstore.Store {
	t.Helper()
	bolt, err := localstore.OpenBolt(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]localstore.Store{
		"bolt":   bolt,
		"memory": localstore.NewMemory(),
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(map[string]any{
				localstore.KeyAccessToken: "tok",
				localstore.KeyCachedPage:  1,
			}))

			vals, err := s.Get(localstore.KeyAccessToken, localstore.KeyCachedPage, localstore.KeyUser)
			require.NoError(t, err)
			assert.JSONEq(t, `"tok"`, string(vals[localstore.KeyAccessToken]))
			assert.JSONEq(t, `1`, string(vals[localstore.KeyCachedPage]))
			_, ok := vals[localstore.KeyUser]
			assert.False(t, ok, "missing keys are omitted")

			require.NoError(t, s.Remove(localstore.KeyAccessToken))
			var tok string
			found, err := localstore.GetJSON(s, localstore.KeyAccessToken, &tok)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestGetJSON(t *testing.T) {
	s := localstore.NewMemory()
	type user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, s.Set(map[string]any{localstore.KeyUser: user{ID: "1", Email: "a@example.com"}}))

	var got user
	found, err := localstore.GetJSON(s, localstore.KeyUser, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, user{ID: "1", Email: "a@example.com"}, got)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")

	s, err := localstore.OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(map[string]any{localstore.KeyRefreshToken: "r1"}))
	require.NoError(t, s.Close())

	s, err = localstore.OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()

	var tok string
	found, err := localstore.GetJSON(s, localstore.KeyRefreshToken, &tok)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "r1", tok)
}

func TestBolt_ClosedStore(t *testing.T) {
	s, err := localstore.OpenBolt(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(localstore.KeyUser)
	assert.ErrorIs(t, err, localstore.ErrClosed)
	assert.ErrorIs(t, s.Set(map[string]any{"k": 1}), localstore.ErrClosed)
}
