// Package localstore is the client's durable key/value storage. Values are
// JSON documents; a Set of several keys is applied atomically.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Keys read and written by the client.
const (
	KeyAccessToken      = "accessToken"
	KeyRefreshToken     = "refreshToken"
	KeyUser             = "user"
	KeyCachedLinks      = "cachedLinks"
	KeyCachedPage       = "cachedPage"
	KeyCachedTotalPages = "cachedTotalPages"
	KeyLastSyncedAt     = "lastSyncedAt"
	KeyCacheVersion     = "cacheVersion"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("localstore: closed")

// Store is durable key/value storage. Get omits keys that are not stored.
type Store interface {
	Get(keys ...string) (map[string]json.RawMessage, error)
	Set(values map[string]any) error
	Remove(keys ...string) error
	Close() error
}

// GetJSON decodes key into v. It reports false when the key is not stored.
func GetJSON(s Store, key string, v any) (bool, error) {
	vals, err := s.Get(key)
	if err != nil {
		return false, err
	}
	raw, ok := vals[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func encodeAll(values map[string]any) (map[string][]byte, error) {
	out := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = data
	}
	return out, nil
}
