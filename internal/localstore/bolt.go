package localstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketClient = []byte("client") // key -> JSON value

// boltStore implements Store using BoltDB.
type boltStore struct {
	db     *bolt.DB
	mu     sync.RWMutex
	closed bool
}

// OpenBolt opens (or creates) the BoltDB file at path.
func OpenBolt(path string) (Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketClient)
		return createErr
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create client bucket: %w", err)
	}
	return &boltStore{db: db}, nil
}

// Get implements Store.Get.
func (s *boltStore) Get(keys ...string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make(map[string]json.RawMessage, len(keys))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClient)
		for _, k := range keys {
			data := b.Get([]byte(k))
			if data == nil {
				continue
			}
			// Bolt memory is only valid inside the transaction.
			out[k] = append(json.RawMessage(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set implements Store.Set. All keys are written in one transaction.
func (s *boltStore) Set(values map[string]any) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClient)
		for k, data := range encoded {
			if putErr := b.Put([]byte(k), data); putErr != nil {
				return fmt.Errorf("failed to store %s: %w", k, putErr)
			}
		}
		return nil
	})
}

// Remove implements Store.Remove.
func (s *boltStore) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClient)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("failed to remove %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *boltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
