// Package tokenstore keeps the access/refresh credential pair and the
// signed-in identity in durable local storage.
package tokenstore

import (
	"fmt"

	"github.com/joestump/bytevault/internal/localstore"
)

// Tokens is the bearer credential pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User is the signed-in identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Store reads and writes credentials through a localstore.Store.
type Store struct {
	kv localstore.Store
}

func New(kv localstore.Store) *Store {
	return &Store{kv: kv}
}

// Tokens returns the stored pair. Missing members are empty strings.
func (s *Store) Tokens() (Tokens, error) {
	var t Tokens
	if _, err := localstore.GetJSON(s.kv, localstore.KeyAccessToken, &t.AccessToken); err != nil {
		return Tokens{}, err
	}
	if _, err := localstore.GetJSON(s.kv, localstore.KeyRefreshToken, &t.RefreshToken); err != nil {
		return Tokens{}, err
	}
	return t, nil
}

// SaveTokens replaces both credentials in one write.
func (s *Store) SaveTokens(t Tokens) error {
	if err := s.kv.Set(map[string]any{
		localstore.KeyAccessToken:  t.AccessToken,
		localstore.KeyRefreshToken: t.RefreshToken,
	}); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

// User returns the stored identity, or nil when signed out.
func (s *Store) User() (*User, error) {
	var u User
	found, err := localstore.GetJSON(s.kv, localstore.KeyUser, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// SaveSession stores the credential pair and identity together after login
// or registration.
func (s *Store) SaveSession(t Tokens, u User) error {
	if err := s.kv.Set(map[string]any{
		localstore.KeyAccessToken:  t.AccessToken,
		localstore.KeyRefreshToken: t.RefreshToken,
		localstore.KeyUser:         u,
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the credentials and identity. Cached data is left alone.
func (s *Store) Clear() error {
	return s.kv.Remove(localstore.KeyAccessToken, localstore.KeyRefreshToken, localstore.KeyUser)
}

// SignedIn reports whether an access credential is stored.
func (s *Store) SignedIn() bool {
	t, err := s.Tokens()
	return err == nil && t.AccessToken != ""
}
