package auth

import (
	"github.com/alexedwards/argon2id"
)

// PasswordHasher hashes and checks passwords with argon2id.
type PasswordHasher struct {
	params *argon2id.Params
}

// NewPasswordHasher returns a hasher using params, or argon2id.DefaultParams when nil.
func NewPasswordHasher(params *argon2id.Params) *PasswordHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &PasswordHasher{params: params}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

// Compare reports whether password matches the encoded hash. A malformed
// hash is treated as a mismatch.
func (h *PasswordHasher) Compare(password, hash string) bool {
	ok, err := argon2id.ComparePasswordAndHash(password, hash)
	return err == nil && ok
}
