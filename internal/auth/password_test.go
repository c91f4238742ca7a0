package auth_test

import (
	"testing"

	"github.com/alexedwards/argon2id"

	"github.com/joestump/bytevault/internal/auth"
)

var fastParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestPasswordHasher(t *testing.T) {
	h := auth.NewPasswordHasher(fastParams)

	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Compare("hunter22", hash) {
		t.Error("Compare(correct) = false")
	}
	if h.Compare("wrong", hash) {
		t.Error("Compare(wrong) = true")
	}
	if h.Compare("hunter22", "not-a-hash") {
		t.Error("Compare(malformed hash) = true")
	}
}
