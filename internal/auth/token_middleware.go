package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/joestump/bytevault/internal/store"
)

const (
	msgNoToken     = "Not authorized, no token provided"
	msgTokenFailed = "Not authorized, token failed"
)

// AccessVerifier resolves an access token to a user id.
type AccessVerifier interface {
	VerifyAccess(token string) (string, error)
}

// UserGetter loads the owner of a verified token.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*store.User, error)
}

// BearerTokenMiddleware authenticates API requests via a Bearer access token.
type BearerTokenMiddleware struct {
	tokens AccessVerifier
	users  UserGetter
}

// NewBearerTokenMiddleware creates a new BearerTokenMiddleware.
func NewBearerTokenMiddleware(tokens AccessVerifier, users UserGetter) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: tokens, users: users}
}

// Authenticate extracts and validates the Bearer token.
// WHEN valid: injects the token owner's *store.User into context.
// WHEN missing, invalid, expired or the user is gone: returns 401 in the API envelope.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeUnauthorized(w, msgNoToken)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			writeUnauthorized(w, msgNoToken)
			return
		}

		userID, err := m.tokens.VerifyAccess(token)
		if err != nil {
			writeUnauthorized(w, msgTokenFailed)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			writeUnauthorized(w, msgTokenFailed)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// writeUnauthorized writes a 401 in the {success, error{message}} envelope.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]string{"message": msg},
	})
}
