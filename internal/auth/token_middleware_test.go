package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/store"
	"github.com/joestump/bytevault/internal/testutil"
)

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	ti, err := auth.NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return ti
}

// okHandler echoes the authenticated user's email.
func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := auth.UserFromContext(r.Context())
		if u == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(u.Email))
	})
}

func setupMiddleware(t *testing.T) (*auth.BearerTokenMiddleware, *auth.TokenIssuer, *store.User) {
	t.Helper()
	us := store.NewUserStore(testutil.NewTestDB(t))
	user, err := us.Create(context.Background(), "test@example.com", "hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	ti := newIssuer(t)
	return auth.NewBearerTokenMiddleware(ti, us), ti, user
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Error("success = true on a 401")
	}
	return body.Error.Message
}

func TestBearerTokenMiddleware_ValidToken(t *testing.T) {
	mw, ti, user := setupMiddleware(t)
	pair, err := ti.GenerateTokens(user.ID)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	mw.Authenticate(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != user.Email {
		t.Errorf("context user = %q, want %q", rec.Body.String(), user.Email)
	}
}

func TestBearerTokenMiddleware_MissingHeader(t *testing.T) {
	mw, _, _ := setupMiddleware(t)

	rec := httptest.NewRecorder()
	mw.Authenticate(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/api/links", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if msg := errorMessage(t, rec); msg != "Not authorized, no token provided" {
		t.Errorf("message = %q", msg)
	}
}

func TestBearerTokenMiddleware_EmptyBearerValue(t *testing.T) {
	mw, _, _ := setupMiddleware(t)

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	mw.Authenticate(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBearerTokenMiddleware_InvalidToken(t *testing.T) {
	mw, _, _ := setupMiddleware(t)

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer invalid-token-value")
	rec := httptest.NewRecorder()
	mw.Authenticate(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if msg := errorMessage(t, rec); msg != "Not authorized, token failed" {
		t.Errorf("message = %q", msg)
	}
}

func TestBearerTokenMiddleware_RefreshTokenRejected(t *testing.T) {
	mw, ti, user := setupMiddleware(t)
	pair, err := ti.GenerateTokens(user.ID)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	mw.Authenticate(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBearerTokenMiddleware_UnknownUser(t *testing.T) {
	mw, ti, _ := setupMiddleware(t)
	pair, err := ti.GenerateTokens("no-such-user")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	mw.Authenticate(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
