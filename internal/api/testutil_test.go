package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/joestump/bytevault/internal/api"
	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/logging"
	"github.com/joestump/bytevault/internal/store"
	"github.com/joestump/bytevault/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router       http.Handler
	LinkStore    *store.LinkStore
	SessionStore *store.SessionStore
	UserStore    *store.UserStore
	Tokens       *auth.TokenIssuer
	Hasher       *auth.PasswordHasher
}

type envOption func(*api.Deps)

func withRateLimit(requests int, window time.Duration) envOption {
	return func(d *api.Deps) {
		d.RateLimitRequests = requests
		d.RateLimitWindow = window
	}
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	ls := store.NewLinkStore(db)
	ss := store.NewSessionStore(db)
	us := store.NewUserStore(db)
	tokens, err := auth.NewTokenIssuer("test-access", "test-refresh", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	hasher := auth.NewPasswordHasher(&argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	deps := api.Deps{
		BearerAuth:   auth.NewBearerTokenMiddleware(tokens, us),
		Tokens:       tokens,
		Hasher:       hasher,
		LinkStore:    ls,
		SessionStore: ss,
		UserStore:    us,
		Logger:       logging.Discard(),
		CORSOrigins:  []string{"chrome-extension://", "http://localhost"},
		Now:          func() time.Time { return fixedNow },
	}
	for _, o := range opts {
		o(&deps)
	}

	return &testEnv{
		Router:       api.NewRouter(deps),
		LinkStore:    ls,
		SessionStore: ss,
		UserStore:    us,
		Tokens:       tokens,
		Hasher:       hasher,
	}
}

// seedUser creates a user with password "secret1" and returns the record.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	hash, err := env.Hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := env.UserStore.Create(context.Background(), email, hash)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken issues an access token for the user.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	pair, err := env.Tokens.GenerateTokens(userID)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	return pair.AccessToken
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// do sends method/path with an optional JSON body and token.
func do(t *testing.T, env *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		authRequest(req, token)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// apiResponse mirrors the response envelope with a raw data member.
type apiResponse struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Count      int             `json:"count"`
	Error      *api.ErrorBody  `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode envelope: %v; body: %s", err, rec.Body.String())
	}
	if data != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return resp
}

func errMessage(resp apiResponse) string {
	if resp.Error == nil {
		return ""
	}
	return resp.Error.Message
}
