package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/joestump/bytevault/internal/api"
	"github.com/joestump/bytevault/internal/store"
)

func strPtr(s string) *string { return &s }

func TestSessions_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	rec := do(t, env, "POST", "/api/sessions", token, api.CreateSessionRequest{Name: "Research", Tag: strPtr("work")})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created api.SessionResponse
	decode(t, rec, &created)

	if _, err := env.LinkStore.Create(context.Background(), user.ID, store.NewLink{URL: "https://a.example", SessionID: created.ID}); err != nil {
		t.Fatalf("create link: %v", err)
	}

	rec = do(t, env, "GET", "/api/sessions?search=WORK", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var sessions []api.SessionResponse
	resp := decode(t, rec, &sessions)
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	if sessions[0].LinkCount != 1 {
		t.Errorf("link_count = %d, want 1", sessions[0].LinkCount)
	}
	if resp.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", resp.TotalPages)
	}
}

func TestSessions_Create_NameRequired(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")

	rec := do(t, env, "POST", "/api/sessions", seedToken(t, env, user.ID), api.CreateSessionRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errMessage(decode(t, rec, nil)); msg != "Name is required" {
		t.Errorf("message = %q", msg)
	}
}

func TestSessions_Update(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	sess, err := env.SessionStore.Create(context.Background(), user.ID, store.NewSession{Name: "old", Description: "kept"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	fav := true
	rec := do(t, env, "PUT", "/api/sessions/"+sess.ID, token, api.UpdateSessionRequest{Name: strPtr("new"), IsFavorite: &fav})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got api.SessionResponse
	decode(t, rec, &got)
	if got.Name != "new" || !got.IsFavorite {
		t.Errorf("session = %+v", got)
	}
	if got.Description == nil || *got.Description != "kept" {
		t.Errorf("description = %v, want kept", got.Description)
	}
}

func TestSessions_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	for _, method := range []string{"PUT", "DELETE"} {
		rec := do(t, env, method, "/api/sessions/xyz", token, api.UpdateSessionRequest{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", method, rec.Code, http.StatusBadRequest)
		}
		if msg := errMessage(decode(t, rec, nil)); msg != "Invalid session ID format" {
			t.Errorf("%s: message = %q", method, msg)
		}
	}
}

func TestSessions_Delete(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	sess, err := env.SessionStore.Create(context.Background(), user.ID, store.NewSession{Name: "gone"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if rec := do(t, env, "DELETE", "/api/sessions/"+sess.ID, token, nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	rec := do(t, env, "DELETE", "/api/sessions/"+sess.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
