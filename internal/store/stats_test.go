package store_test

import (
	"context"
	"testing"

	"github.com/joestump/bytevault/internal/store"
	"github.com/joestump/bytevault/internal/testutil"
)

func TestStatsStore_Totals(t *testing.T) {
	db := testutil.NewTestDB(t)
	env := &storeEnv{
		Links:    store.NewLinkStore(db),
		Sessions: store.NewSessionStore(db),
		Users:    store.NewUserStore(db),
	}
	userID := seedUser(t, env, "alice@example.com")
	seedLinks(t, env, userID, 2)
	if _, err := env.Sessions.Create(context.Background(), userID, store.NewSession{Name: "s"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := store.NewStatsStore(db).Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	want := store.Totals{Users: 1, Links: 2, Sessions: 1}
	if got != want {
		t.Errorf("Totals = %+v, want %+v", got, want)
	}
}
