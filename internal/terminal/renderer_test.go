package terminal_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/bytevault/internal/remote"
	"github.com/joestump/bytevault/internal/terminal"
	"github.com/joestump/bytevault/internal/vault"
)

func TestRenderer_Links(t *testing.T) {
	var out, errOut bytes.Buffer
	r := terminal.New(&out, &errOut)

	saved := remote.Link{ID: "5f1c", URL: "https://go.dev", Title: "Go", CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)}
	pending := remote.Link{ID: "temp-1-abcd", URL: "https://pkg.go.dev", Title: strings.Repeat("x", 80)}
	r.RenderLinks([]vault.Item{
		{Kind: vault.KindLink, Link: &pending, Pending: true},
		{Kind: vault.KindLink, Link: &saved, Intents: []vault.Intent{vault.IntentOpen, vault.IntentDelete}},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "(saving)")
	assert.Contains(t, lines[1], strings.Repeat("x", 45)+"...")
	assert.NotContains(t, lines[1], strings.Repeat("x", 49))
	assert.Contains(t, lines[2], "https://go.dev")
	assert.Empty(t, errOut.String())
}

func TestRenderer_Sessions(t *testing.T) {
	var out bytes.Buffer
	r := terminal.New(&out, &bytes.Buffer{})
	s := remote.Session{ID: "s1", Name: "Research", Tag: "work", IsFavorite: true, LinkCount: 7}
	r.RenderSessions([]vault.Item{{Kind: vault.KindSession, Session: &s}})

	assert.Contains(t, out.String(), "Research")
	assert.Contains(t, out.String(), "work")
	assert.Contains(t, out.String(), "7")
}

func TestRenderer_ToastsAndPagination(t *testing.T) {
	var out, errOut bytes.Buffer
	r := terminal.New(&out, &errOut)

	r.ShowToast("Link deleted", false)
	r.ShowToast("Failed to delete link", true)
	r.UpdatePagination(1, 1)
	r.UpdatePagination(2, 5)
	r.ShowEmptyState("Your vault is empty.")
	r.ShowLoading()
	r.SetSaveBusy(true)

	assert.Equal(t, "Link deleted\n\nPage 2 of 5\nYour vault is empty.\n", out.String())
	assert.Equal(t, "error: Failed to delete link\n", errOut.String(), "no progress output off a terminal")
}

func TestPrintLauncher(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, terminal.PrintLauncher{Out: &out}.Open(context.Background(), []string{"https://a", "https://b"}))
	assert.Equal(t, "https://a\nhttps://b\n", out.String())
}

func TestNotifier_OnlyToasts(t *testing.T) {
	var out bytes.Buffer
	r := terminal.NewNotifier(&out, &bytes.Buffer{})
	l := remote.Link{ID: "a", URL: "https://go.dev"}
	r.RenderLinks([]vault.Item{{Kind: vault.KindLink, Link: &l}})
	r.ShowEmptyState("Your vault is empty.")
	r.UpdatePagination(1, 3)
	r.ShowToast("Tab securely saved!", false)

	assert.Equal(t, "Tab securely saved!\n", out.String())
}
