package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joestump/bytevault/internal/remote"
)

// ErrNoValidTabs is returned when none of the offered tabs is a web page.
var ErrNoValidTabs = errors.New("vault: no valid web tabs to save")

const msgNoValidTabs = "No valid web tabs found to save."

// ErrNoLauncher is returned when opening links without a Launcher configured.
var ErrNoLauncher = errors.New("vault: no launcher configured")

// openPageSize is the page size used to collect every link of a session.
const openPageSize = 200

var skippedSchemes = []string{"chrome://", "chrome-extension://"}

// TabFailure is a tab the server refused during a batch save.
type TabFailure struct {
	Tab Tab
	Err error
}

// BatchReport is the outcome of saving several tabs into a session. Tabs
// already saved are kept when later ones fail.
type BatchReport struct {
	Session *remote.Session
	Saved   []remote.Link
	Skipped []Tab
	Failed  []TabFailure
}

func splitTabs(tabs []Tab) (valid, skipped []Tab) {
	for _, t := range tabs {
		if t.URL == "" || hasSkippedScheme(t.URL) {
			skipped = append(skipped, t)
			continue
		}
		valid = append(valid, t)
	}
	return valid, skipped
}

func hasSkippedScheme(url string) bool {
	for _, p := range skippedSchemes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

// SaveTabsToSession creates a session and saves the web tabs into it.
func (c *Controller) SaveTabsToSession(ctx context.Context, in remote.NewSession, tabs []Tab) (*BatchReport, error) {
	valid, skipped := splitTabs(tabs)
	if len(valid) == 0 {
		c.toast(msgNoValidTabs, true)
		return nil, ErrNoValidTabs
	}

	sess, err := c.api.CreateSession(ctx, in)
	if err != nil {
		c.toast("Failed to create session: "+errorMessage(err), true)
		return nil, err
	}
	return c.saveBatch(ctx, sess, valid, skipped), nil
}

// MergeIntoSession saves the web tabs into an existing session.
func (c *Controller) MergeIntoSession(ctx context.Context, sessionID string, tabs []Tab) (*BatchReport, error) {
	valid, skipped := splitTabs(tabs)
	if len(valid) == 0 {
		c.toast(msgNoValidTabs, true)
		return nil, ErrNoValidTabs
	}
	return c.saveBatch(ctx, &remote.Session{ID: sessionID}, valid, skipped), nil
}

// saveBatch saves tabs one at a time, last tab first, so the first tab ends
// up newest.
func (c *Controller) saveBatch(ctx context.Context, sess *remote.Session, tabs, skipped []Tab) *BatchReport {
	report := &BatchReport{Session: sess, Skipped: skipped}
	for i := len(tabs) - 1; i >= 0; i-- {
		saved, err := c.api.SaveLink(ctx, tabs[i].newLink(sess.ID))
		if err != nil {
			c.log.WithError(err).WithField("url", tabs[i].URL).Debug("batch save")
			report.Failed = append(report.Failed, TabFailure{Tab: tabs[i], Err: err})
			continue
		}
		report.Saved = append(report.Saved, *saved)
	}

	switch {
	case len(report.Saved) == 0:
		c.toast("Failed to save tabs to session", true)
	case len(report.Failed) > 0:
		c.toast(fmt.Sprintf("Saved %d tabs to session, %d failed", len(report.Saved), len(report.Failed)), true)
	default:
		c.toast(fmt.Sprintf("Saved %d tabs to session!", len(report.Saved)), false)
	}

	if err := c.reloadSessions(ctx); err != nil {
		c.log.WithError(err).Debug("reload sessions after batch save")
	}
	return report
}

// OpenSession opens every link of a session through the Launcher.
func (c *Controller) OpenSession(ctx context.Context, id string) (int, error) {
	if c.launcher == nil {
		return 0, ErrNoLauncher
	}
	var urls []string
	for page := 1; ; page++ {
		p, err := c.api.FetchLinks(ctx, remote.ListQuery{Page: page, Limit: openPageSize, Sort: SortNewest, SessionID: id})
		if err != nil {
			c.toast("Failed to open session", true)
			return 0, err
		}
		for _, l := range p.Items {
			urls = append(urls, l.URL)
		}
		if page >= p.TotalPages {
			break
		}
	}

	if len(urls) == 0 {
		c.toast("No tabs in this session", false)
		return 0, nil
	}
	if err := c.launcher.Open(ctx, urls); err != nil {
		c.toast("Failed to open session", true)
		return 0, err
	}
	c.toast(fmt.Sprintf("Opened %d tabs", len(urls)), false)
	return len(urls), nil
}

// OpenLink opens a listed link through the Launcher.
func (c *Controller) OpenLink(ctx context.Context, id string) error {
	if IsTemp(id) {
		return ErrPending
	}
	if c.launcher == nil {
		return ErrNoLauncher
	}
	c.mu.Lock()
	i := indexOfLink(c.state.Links, id)
	var url string
	if i >= 0 {
		url = c.state.Links[i].URL
	}
	c.mu.Unlock()
	if i < 0 {
		return errors.New("vault: link is not listed")
	}
	return c.launcher.Open(ctx, []string{url})
}

func (c *Controller) toast(msg string, isError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.render.ShowToast(msg, isError)
}
