package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/joestump/bytevault/internal/remote"
)

// ErrPending is returned for actions on a link the server has not confirmed yet.
var ErrPending = errors.New("vault: link is still being saved")

// Tab is a browser tab offered for saving.
type Tab struct {
	URL     string
	Title   string
	Favicon string
}

func (t Tab) newLink(sessionID string) remote.NewLink {
	title := t.Title
	if title == "" {
		title = "Untitled"
	}
	return remote.NewLink{URL: t.URL, Title: title, Favicon: t.Favicon, SessionID: sessionID}
}

// SaveTab saves tab as a standalone link. On the clean page the link shows
// at the top right away under a temporary id; the create call runs in the
// background and either confirms or rolls back that entry. It returns the
// temporary id, or "" when the view was not clean, and a channel that
// receives the outcome of the create call.
func (c *Controller) SaveTab(ctx context.Context, tab Tab) (string, <-chan error) {
	in := tab.newLink("")

	c.mu.Lock()
	c.render.SetSaveBusy(true)
	list := c.state.LinkList
	clean := list.Clean()

	var tempID string
	var evicted *remote.Link
	if clean {
		now := c.now()
		tempID = newTempID(now)
		temp := remote.Link{ID: tempID, URL: in.URL, Title: in.Title, Favicon: in.Favicon, CreatedAt: now.UTC()}

		links := append([]remote.Link{temp}, c.state.Links...)
		if len(links) > list.Limit {
			last := links[len(links)-1]
			evicted = &last
			links = links[:list.Limit]
		}
		c.state.Links = links
		c.renderLinksLocked()
		c.lastSynced = 0
		c.writeCacheLocked(0)
	}
	c.render.SetSaveBusy(false)
	c.mu.Unlock()

	done := make(chan error, 1)
	c.goBackground(ctx, func(ctx context.Context) {
		done <- c.confirmSave(ctx, in, tempID, evicted)
	})
	return tempID, done
}

func (c *Controller) confirmSave(ctx context.Context, in remote.NewLink, tempID string, evicted *remote.Link) error {
	saved, err := c.api.SaveLink(ctx, in)

	c.mu.Lock()
	if err != nil {
		c.log.WithError(err).WithField("url", in.URL).Debug("save link failed")
		if tempID != "" {
			c.rollbackSaveLocked(tempID, evicted)
		}
		c.render.ShowToast("Failed to save: "+errorMessage(err), true)
		c.mu.Unlock()
		return err
	}

	c.render.ShowToast("Tab securely saved!", false)
	if tempID != "" {
		if i := indexOfLink(c.state.Links, tempID); i >= 0 {
			c.state.Links[i] = *saved
			c.renderLinksLocked()
			c.writeCacheLocked(0)
		}
		c.mu.Unlock()
		if err := c.revalidateLinks(ctx, true, false); err != nil {
			c.log.WithError(err).Debug("revalidate after save")
		}
		return nil
	}

	c.state.LinkList.Page = 1
	c.state.LinkList.Search = ""
	c.lastSynced = 0
	c.mu.Unlock()
	if err := c.reloadLinks(ctx); err != nil {
		c.log.WithError(err).Debug("reload after save")
	}
	return nil
}

// rollbackSaveLocked removes the temporary entry and puts back the link the
// insert pushed off the page. Callers hold c.mu.
func (c *Controller) rollbackSaveLocked(tempID string, evicted *remote.Link) {
	i := indexOfLink(c.state.Links, tempID)
	if i < 0 {
		return
	}
	links := append(c.state.Links[:i:i], c.state.Links[i+1:]...)
	if evicted != nil && len(links) < c.state.LinkList.Limit && indexOfLink(links, evicted.ID) < 0 {
		links = append(links, *evicted)
	}
	c.state.Links = links
	c.renderLinksLocked()
	c.writeCacheLocked(0)
}

// reloadLinks reloads the links listing regardless of the active view.
func (c *Controller) reloadLinks(ctx context.Context) error {
	c.mu.Lock()
	if c.state.View == ViewLinks {
		c.render.ShowLoading()
	}
	c.mu.Unlock()
	return c.revalidateLinks(ctx, true, true)
}

func (c *Controller) reloadSessions(ctx context.Context) error {
	c.mu.Lock()
	if c.state.View == ViewSessions {
		c.render.ShowLoading()
	}
	c.mu.Unlock()
	return c.revalidateSessions(ctx, true)
}

// DeleteLink deletes a link on the server, then drops it locally. Emptying a
// page past the first steps back one page and reloads; otherwise the cached
// snapshot is patched and the page backfilled in the background.
func (c *Controller) DeleteLink(ctx context.Context, id string) error {
	if IsTemp(id) {
		return ErrPending
	}
	if err := c.api.DeleteLink(ctx, id); err != nil {
		c.toast("Failed to delete link", true)
		return err
	}
	return c.linksDeleted(ctx, []string{id}, "Link deleted")
}

// DeleteLinks deletes several links in one request and reconciles the same
// way as DeleteLink. It returns how many the server removed.
func (c *Controller) DeleteLinks(ctx context.Context, ids []string) (int, error) {
	for _, id := range ids {
		if IsTemp(id) {
			return 0, ErrPending
		}
	}
	n, err := c.api.BulkDeleteLinks(ctx, ids)
	if err != nil {
		c.toast("Failed to delete links", true)
		return 0, err
	}
	return n, c.linksDeleted(ctx, ids, fmt.Sprintf("Deleted %d links", n))
}

func (c *Controller) linksDeleted(ctx context.Context, ids []string, msg string) error {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	without := func(links []remote.Link) []remote.Link {
		out := make([]remote.Link, 0, len(links))
		for _, l := range links {
			if !gone[l.ID] {
				out = append(out, l)
			}
		}
		return out
	}

	c.mu.Lock()
	c.render.ShowToast(msg, false)
	c.state.Links = without(c.state.Links)
	c.lastSynced = 0
	if len(c.state.Links) == 0 && c.state.LinkList.Page > 1 {
		c.state.LinkList.Page--
		c.mu.Unlock()
		return c.reloadLinks(ctx)
	}
	c.renderLinksLocked()
	c.mu.Unlock()

	c.goBackground(ctx, func(ctx context.Context) {
		if err := c.cache.Patch(without, 0); err != nil {
			c.log.WithError(err).Warn("patch cached links")
		}
		if err := c.revalidateLinks(ctx, true, false); err != nil {
			c.log.WithError(err).Debug("revalidate after delete")
		}
	})
	return nil
}

// DeleteSession deletes a session and the links it holds, then updates the
// sessions listing the same way DeleteLink does for links.
func (c *Controller) DeleteSession(ctx context.Context, id string) error {
	if err := c.api.DeleteSession(ctx, id); err != nil {
		c.toast("Failed to delete session", true)
		return err
	}

	c.mu.Lock()
	c.render.ShowToast("Session deleted", false)
	if i := indexOfSession(c.state.Sessions, id); i >= 0 {
		c.state.Sessions = append(c.state.Sessions[:i:i], c.state.Sessions[i+1:]...)
	}
	if len(c.state.Sessions) == 0 && c.state.SessionList.Page > 1 {
		c.state.SessionList.Page--
		c.mu.Unlock()
		return c.reloadSessions(ctx)
	}
	c.renderSessionsLocked()
	c.mu.Unlock()

	c.goBackground(ctx, func(ctx context.Context) {
		if err := c.revalidateSessions(ctx, false); err != nil {
			c.log.WithError(err).Debug("revalidate after session delete")
		}
	})
	return nil
}

// UpdateSession applies a partial edit and replaces the local copy.
func (c *Controller) UpdateSession(ctx context.Context, id string, patch remote.SessionPatch) (*remote.Session, error) {
	updated, err := c.api.UpdateSession(ctx, id, patch)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.render.ShowToast("Failed to update session", true)
		return nil, err
	}
	if i := indexOfSession(c.state.Sessions, id); i >= 0 {
		c.state.Sessions[i] = *updated
		c.renderSessionsLocked()
	}
	c.render.ShowToast("Session updated", false)
	return updated, nil
}

// ToggleFavorite flips the favorite flag of a listed session.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) (*remote.Session, error) {
	c.mu.Lock()
	i := indexOfSession(c.state.Sessions, id)
	if i < 0 {
		c.mu.Unlock()
		return nil, errors.New("vault: session is not listed")
	}
	fav := !c.state.Sessions[i].IsFavorite
	c.mu.Unlock()
	return c.UpdateSession(ctx, id, remote.SessionPatch{IsFavorite: &fav})
}
