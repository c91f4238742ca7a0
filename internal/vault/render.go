package vault

import (
	"context"

	"github.com/joestump/bytevault/internal/remote"
)

// Kind tells which entity an Item carries.
type Kind int

const (
	KindLink Kind = iota
	KindSession
)

func (k Kind) String() string {
	if k == KindSession {
		return "session"
	}
	return "link"
}

// Intent is an action the user can take on a rendered item.
type Intent string

const (
	IntentOpen           Intent = "open"
	IntentDelete         Intent = "delete"
	IntentToggleFavorite Intent = "favorite"
)

// Item is one rendered row: the entity plus what can be done with it.
// Pending links are optimistic entries awaiting confirmation and carry no
// intents.
type Item struct {
	Kind    Kind
	Link    *remote.Link
	Session *remote.Session
	Pending bool
	Intents []Intent
}

// ID returns the id of the carried entity.
func (it Item) ID() string {
	if it.Kind == KindSession && it.Session != nil {
		return it.Session.ID
	}
	if it.Link != nil {
		return it.Link.ID
	}
	return ""
}

// Has reports whether in is available on the item.
func (it Item) Has(in Intent) bool {
	for _, x := range it.Intents {
		if x == in {
			return true
		}
	}
	return false
}

// Renderer is the display surface. The controller calls it while holding
// its lock, so implementations must not call back into the Controller.
type Renderer interface {
	RenderLinks(items []Item)
	RenderSessions(items []Item)
	UpdatePagination(page, totalPages int)
	ShowLoading()
	ShowEmptyState(message string)
	ShowToast(message string, isError bool)
	SetSaveBusy(busy bool)
}

// Launcher opens URLs in the user's browser.
type Launcher interface {
	Open(ctx context.Context, urls []string) error
}

const (
	msgLinksEmpty         = "Your vault is empty."
	msgLinksNoMatch       = "No matching links found."
	msgLinksLoadFailed    = "Error loading links."
	msgSessionsEmpty      = "No saved sessions yet."
	msgSessionsNoMatch    = "No matching sessions found."
	msgSessionsLoadFailed = "Error loading sessions."
)

func linkItems(links []remote.Link) []Item {
	items := make([]Item, 0, len(links))
	for i := range links {
		l := links[i]
		it := Item{Kind: KindLink, Link: &l}
		if IsTemp(l.ID) {
			it.Pending = true
		} else {
			it.Intents = []Intent{IntentOpen, IntentDelete}
		}
		items = append(items, it)
	}
	return items
}

func sessionItems(sessions []remote.Session) []Item {
	items := make([]Item, 0, len(sessions))
	for i := range sessions {
		s := sessions[i]
		items = append(items, Item{
			Kind:    KindSession,
			Session: &s,
			Intents: []Intent{IntentOpen, IntentToggleFavorite, IntentDelete},
		})
	}
	return items
}

// renderLinksLocked draws the links listing. Callers hold c.mu.
func (c *Controller) renderLinksLocked() {
	if c.state.View != ViewLinks {
		return
	}
	list := c.state.LinkList
	if len(c.state.Links) == 0 {
		msg := msgLinksEmpty
		if list.Search != "" {
			msg = msgLinksNoMatch
		}
		c.render.ShowEmptyState(msg)
	} else {
		c.render.RenderLinks(linkItems(c.state.Links))
	}
	c.render.UpdatePagination(list.Page, list.TotalPages)
}

// renderSessionsLocked draws the sessions listing. Callers hold c.mu.
func (c *Controller) renderSessionsLocked() {
	if c.state.View != ViewSessions {
		return
	}
	list := c.state.SessionList
	if len(c.state.Sessions) == 0 {
		msg := msgSessionsEmpty
		if list.Search != "" {
			msg = msgSessionsNoMatch
		}
		c.render.ShowEmptyState(msg)
	} else {
		c.render.RenderSessions(sessionItems(c.state.Sessions))
	}
	c.render.UpdatePagination(list.Page, list.TotalPages)
}
