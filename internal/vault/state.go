package vault

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joestump/bytevault/internal/remote"
)

// View is the listing currently on screen.
type View int

const (
	ViewLinks View = iota
	ViewSessions
)

func (v View) String() string {
	if v == ViewSessions {
		return "sessions"
	}
	return "links"
}

// Sort orders understood by the API.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// ListState is the paging and filter state of one listing.
type ListState struct {
	Page       int
	Limit      int
	Search     string
	Sort       string
	TotalPages int
}

// Clean reports whether this is page 1, newest first and without a search,
// the only view the cache covers.
func (l ListState) Clean() bool {
	return l.Page == 1 && l.Search == "" && l.Sort == SortNewest
}

type fingerprint struct {
	search string
	page   int
	sort   string
}

func (l ListState) fingerprint() fingerprint {
	return fingerprint{search: l.Search, page: l.Page, sort: l.Sort}
}

func (l ListState) query() remote.ListQuery {
	return remote.ListQuery{Page: l.Page, Limit: l.Limit, Search: l.Search, Sort: l.Sort}
}

// State is everything the controller shows. Links and sessions paginate and
// filter independently.
type State struct {
	View        View
	Links       []remote.Link
	Sessions    []remote.Session
	LinkList    ListState
	SessionList ListState
}

func newState(pageSize int) State {
	list := ListState{Page: 1, Limit: pageSize, Sort: SortNewest}
	return State{View: ViewLinks, LinkList: list, SessionList: list}
}

func (s State) clone() State {
	out := s
	out.Links = append([]remote.Link(nil), s.Links...)
	out.Sessions = append([]remote.Session(nil), s.Sessions...)
	return out
}

const tempPrefix = "temp-"

// newTempID returns an id that can never collide with a server UUID.
func newTempID(now time.Time) string {
	return fmt.Sprintf("%s%d-%s", tempPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

// IsTemp reports whether id belongs to a link not yet confirmed by the server.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

func sameLinks(a, b []remote.Link) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.URL != y.URL || x.Title != y.Title || x.Favicon != y.Favicon ||
			x.SessionID != y.SessionID || !x.CreatedAt.Equal(y.CreatedAt) {
			return false
		}
	}
	return true
}

func sameSessions(a, b []remote.Session) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Name != y.Name || x.Description != y.Description || x.Tag != y.Tag ||
			x.IsFavorite != y.IsFavorite || x.LinkCount != y.LinkCount || !x.CreatedAt.Equal(y.CreatedAt) {
			return false
		}
	}
	return true
}

func indexOfLink(links []remote.Link, id string) int {
	for i, l := range links {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func indexOfSession(sessions []remote.Session, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}
