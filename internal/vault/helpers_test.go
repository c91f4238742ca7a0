package vault_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/localstore"
	"github.com/joestump/bytevault/internal/remote"
	"github.com/joestump/bytevault/internal/vault"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeAPI is an in-memory backend. Links are kept newest first.
type fakeAPI struct {
	mu           sync.Mutex
	links        []remote.Link
	sessions     []remote.Session
	sessionLinks map[string][]remote.Link
	nextID       int

	fetchLinks   []remote.ListQuery
	saves        []remote.NewLink
	deletes      []string
	fetchErr     error
	deleteErr    error
	rejectURLs   map[string]bool
	beforeFetch  func(q remote.ListQuery) // may block
	beforeSave   func(in remote.NewLink)  // may block
	sessionFetch int
	// servedPage, when set, replaces the page number of every listing.
	servedPage int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sessionLinks: map[string][]remote.Link{}, rejectURLs: map[string]bool{}}
}

// seed adds n standalone links; link-1 is the oldest.
func (f *fakeAPI) seed(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.links = append([]remote.Link{f.newLinkLocked(remote.NewLink{
			URL:   fmt.Sprintf("https://example.com/%d", f.nextID+1),
			Title: fmt.Sprintf("Example %d", f.nextID+1),
		})}, f.links...)
	}
}

func (f *fakeAPI) newLinkLocked(in remote.NewLink) remote.Link {
	f.nextID++
	return remote.Link{
		ID:        fmt.Sprintf("link-%d", f.nextID),
		URL:       in.URL,
		Title:     in.Title,
		Favicon:   in.Favicon,
		SessionID: in.SessionID,
		CreatedAt: baseTime.Add(time.Duration(f.nextID) * time.Minute),
	}
}

func (f *fakeAPI) fetchLinkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetchLinks)
}

func (f *fakeAPI) FetchLinks(ctx context.Context, q remote.ListQuery) (*remote.Page[remote.Link], error) {
	f.mu.Lock()
	f.fetchLinks = append(f.fetchLinks, q)
	hook := f.beforeFetch
	f.mu.Unlock()
	if hook != nil {
		hook(q)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var pool []remote.Link
	switch q.SessionID {
	case "":
		pool = f.links
	case remote.SessionNone:
		for _, l := range f.links {
			if l.SessionID == "" {
				pool = append(pool, l)
			}
		}
	default:
		pool = f.sessionLinks[q.SessionID]
	}
	var matched []remote.Link
	for _, l := range pool {
		if q.Search == "" || strings.Contains(strings.ToLower(l.Title+" "+l.URL), strings.ToLower(q.Search)) {
			matched = append(matched, l)
		}
	}
	if q.Sort == vault.SortOldest {
		rev := make([]remote.Link, len(matched))
		for i, l := range matched {
			rev[len(matched)-1-i] = l
		}
		matched = rev
	}
	res := paginate(matched, q)
	if f.servedPage > 0 {
		res.Page = f.servedPage
	}
	return res, nil
}

func paginate[T any](all []T, q remote.ListQuery) *remote.Page[T] {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	total := (len(all) + limit - 1) / limit
	items := []T{}
	start := (page - 1) * limit
	if start < len(all) {
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		items = append(items, all[start:end]...)
	}
	return &remote.Page[T]{Items: items, Page: page, TotalPages: total}
}

func (f *fakeAPI) SaveLink(ctx context.Context, in remote.NewLink) (*remote.Link, error) {
	f.mu.Lock()
	f.saves = append(f.saves, in)
	hook := f.beforeSave
	f.mu.Unlock()
	if hook != nil {
		hook(in)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectURLs[in.URL] {
		return nil, &remote.RequestError{Status: 409, Message: "Link already saved"}
	}
	l := f.newLinkLocked(in)
	if in.SessionID != "" {
		f.sessionLinks[in.SessionID] = append([]remote.Link{l}, f.sessionLinks[in.SessionID]...)
		for i := range f.sessions {
			if f.sessions[i].ID == in.SessionID {
				f.sessions[i].LinkCount++
			}
		}
	}
	f.links = append([]remote.Link{l}, f.links...)
	return &l, nil
}

func (f *fakeAPI) DeleteLink(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, l := range f.links {
		if l.ID == id {
			f.links = append(f.links[:i:i], f.links[i+1:]...)
			return nil
		}
	}
	return &remote.RequestError{Status: 404, Message: "Link not found or unauthorized"}
}

func (f *fakeAPI) BulkDeleteLinks(ctx context.Context, ids []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := 0
	for _, id := range ids {
		for i, l := range f.links {
			if l.ID == id {
				f.links = append(f.links[:i:i], f.links[i+1:]...)
				f.deletes = append(f.deletes, id)
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeAPI) FetchSessions(ctx context.Context, q remote.ListQuery) (*remote.Page[remote.Session], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionFetch++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return paginate(f.sessions, q), nil
}

func (f *fakeAPI) CreateSession(ctx context.Context, in remote.NewSession) (*remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s := remote.Session{
		ID:          fmt.Sprintf("session-%d", f.nextID),
		Name:        in.Name,
		Description: in.Description,
		Tag:         in.Tag,
		IsFavorite:  in.IsFavorite,
		CreatedAt:   baseTime.Add(time.Duration(f.nextID) * time.Minute),
	}
	f.sessions = append([]remote.Session{s}, f.sessions...)
	return &s, nil
}

func (f *fakeAPI) UpdateSession(ctx context.Context, id string, patch remote.SessionPatch) (*remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sessions {
		if f.sessions[i].ID != id {
			continue
		}
		if patch.Name != nil {
			f.sessions[i].Name = *patch.Name
		}
		if patch.IsFavorite != nil {
			f.sessions[i].IsFavorite = *patch.IsFavorite
		}
		s := f.sessions[i]
		return &s, nil
	}
	return nil, &remote.RequestError{Status: 404, Message: "Session not found"}
}

func (f *fakeAPI) DeleteSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i:i], f.sessions[i+1:]...)
			delete(f.sessionLinks, id)
			return nil
		}
	}
	return &remote.RequestError{Status: 404, Message: "Session not found"}
}

type toast struct {
	msg     string
	isError bool
}

// recorder is a Renderer that remembers every call.
type recorder struct {
	mu         sync.Mutex
	links      [][]vault.Item
	sessions   [][]vault.Item
	empty      []string
	toasts     []toast
	loading    int
	pagination [][2]int
	busy       []bool
}

func (r *recorder) RenderLinks(items []vault.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, items)
}

func (r *recorder) RenderSessions(items []vault.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, items)
}

func (r *recorder) UpdatePagination(page, totalPages int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pagination = append(r.pagination, [2]int{page, totalPages})
}

func (r *recorder) ShowLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading++
}

func (r *recorder) ShowEmptyState(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.empty = append(r.empty, message)
}

func (r *recorder) ShowToast(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast{msg: message, isError: isError})
}

func (r *recorder) SetSaveBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = append(r.busy, busy)
}

func (r *recorder) linkRenders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}

func (r *recorder) lastLinks() []vault.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.links) == 0 {
		return nil
	}
	return r.links[len(r.links)-1]
}

func (r *recorder) lastEmpty() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.empty) == 0 {
		return ""
	}
	return r.empty[len(r.empty)-1]
}

func (r *recorder) toastMessages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.toasts))
	for _, t := range r.toasts {
		out = append(out, t.msg)
	}
	return out
}

func (r *recorder) lastToast() toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type launcher struct {
	mu     sync.Mutex
	opened [][]string
}

func (l *launcher) Open(ctx context.Context, urls []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = append(l.opened, urls)
	return nil
}

type harness struct {
	api    *fakeAPI
	render *recorder
	cache  *vault.Cache
	clock  *fakeClock
	open   *launcher
	ctrl   *vault.Controller
}

func newHarness(t *testing.T, pageSize int) *harness {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &harness{
		api:    newFakeAPI(),
		render: &recorder{},
		cache:  vault.NewCache(localstore.NewMemory()),
		clock:  &fakeClock{now: baseTime.Add(24 * time.Hour)},
		open:   &launcher{},
	}
	h.ctrl = vault.New(h.api, h.cache, h.render, vault.Options{
		PageSize:       pageSize,
		SearchDebounce: 20 * time.Millisecond,
		Now:            h.clock.Now,
		Logger:         log,
		Launcher:       h.open,
	})
	t.Cleanup(h.ctrl.Wait)
	return h
}

func ids(links []remote.Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.ID)
	}
	return out
}

func itemIDs(items []vault.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}
