// Package vault is the client core: it owns the view state, serves the first
// page of links from a local snapshot while revalidating against the API,
// and applies saves and deletes optimistically.
package vault

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/remote"
)

// API is the subset of remote.Client the controller drives.
type API interface {
	FetchLinks(ctx context.Context, q remote.ListQuery) (*remote.Page[remote.Link], error)
	SaveLink(ctx context.Context, in remote.NewLink) (*remote.Link, error)
	DeleteLink(ctx context.Context, id string) error
	BulkDeleteLinks(ctx context.Context, ids []string) (int, error)
	FetchSessions(ctx context.Context, q remote.ListQuery) (*remote.Page[remote.Session], error)
	CreateSession(ctx context.Context, in remote.NewSession) (*remote.Session, error)
	UpdateSession(ctx context.Context, id string, patch remote.SessionPatch) (*remote.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

const (
	DefaultPageSize       = 10
	DefaultQuietWindow    = 30 * time.Second
	DefaultSearchDebounce = 400 * time.Millisecond
)

type Options struct {
	PageSize       int
	QuietWindow    time.Duration
	SearchDebounce time.Duration
	Now            func() time.Time
	Logger         logrus.FieldLogger
	Launcher       Launcher
}

// Controller owns the client state. Network calls run without the lock held;
// their results are applied only if the view they were issued for is still
// current.
type Controller struct {
	api      API
	cache    *Cache
	render   Renderer
	launcher Launcher
	log      logrus.FieldLogger
	now      func() time.Time
	quiet    time.Duration
	debounce time.Duration

	mu          sync.Mutex
	state       State
	lastSynced  int64 // unix ms of the last links sync, 0 forces the next one
	searchTimer *time.Timer

	bg sync.WaitGroup
}

func New(api API, cache *Cache, r Renderer, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = DefaultQuietWindow
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Controller{
		api:      api,
		cache:    cache,
		render:   r,
		launcher: opts.Launcher,
		log:      opts.Logger,
		now:      opts.Now,
		quiet:    opts.QuietWindow,
		debounce: opts.SearchDebounce,
		state:    newState(opts.PageSize),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Wait blocks until background work (pending saves, cache patches, forced
// revalidations, debounced searches) has finished.
func (c *Controller) Wait() {
	c.bg.Wait()
}

func (c *Controller) goBackground(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		fn(ctx)
	}()
}

// LoadInitial adopts and renders the cached first page when it holds links.
// It reports whether it did.
func (c *Controller) LoadInitial() bool {
	snap, err := c.cache.Load()
	if err != nil {
		c.log.WithError(err).Warn("read cached links")
		return false
	}
	if snap == nil || len(snap.Links) == 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Links = snap.Links
	c.state.LinkList.Page = 1
	c.state.LinkList.Search = ""
	c.state.LinkList.Sort = SortNewest
	c.state.LinkList.TotalPages = snap.TotalPages
	c.lastSynced = snap.LastSyncedAt
	c.renderLinksLocked()
	return true
}

// Revalidate refreshes the links listing. Without force it does nothing
// within the quiet window after the last sync.
func (c *Controller) Revalidate(ctx context.Context, force bool) error {
	return c.revalidateLinks(ctx, force, false)
}

// Reload shows the loading indicator and refetches the active listing.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	view := c.state.View
	c.render.ShowLoading()
	c.mu.Unlock()

	if view == ViewSessions {
		return c.revalidateSessions(ctx, true)
	}
	return c.revalidateLinks(ctx, true, true)
}

func (c *Controller) revalidateLinks(ctx context.Context, force, forceRender bool) error {
	c.mu.Lock()
	if !force && c.lastSynced != 0 && c.now().UnixMilli()-c.lastSynced < c.quiet.Milliseconds() {
		c.mu.Unlock()
		return nil
	}
	list := c.state.LinkList
	fp := list.fingerprint()
	c.mu.Unlock()

	q := list.query()
	q.SessionID = remote.SessionNone
	page, err := c.api.FetchLinks(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.LinkList.fingerprint() != fp {
		c.log.WithField("page", list.Page).Debug("discarding links response for a stale view")
		return nil
	}
	if err != nil {
		if len(c.state.Links) > 0 {
			c.log.WithError(err).Debug("background links refresh failed")
			return nil
		}
		if c.state.View == ViewLinks {
			c.render.ShowToast(errorMessage(err), true)
			c.render.ShowEmptyState(msgLinksLoadFailed)
		}
		return err
	}

	// The server's page number wins over the one requested.
	moved := page.Page > 0 && page.Page != c.state.LinkList.Page
	if moved {
		c.state.LinkList.Page = page.Page
	}
	changed := moved || !sameLinks(c.state.Links, page.Items) || c.state.LinkList.TotalPages != page.TotalPages
	if changed || forceRender || len(c.state.Links) == 0 {
		c.state.Links = page.Items
		c.state.LinkList.TotalPages = page.TotalPages
		c.renderLinksLocked()
	}

	now := c.now().UnixMilli()
	c.lastSynced = now
	if !c.state.LinkList.Clean() {
		return nil
	}
	if changed {
		c.writeCacheLocked(now)
	} else if _, err := c.cache.Touch(now); err != nil {
		c.log.WithError(err).Warn("touch cached links")
	}
	return nil
}

func (c *Controller) revalidateSessions(ctx context.Context, forceRender bool) error {
	c.mu.Lock()
	list := c.state.SessionList
	fp := list.fingerprint()
	c.mu.Unlock()

	page, err := c.api.FetchSessions(ctx, list.query())

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.SessionList.fingerprint() != fp {
		c.log.WithField("page", list.Page).Debug("discarding sessions response for a stale view")
		return nil
	}
	if err != nil {
		if len(c.state.Sessions) > 0 {
			c.log.WithError(err).Debug("background sessions refresh failed")
			return nil
		}
		if c.state.View == ViewSessions {
			c.render.ShowToast(errorMessage(err), true)
			c.render.ShowEmptyState(msgSessionsLoadFailed)
		}
		return err
	}

	moved := page.Page > 0 && page.Page != c.state.SessionList.Page
	if moved {
		c.state.SessionList.Page = page.Page
	}
	changed := moved || !sameSessions(c.state.Sessions, page.Items) || c.state.SessionList.TotalPages != page.TotalPages
	if changed || forceRender || len(c.state.Sessions) == 0 {
		c.state.Sessions = page.Items
		c.state.SessionList.TotalPages = page.TotalPages
		c.renderSessionsLocked()
	}
	return nil
}

// writeCacheLocked persists the in-memory links when the links view is the
// clean page. Callers hold c.mu.
func (c *Controller) writeCacheLocked(syncedAt int64) {
	if _, err := c.cache.Write(c.state.LinkList, c.state.Links, syncedAt); err != nil && !errors.Is(err, ErrNotCacheable) {
		c.log.WithError(err).Warn("write cached links")
	}
}

// ShowLinks switches to the links listing and reloads it.
func (c *Controller) ShowLinks(ctx context.Context) error {
	c.mu.Lock()
	c.state.View = ViewLinks
	c.mu.Unlock()
	return c.Reload(ctx)
}

// ShowSessions switches to the sessions listing and reloads it.
func (c *Controller) ShowSessions(ctx context.Context) error {
	c.mu.Lock()
	c.state.View = ViewSessions
	c.mu.Unlock()
	return c.Reload(ctx)
}

// Configure sets the active view and its paging without fetching anything.
// A page below 1 is treated as 1 and an empty sort keeps the current one.
func (c *Controller) Configure(view View, page int, search, sort string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.state.View = view
	list := c.activeListLocked()
	list.Page = page
	list.Search = search
	if sort != "" {
		list.Sort = sort
	}
}

// NextPage moves the active listing forward one page when there is one.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	list := c.activeListLocked()
	if list.Page >= list.TotalPages {
		c.mu.Unlock()
		return nil
	}
	list.Page++
	c.mu.Unlock()
	return c.Reload(ctx)
}

// PrevPage moves the active listing back one page when not on the first.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	list := c.activeListLocked()
	if list.Page <= 1 {
		c.mu.Unlock()
		return nil
	}
	list.Page--
	c.mu.Unlock()
	return c.Reload(ctx)
}

// SetSort changes the order of the active listing and returns to page 1.
func (c *Controller) SetSort(ctx context.Context, sort string) error {
	c.mu.Lock()
	list := c.activeListLocked()
	list.Sort = sort
	list.Page = 1
	c.mu.Unlock()
	return c.Reload(ctx)
}

// Search filters the active listing once the query has been stable for the
// debounce interval. Each call restarts the interval.
func (c *Controller) Search(ctx context.Context, query string) {
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchTimer != nil && c.searchTimer.Stop() {
		c.bg.Done()
	}
	c.bg.Add(1)
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		defer c.bg.Done()
		if err := c.applySearch(ctx, query); err != nil {
			c.log.WithError(err).Debug("search")
		}
	})
}

func (c *Controller) applySearch(ctx context.Context, query string) error {
	c.mu.Lock()
	list := c.activeListLocked()
	list.Search = query
	list.Page = 1
	c.mu.Unlock()
	return c.Reload(ctx)
}

// activeListLocked returns the paging state of the view on screen. Callers hold c.mu.
func (c *Controller) activeListLocked() *ListState {
	if c.state.View == ViewSessions {
		return &c.state.SessionList
	}
	return &c.state.LinkList
}

func errorMessage(err error) string {
	var re *remote.RequestError
	switch {
	case errors.As(err, &re):
		return re.Message
	case errors.Is(err, remote.ErrSessionExpired):
		return remote.MsgSessionExpired
	default:
		return "Could not reach the server."
	}
}
