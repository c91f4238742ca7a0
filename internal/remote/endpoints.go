package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/joestump/bytevault/internal/tokenstore"
)

// Register creates an account and stores the returned credentials.
func (c *Client) Register(ctx context.Context, email, password string) (*tokenstore.User, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login signs in and stores the returned credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*tokenstore.User, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*tokenstore.User, error) {
	resp, err := c.call(ctx, http.MethodPost, path, map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var data struct {
		User   tokenstore.User   `json:"user"`
		Tokens tokenstore.Tokens `json:"tokens"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, errors.Wrap(err, "decode auth response")
	}
	if err := c.tokens.SaveSession(data.Tokens, data.User); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Logout tells the server and always drops the local credentials. A server
// failure is logged, not returned.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.call(ctx, http.MethodPost, "/auth/logout", nil); err != nil {
		c.log.WithError(err).Debug("server logout failed")
	}
	return c.tokens.Clear()
}

// FetchLinks returns one page of links.
func (c *Client) FetchLinks(ctx context.Context, q ListQuery) (*Page[Link], error) {
	resp, err := c.call(ctx, http.MethodGet, "/links?"+q.encode(true), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[Link](resp)
}

// SaveLink creates a link. A duplicate URL fails with a 409 RequestError.
func (c *Client) SaveLink(ctx context.Context, in NewLink) (*Link, error) {
	resp, err := c.call(ctx, http.MethodPost, "/links", in)
	if err != nil {
		return nil, err
	}
	var l Link
	if err := json.Unmarshal(resp.Data, &l); err != nil {
		return nil, errors.Wrap(err, "decode link")
	}
	return &l, nil
}

func (c *Client) DeleteLink(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/links/"+url.PathEscape(id), nil)
	return err
}

// BulkDeleteLinks removes several links and returns how many the server deleted.
func (c *Client) BulkDeleteLinks(ctx context.Context, ids []string) (int, error) {
	resp, err := c.call(ctx, http.MethodDelete, "/links", map[string][]string{"ids": ids})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// FetchSessions returns one page of sessions.
func (c *Client) FetchSessions(ctx context.Context, q ListQuery) (*Page[Session], error) {
	resp, err := c.call(ctx, http.MethodGet, "/sessions?"+q.encode(false), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[Session](resp)
}

func (c *Client) CreateSession(ctx context.Context, in NewSession) (*Session, error) {
	resp, err := c.call(ctx, http.MethodPost, "/sessions", in)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp)
}

func (c *Client) UpdateSession(ctx context.Context, id string, patch SessionPatch) (*Session, error) {
	resp, err := c.call(ctx, http.MethodPut, "/sessions/"+url.PathEscape(id), patch)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp)
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil)
	return err
}

// Export returns the raw export document. It goes through the same refresh
// handling as every other call.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	raw, err := c.do(ctx, http.MethodGet, "/export/json", nil)
	if err != nil {
		return nil, err
	}
	if raw.status < 200 || raw.status >= 300 {
		_, err := decodeResponse(raw)
		return nil, err
	}
	return raw.body, nil
}

func (q ListQuery) encode(withSession bool) string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if withSession && q.SessionID != "" {
		v.Set("session_id", q.SessionID)
	}
	return v.Encode()
}

func decodePage[T any](resp *response) (*Page[T], error) {
	items := []T{}
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &items); err != nil {
			return nil, errors.Wrap(err, "decode page")
		}
	}
	return &Page[T]{Items: items, Page: resp.Page, TotalPages: resp.TotalPages}, nil
}

func decodeSession(resp *response) (*Session, error) {
	var s Session
	if err := json.Unmarshal(resp.Data, &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &s, nil
}
