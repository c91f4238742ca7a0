// Package remote is the HTTP client for the ByteVault API. Every call
// carries the stored access token; a 401 triggers one refresh and a single
// replay of the original request.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/tokenstore"
)

// TokenStore is the credential storage the client reads and updates.
type TokenStore interface {
	Tokens() (tokenstore.Tokens, error)
	SaveTokens(tokenstore.Tokens) error
	SaveSession(tokenstore.Tokens, tokenstore.User) error
	Clear() error
}

// Client talks to the API rooted at baseURL (e.g. "http://localhost:5252/api").
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        logrus.FieldLogger
	userAgent  string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		log:        logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// response is the {success, data, error} envelope.
type response struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Count      int             `json:"count"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type rawResponse struct {
	status int
	body   []byte
}

// call issues an authenticated request and decodes the envelope. body is
// JSON encoded when non-nil.
func (c *Client) call(ctx context.Context, method, path string, body any) (*response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, errors.Wrap(err, "marshal body")
		}
	}
	raw, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	return decodeResponse(raw)
}

// do sends the request with the stored access token. On 401 with a stored
// refresh token it refreshes once and replays; a failed refresh clears the
// stored credentials and yields ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*rawResponse, error) {
	toks, err := c.tokens.Tokens()
	if err != nil {
		return nil, errors.Wrap(err, "read stored tokens")
	}

	res, err := c.send(ctx, method, path, payload, toks.AccessToken)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusUnauthorized || toks.RefreshToken == "" {
		return res, nil
	}

	c.log.WithField("path", path).Debug("access token rejected, refreshing")
	fresh, err := c.refresh(ctx, toks.RefreshToken)
	if err != nil {
		c.log.WithError(err).Debug("refresh failed, clearing credentials")
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.log.WithError(clearErr).Warn("clear credentials")
		}
		return nil, ErrSessionExpired
	}
	if err := c.tokens.SaveTokens(fresh); err != nil {
		return nil, errors.Wrap(err, "persist refreshed tokens")
	}
	return c.send(ctx, method, path, payload, fresh.AccessToken)
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (tokenstore.Tokens, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return tokenstore.Tokens{}, errors.Wrap(err, "marshal refresh body")
	}
	raw, err := c.send(ctx, http.MethodPost, "/auth/refresh", payload, "")
	if err != nil {
		return tokenstore.Tokens{}, err
	}
	resp, err := decodeResponse(raw)
	if err != nil {
		return tokenstore.Tokens{}, err
	}
	var data struct {
		Tokens tokenstore.Tokens `json:"tokens"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return tokenstore.Tokens{}, errors.Wrap(err, "decode refreshed tokens")
	}
	if data.Tokens.AccessToken == "" {
		return tokenstore.Tokens{}, errors.New("refresh returned no access token")
	}
	return data.Tokens, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*rawResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return &rawResponse{status: res.StatusCode, body: b}, nil
}

func decodeResponse(raw *rawResponse) (*response, error) {
	var resp response
	jsonErr := json.Unmarshal(raw.body, &resp)

	if raw.status < 200 || raw.status >= 300 {
		msg := defaultErrorMessage
		if jsonErr == nil && resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return nil, &RequestError{Status: raw.status, Message: msg}
	}
	if jsonErr != nil {
		return nil, errors.Wrapf(jsonErr, "unmarshal response body. Got: %s", truncate(raw.body, 200))
	}
	return &resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
