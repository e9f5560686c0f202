// Package api is the REST client for the panel backend.
//
// Every call goes through Client.Do, which attaches the persisted bearer
// token, maps non-2xx responses to *errors.Error values and clears the
// credential on a 401. Resource endpoints are grouped into services
// reached from the client (c.Users(), c.Clients(), ...).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/log"
	"github.com/felixgeelhaar/painel/internal/version"
)

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:3000/api"

// Credentials is the persisted token the client authenticates with
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Config holds client configuration.
type Config struct {
	// BaseURL is prepended to relative request paths (default: DefaultBaseURL)
	BaseURL string

	// HTTPClient performs the requests. The default has no timeout; bound
	// calls with the request context instead.
	HTTPClient *http.Client

	// Credentials supplies the bearer token and is cleared on a 401 (required)
	Credentials Credentials

	// Logger receives one debug line per request (default: log.DefaultLogger)
	Logger *log.Logger

	// Options are the fallback option lists (default: DefaultOptions)
	Options *OptionDefaults

	// UserAgent overrides the default "painel/<version> (<platform>)"
	UserAgent string
}

// Request describes a single API call
type Request struct {
	Method string
	Path   string

	// Query is a struct with `url` tags encoded with go-querystring
	Query any

	// Header values override the defaults
	Header http.Header

	// Body is JSON-encoded when non-nil
	Body any

	// Anonymous requests carry no bearer token and never raise the
	// session-invalidated event, though a 401 still clears the credential
	Anonymous bool
}

// Client is the panel API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	logger     *log.Logger
	userAgent  string

	mu        sync.Mutex
	options   OptionDefaults
	armed     bool
	nextID    int
	listeners map[int]func()
}

// NewClient creates a new API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "api client requires credentials", nil)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid base URL %q", cfg.BaseURL), err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.GetInfo().UserAgent()
	}

	options := DefaultOptions()
	if cfg.Options != nil {
		options = cfg.Options.Merge(DefaultOptions())
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		creds:      cfg.Credentials,
		logger:     logger.With("component", "api"),
		userAgent:  userAgent,
		options:    options,
		armed:      true,
		listeners:  make(map[int]func()),
	}, nil
}

// BaseURL returns the resolved base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnInvalidated registers fn to run when a 401 invalidates the session.
// The returned func removes the listener.
func (c *Client) OnInvalidated(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Arm marks a new credential generation. The next 401 after Arm fires the
// invalidation listeners; further 401s stay silent until Arm is called again.
func (c *Client) Arm() {
	c.mu.Lock()
	c.armed = true
	c.mu.Unlock()
}

func (c *Client) invalidate() {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = false
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// URL resolves path against the base URL. Absolute http(s) URLs pass through.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do performs req and decodes a successful JSON response into out.
// out may be nil. A 204 or empty body leaves out untouched.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	requestID := httpReq.Header.Get("X-Request-ID")
	logger := c.logger.With("method", httpReq.Method, "path", req.Path, "request_id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WithError(err).Debug("request failed")
		return errors.NewNetwork(err)
	}
	defer resp.Body.Close()

	logger.Debug("request completed", "status", resp.StatusCode, "duration", time.Since(start))

	return c.parseResponse(ctx, req, resp, out)
}

// Call performs req and returns the decoded response as T
func Call[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	err := c.Do(ctx, req, &out)
	return out, err
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.URL(req.Path)
	if req.Query != nil {
		values, err := query.Values(req.Query)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRequest, errors.KindUnknown, "failed to encode query", err)
		}
		if encoded := values.Encode(); encoded != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + encoded
		}
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRequest, errors.KindUnknown, "failed to marshal request body", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRequest, errors.KindUnknown, "failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if !req.Anonymous {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	return httpReq, nil
}

// errorBody is the error payload shape of the backend. Different routes use
// different field names.
type errorBody struct {
	Message string `json:"message"`
	Erro    string `json:"erro"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Erro != "":
		return b.Erro
	default:
		return b.Error
	}
}

func (c *Client) parseResponse(ctx context.Context, req Request, resp *http.Response, out any) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		var body errorBody
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &body)

		if err := c.creds.Clear(context.WithoutCancel(ctx)); err != nil {
			c.logger.WithError(err).Warn("failed to clear credentials after 401")
		}
		if !req.Anonymous {
			c.invalidate()
		}
		return errors.NewUnauthorized(body.text())

	case resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.NewForbidden()

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var body errorBody
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &body)
		return errors.NewServer(resp.StatusCode, body.text())
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetwork(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 || out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewDecode(err)
	}
	return nil
}
