// Package supabase talks to a Supabase project over its REST (PostgREST)
// and auth (GoTrue) HTTP APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"seulink/internal/domain"
	"seulink/internal/store"
)

// Client implements store.Client against a Supabase project.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logrus.FieldLogger
	auth    *Auth
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the project at baseURL using the anon key.
func New(baseURL, apiKey string, logger logrus.FieldLogger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logger.WithField("component", "supabase"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = &Auth{client: c}
	return c, nil
}

// From starts a query on table.
func From[T any](c *Client, table string) *Query[T] {
	return &Query[T]{client: c, table: table, filters: url.Values{}}
}

func (c *Client) Profiles() store.Query[domain.UserProfile] {
	return From[domain.UserProfile](c, domain.ProfilesTable)
}
func (c *Client) Auth() store.Auth { return c.auth }
func (c *Client) Mode() store.Mode { return store.ModeRemote }
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	token   string
	headers map[string]string
}

// do sends req and decodes a 2xx JSON response into out.
// Non-2xx responses are returned as *store.Error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	token := req.token
	if token == "" {
		token = c.apiKey
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	log := c.log.WithFields(logrus.Fields{"method": req.method, "path": req.path})
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.WithError(err).Error("Request failed")
		return fmt.Errorf("supabase request %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, raw)
		log.WithField("status", resp.StatusCode).WithError(apiErr).Debug("Request returned an error")
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorBody covers both the PostgREST and the GoTrue error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Msg              string          `json:"msg"`
	ErrorCode        string          `json:"error_code"`
	ErrorName        string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeError(status int, raw []byte) *store.Error {
	e := &store.Error{Status: status, Message: http.StatusText(status)}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		if s := strings.TrimSpace(string(raw)); s != "" {
			e.Message = s
		}
		return e
	}

	var code string
	if len(body.Code) > 0 && json.Unmarshal(body.Code, &code) != nil {
		// GoTrue sends the HTTP status as a numeric code.
		code = ""
	}
	switch {
	case code != "":
		e.Code = code
	case body.ErrorCode != "":
		e.Code = body.ErrorCode
	case body.ErrorName != "":
		e.Code = body.ErrorName
	}
	for _, m := range []string{body.Message, body.Msg, body.ErrorDescription} {
		if m != "" {
			e.Message = m
			break
		}
	}
	e.Details = body.Details
	e.Hint = body.Hint
	return e
}
