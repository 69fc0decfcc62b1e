// Package transport issues requests against the roadtrip backend and turns every
// response into exactly one classified Outcome.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roadtrip/internal/credential"
	"roadtrip/internal/logging"
)

// Method is an HTTP verb the backend accepts.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// Request describes one call. Path is relative to the client's base domain.
// Header entries override the defaults.
type Request struct {
	Method Method
	Path   string
	Body   any
	Header map[string]string
}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the single transport shared by every feature.
type Client struct {
	baseDomain string
	creds      credential.Provider
	doer       Doer
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the HTTP executor.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithTimeout installs an *http.Client with the given timeout. Zero leaves the
// transport default in place.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.doer = &http.Client{Timeout: d}
		}
	}
}

// New creates a client for baseDomain that reads its token from creds on every call.
// creds may be nil for anonymous clients.
func New(baseDomain string, creds credential.Provider, opts ...Option) *Client {
	c := &Client{
		baseDomain: strings.TrimRight(baseDomain, "/"),
		creds:      creds,
		doer:       http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseDomain returns the configured base domain without a trailing slash.
func (c *Client) BaseDomain() string { return c.baseDomain }

// URL joins the base domain and path, forcing a leading slash on path.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseDomain + path
}

// Headers builds the final header set for one request:
// content type, then the current token (if any), then overrides.
func (c *Client) Headers(overrides map[string]string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	if c.creds != nil {
		if tok, ok := c.creds.Token(); ok {
			// Raw token, no scheme prefix.
			h.Set("Authorization", tok)
		}
	}
	for k, v := range overrides {
		h.Set(k, v)
	}
	return h
}

// Do issues exactly one HTTP call. Transport failures come back as *NetworkError,
// bad descriptors as *ValidationError. The caller owns the response body.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	if !req.Method.valid() {
		return nil, &ValidationError{Field: "method", Reason: fmt.Sprintf("unsupported method %q", req.Method)}
	}

	var body io.Reader
	if req.Body != nil && req.Method != MethodGet {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &ValidationError{Field: "body", Reason: fmt.Sprintf("not JSON-encodable: %v", err)}
		}
		body = bytes.NewReader(data)
	}

	url := c.URL(req.Path)
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), url, body)
	if err != nil {
		return nil, &ValidationError{Field: "request", Reason: err.Error()}
	}
	httpReq.Header = c.Headers(req.Header)

	rl := logging.WithRequestID(logging.CategoryAPI, logging.NewRequestID()).
		WithField("method", string(req.Method)).
		WithField("url", url)
	start := time.Now()

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		rl.Error("request failed after %v: %v", time.Since(start), err)
		return nil, &NetworkError{Method: string(req.Method), URL: url, Err: err}
	}
	rl.Debug("status %d in %v", resp.StatusCode, time.Since(start))
	return resp, nil
}

// Send issues the request and classifies the response. The error is only ever a
// *NetworkError or *ValidationError; HTTP failures are carried by the Outcome.
func (c *Client) Send(ctx context.Context, req Request) (Outcome, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	out := Classify(resp)
	if out.ParseErr != nil {
		logging.APIWarn("%s %s: %v (treated as empty)", req.Method, req.Path, out.ParseErr)
	}
	if he := out.Err(); he != nil {
		if he.Status >= http.StatusInternalServerError {
			logging.APIError("%s %s: status %d: %s", req.Method, req.Path, he.Status, he.Message)
		} else {
			logging.APIWarn("%s %s: status %d: %s", req.Method, req.Path, he.Status, he.Message)
		}
	}
	return out, nil
}

// Call is Send with HTTP failures folded into the error return, for callers that
// only care about success payloads.
func (c *Client) Call(ctx context.Context, req Request) (Outcome, error) {
	out, err := c.Send(ctx, req)
	if err != nil {
		return out, err
	}
	if he := out.Err(); he != nil {
		return out, he
	}
	return out, nil
}
