package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/internal/credential"
)

type seenRequest struct {
	method string
	path   string
	header http.Header
	body   string
}

type capturedRequest struct {
	mu   sync.Mutex
	last seenRequest
}

func (c *capturedRequest) snapshot() seenRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func newCaptureServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got.mu.Lock()
		got.last = seenRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), body: string(data)}
		got.mu.Unlock()
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestHeaders_RawTokenNoPrefix(t *testing.T) {
	store := credential.NewMemoryStore("")
	c := New("http://example.test", store)

	h := c.Headers(nil)
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	_, present := h["Authorization"]
	assert.False(t, present, "no Authorization header without a token")

	require.NoError(t, store.SetToken("eyJhbGciOi.payload.sig"))
	h = c.Headers(nil)
	assert.Equal(t, "eyJhbGciOi.payload.sig", h.Get("Authorization"))

	require.NoError(t, store.SetToken("null"))
	h = c.Headers(nil)
	_, present = h["Authorization"]
	assert.False(t, present, "the literal null string is not a token")
}

func TestHeaders_OverridesWin(t *testing.T) {
	c := New("http://example.test", credential.NewMemoryStore("tok"))
	h := c.Headers(map[string]string{
		"Content-Type":  "text/plain",
		"Authorization": "other",
		"X-Trip":        "1",
	})
	assert.Equal(t, "text/plain", h.Get("Content-Type"))
	assert.Equal(t, "other", h.Get("Authorization"))
	assert.Equal(t, "1", h.Get("X-Trip"))
}

func TestURL(t *testing.T) {
	c := New("http://example.test/api/", nil)
	assert.Equal(t, "http://example.test/api", c.BaseDomain())
	assert.Equal(t, "http://example.test/api/roadtrips/1", c.URL("roadtrips/1"))
	assert.Equal(t, "http://example.test/api/roadtrips/1", c.URL("/roadtrips/1"))
}

func TestDo_TokenReadFreshEveryCall(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusNoContent, "", "")
	store := credential.NewMemoryStore("first")
	c := New(srv.URL, store)

	resp, err := c.Do(context.Background(), Request{Method: MethodGet, Path: "/roadtrips/1/checklist"})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "first", got.snapshot().header.Get("Authorization"))

	require.NoError(t, store.SetToken("second"))
	resp, err = c.Do(context.Background(), Request{Method: MethodGet, Path: "/roadtrips/1/checklist"})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "second", got.snapshot().header.Get("Authorization"))

	require.NoError(t, store.ClearToken())
	resp, err = c.Do(context.Background(), Request{Method: MethodGet, Path: "/roadtrips/1/checklist"})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, got.snapshot().header.Values("Authorization"))
}

func TestDo_BodyEncoding(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusNoContent, "", "")
	c := New(srv.URL, nil)

	resp, err := c.Do(context.Background(), Request{
		Method: MethodPost,
		Path:   "roadtrips/42/checklist",
		Body:   map[string]string{"name": "Pack tent"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.MethodPost, got.snapshot().method)
	assert.Equal(t, "/roadtrips/42/checklist", got.snapshot().path)
	assert.JSONEq(t, `{"name":"Pack tent"}`, got.snapshot().body)

	resp, err = c.Do(context.Background(), Request{
		Method: MethodGet,
		Path:   "/roadtrips/42/checklist",
		Body:   map[string]string{"ignored": "yes"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, got.snapshot().body, "GET never carries a body")
}

type countingDoer struct{ calls int }

func (d *countingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("unexpected call")
}

type stubDoer struct{ body string }

func (d stubDoer) Do(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func TestSend_CustomDoerJSON(t *testing.T) {
	c := New("http://example.test", nil, WithDoer(stubDoer{body: `{"checklistElements":[{"id":3,"name":"Map"}]}`}))
	out, err := c.Send(context.Background(), Request{Method: MethodGet, Path: "/roadtrips/1/checklist"})
	require.NoError(t, err)
	require.Equal(t, JSONSuccess, out.Kind)
	assert.Contains(t, string(out.Payload), `"Map"`)
}

func TestDo_ValidationBeforeNetwork(t *testing.T) {
	doer := &countingDoer{}
	c := New("http://example.test", nil, WithDoer(doer))

	_, err := c.Do(context.Background(), Request{Method: "PATCH", Path: "/x"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = c.Do(context.Background(), Request{Method: MethodPost, Path: "/x", Body: make(chan int)})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.Zero(t, doer.calls)
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, nil, WithTimeout(2*time.Second))
	_, err := c.Do(context.Background(), Request{Method: MethodGet, Path: "/roadtrips/1/routes"})
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsHTTP(err))
	assert.Zero(t, StatusOf(err))

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.MethodGet, ne.Method)
	assert.Contains(t, ne.URL, "/roadtrips/1/routes")
}

func TestSend_HTTPErrorStaysInOutcome(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusNotFound, "text/plain", "Not Found")
	c := New(srv.URL, nil)

	out, err := c.Send(context.Background(), Request{Method: MethodPut, Path: "/roadtrips/42/checklist/7", Body: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, UnstructuredError, out.Kind)
	require.NotNil(t, out.Err())
	assert.Equal(t, 404, out.Err().Status)

	_, err = c.Call(context.Background(), Request{Method: MethodPut, Path: "/roadtrips/42/checklist/7", Body: map[string]string{}})
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))
	assert.Contains(t, err.Error(), "Not Found")
}

func TestSend_Success(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK, "application/json", `{"roadtripId":42}`)
	c := New(srv.URL, nil)

	out, err := c.Call(context.Background(), Request{Method: MethodGet, Path: "/roadtrips/42/checklist"})
	require.NoError(t, err)
	assert.Equal(t, JSONSuccess, out.Kind)
	assert.JSONEq(t, `{"roadtripId":42}`, string(out.Payload))
	assert.Nil(t, out.Err())
}

func TestDo_ContextCancelled(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK, "", "")
	c := New(srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Do(ctx, Request{Method: MethodGet, Path: "/"})
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.ErrorIs(t, err, context.Canceled)
}
