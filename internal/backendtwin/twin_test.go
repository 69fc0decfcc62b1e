package backendtwin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type twinClient struct {
	t     *testing.T
	base  string
	token string
}

func setupTwin(t *testing.T, b Behavior) (*Handler, *twinClient) {
	t.Helper()
	h, err := NewHandler(Options{Behavior: b, Secret: []byte("test-secret")})
	require.NoError(t, err)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return h, &twinClient{t: t, base: srv.URL}
}

func (c *twinClient) do(method, path string, body any, header map[string]string) (int, http.Header, string) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, resp.Header, string(data)
}

func (c *twinClient) login(username, password string) {
	c.t.Helper()
	status, _, _ := c.do(http.MethodPost, "/auth/register", map[string]string{"username": username, "password": password}, nil)
	require.Equal(c.t, http.StatusCreated, status)
	status, _, body := c.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password}, nil)
	require.Equal(c.t, http.StatusOK, status)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(c.t, resp.Token)
	c.token = resp.Token
}

func TestRegisterConflict(t *testing.T) {
	_, c := setupTwin(t, Behavior{})
	creds := map[string]string{"username": "sam", "password": "pw"}

	status, _, _ := c.do(http.MethodPost, "/auth/register", creds, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, _, body := c.do(http.MethodPost, "/auth/register", creds, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.JSONEq(t, `{"detail":"Username already taken"}`, body)
}

func TestLoginWrongPassword(t *testing.T) {
	_, c := setupTwin(t, Behavior{})
	c.do(http.MethodPost, "/auth/register", map[string]string{"username": "sam", "password": "pw"}, nil)

	status, _, body := c.do(http.MethodPost, "/auth/login", map[string]string{"username": "sam", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Incorrect username or password")
}

func TestAuth_RawTokenOnly(t *testing.T) {
	_, c := setupTwin(t, Behavior{})

	status, _, _ := c.do(http.MethodGet, "/roadtrips/1/checklist", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	c.login("sam", "pw")
	status, _, _ = c.do(http.MethodGet, "/roadtrips/1/checklist", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, body := c.do(http.MethodGet, "/roadtrips/1/checklist", nil, map[string]string{"Authorization": "Bearer " + c.token})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "raw token")

	status, _, _ = c.do(http.MethodGet, "/roadtrips/1/checklist", nil, map[string]string{"Authorization": "forged.token.value"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChecklist_NullWhenEmpty(t *testing.T) {
	_, c := setupTwin(t, Behavior{})
	c.login("sam", "pw")

	status, _, body := c.do(http.MethodGet, "/roadtrips/42/checklist", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"roadtripId":42,"checklistElements":null}`, body)
}

func TestChecklist_Lifecycle(t *testing.T) {
	_, c := setupTwin(t, Behavior{})
	c.login("sam", "pw")
	item := map[string]any{"name": "Tent", "category": "TASK", "priority": "HIGH", "assignedUser": "kim"}

	status, _, body := c.do(http.MethodPost, "/roadtrips/42/checklist", item, nil)
	require.Equal(t, http.StatusCreated, status)
	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.EqualValues(t, 1, created["id"])

	status, _, body = c.do(http.MethodGet, "/roadtrips/42/checklist", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"roadtripId":42,"checklistElements":[{"checklistElementId":1,"name":"Tent","description":"","category":"TASK","priority":"HIGH","completed":false,"assignedUser":{"username":"kim"}}]}`, body)

	item["completed"] = true
	status, _, body = c.do(http.MethodPut, "/roadtrips/42/checklist/1", item, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)

	status, _, _ = c.do(http.MethodDelete, "/roadtrips/42/checklist/1", nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, header, body := c.do(http.MethodPut, "/roadtrips/42/checklist/1", item, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, header.Get("Content-Type"), "text/plain")
	assert.Equal(t, "Not Found\n", body)
}

func TestChecklist_RejectsRetiredCategory(t *testing.T) {
	_, c := setupTwin(t, Behavior{})
	c.login("sam", "pw")

	status, _, body := c.do(http.MethodPost, "/roadtrips/42/checklist", map[string]any{"name": "Tent", "category": "TODO", "priority": "MEDIUM"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, `"loc":["body","category"]`)
	assert.Contains(t, body, `permitted: 'ITEM', 'TASK'`)

	status, _, body = c.do(http.MethodPost, "/roadtrips/42/checklist", map[string]any{"name": "Tent", "category": "ITEM", "priority": "URGENT"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, `permitted: 'LOW', 'MEDIUM', 'HIGH'`)
}

func TestChecklist_Envelopes(t *testing.T) {
	h, c := setupTwin(t, Behavior{})
	c.login("sam", "pw")
	c.do(http.MethodPost, "/roadtrips/7/checklist", map[string]any{"name": "Tent", "category": "ITEM", "priority": "LOW"}, nil)

	for _, env := range []string{"elements", "items"} {
		h.SetBehavior(Behavior{ChecklistEnvelope: env, ChecklistIDField: "elementId"})
		_, _, body := c.do(http.MethodGet, "/roadtrips/7/checklist", nil, nil)
		var got map[string][]map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &got), body)
		require.Len(t, got[env], 1, env)
		assert.EqualValues(t, 1, got[env][0]["elementId"])
	}

	h.SetBehavior(Behavior{ChecklistEnvelope: "array", ChecklistIDField: "id"})
	_, _, body := c.do(http.MethodGet, "/roadtrips/7/checklist", nil, nil)
	var arr []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &arr))
	require.Len(t, arr, 1)
	assert.EqualValues(t, 1, arr[0]["id"])
}

func TestCreateResponses(t *testing.T) {
	h, c := setupTwin(t, Behavior{})
	c.login("sam", "pw")
	item := map[string]any{"name": "Tent", "category": "ITEM", "priority": "LOW"}

	h.SetBehavior(Behavior{Create: CreateEmpty})
	status, _, body := c.do(http.MethodPost, "/roadtrips/1/checklist", item, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)

	h.SetBehavior(Behavior{Create: CreateID})
	status, _, body = c.do(http.MethodPost, "/roadtrips/1/routes", map[string]any{"name": "Coast"}, nil)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `2`, body)
}

func TestRoutes_Lifecycle(t *testing.T) {
	_, c := setupTwin(t, DefaultBehavior())
	c.login("sam", "pw")

	status, _, body := c.do(http.MethodGet, "/roadtrips/3/routes", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"roadtripId":3,"routes":null}`, body)

	route := map[string]any{"name": "Coast", "waypoints": []map[string]any{{"latitude": 1.5, "longitude": 2.5, "label": "Start"}}}
	status, _, body = c.do(http.MethodPost, "/roadtrips/3/routes", route, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"routeId":1,"name":"Coast","waypoints":[{"lat":1.5,"lng":2.5,"label":"Start"}]}`, body)

	status, _, _ = c.do(http.MethodDelete, "/roadtrips/3/routes/1", nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _, _ = c.do(http.MethodDelete, "/roadtrips/3/routes/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	c.do(http.MethodPost, "/roadtrips/3/routes", route, nil)
	status, _, _ = c.do(http.MethodDelete, "/roadtrips/3/routes", nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
	_, _, body = c.do(http.MethodGet, "/roadtrips/3/routes", nil, nil)
	assert.JSONEq(t, `{"roadtripId":3,"routes":null}`, body)
}

func TestStart(t *testing.T) {
	s, err := Start("127.0.0.1:0", Options{})
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, s.Close(ctx))
	}()

	resp, err := http.Get(s.URL + "/nowhere")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTokenIssuer(t *testing.T) {
	ti, err := newTokenIssuer([]byte("k"), time.Minute)
	require.NoError(t, err)
	tok, err := ti.issue("sam")
	require.NoError(t, err)
	user, err := ti.verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "sam", user)

	other, err := newTokenIssuer([]byte("other"), time.Minute)
	require.NoError(t, err)
	_, err = other.verify(tok)
	assert.Error(t, err)
}
