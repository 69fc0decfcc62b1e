package transport

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorded(status int, header map[string]string, body string) *http.Response {
	rec := httptest.NewRecorder()
	for k, v := range header {
		rec.Header().Set(k, v)
	}
	rec.WriteHeader(status)
	_, _ = rec.WriteString(body)
	return rec.Result()
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestClassify_EmptySuccess(t *testing.T) {
	jsonType := map[string]string{"Content-Type": "application/json"}
	tests := []struct {
		name string
		resp *http.Response
	}{
		{"204 no body", recorded(http.StatusNoContent, nil, "")},
		{"204 with json content type", recorded(http.StatusNoContent, jsonType, "")},
		{"200 content-length zero", recorded(http.StatusOK, map[string]string{"Content-Length": "0", "Content-Type": "application/json"}, "")},
		{"201 content-length zero", recorded(http.StatusCreated, map[string]string{"Content-Length": "0"}, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(tt.resp)
			assert.Equal(t, EmptySuccess, out.Kind)
			assert.True(t, out.OK())
			assert.Nil(t, out.ParseErr)
			assert.Nil(t, out.Err())
		})
	}
}

func TestClassify_JSONSuccess(t *testing.T) {
	out := Classify(recorded(http.StatusOK,
		map[string]string{"Content-Type": "application/json; charset=utf-8"},
		`{"roadtripId":42,"checklistElements":[]}`))

	require.Equal(t, JSONSuccess, out.Kind)
	assert.Equal(t, http.StatusOK, out.Status)

	var v struct {
		RoadtripID int `json:"roadtripId"`
	}
	require.True(t, out.Decode(&v))
	assert.Equal(t, 42, v.RoadtripID)
}

func TestClassify_MalformedJSONIsEmpty(t *testing.T) {
	for _, body := range []string{`{"roadtripId":`, ""} {
		out := Classify(recorded(http.StatusOK, map[string]string{"Content-Type": "application/json"}, body))
		assert.Equal(t, EmptySuccess, out.Kind, "body=%q", body)
		require.NotNil(t, out.ParseErr, "body=%q", body)
		assert.Contains(t, out.ParseErr.Error(), "application/json")
		assert.False(t, out.Decode(&struct{}{}))
	}
}

func TestClassify_JSONReadFailureIsEmpty(t *testing.T) {
	resp := &http.Response{
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Header:        http.Header{"Content-Type": {"application/json"}},
		ContentLength: -1,
		Body:          io.NopCloser(failingReader{}),
	}
	out := Classify(resp)
	assert.Equal(t, EmptySuccess, out.Kind)
	require.NotNil(t, out.ParseErr)
}

func TestClassify_HandBuiltResponseKeepsJSON(t *testing.T) {
	// ContentLength is left at its zero value and no Content-Length header is set.
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"checklistElements":[{"id":1,"name":"Tent"}]}`)),
	}
	out := Classify(resp)
	require.Equal(t, JSONSuccess, out.Kind)
	assert.JSONEq(t, `{"checklistElements":[{"id":1,"name":"Tent"}]}`, string(out.Payload))
}

func TestClassify_NonJSONReadFailure(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"text/plain"}},
		Body:       io.NopCloser(io.MultiReader(strings.NewReader("partial"), failingReader{})),
	}
	out := Classify(resp)
	assert.Equal(t, NonJSONSuccess, out.Kind)
	assert.Equal(t, "partial", string(out.Raw))
	require.NotNil(t, out.ParseErr)
	assert.Equal(t, "text/plain", out.ParseErr.ContentType)
	assert.ErrorContains(t, out.ParseErr, "connection reset")
}

func TestClassify_NonJSONSuccess(t *testing.T) {
	out := Classify(recorded(http.StatusOK, map[string]string{"Content-Type": "text/plain"}, "17"))
	require.Equal(t, NonJSONSuccess, out.Kind)
	assert.Equal(t, "17", string(out.Raw))
	assert.Equal(t, "text/plain", out.ContentType)
	assert.False(t, out.Decode(new(int)))
	assert.Nil(t, out.ParseErr)
}

func TestClassify_ErrorKinds(t *testing.T) {
	structured := Classify(recorded(http.StatusBadRequest,
		map[string]string{"Content-Type": "application/json"}, `{"detail":"Name is required"}`))
	assert.Equal(t, StructuredError, structured.Kind)
	assert.False(t, structured.OK())
	require.NotNil(t, structured.Err())
	assert.Equal(t, "Name is required", structured.Err().Message)

	unstructured := Classify(recorded(http.StatusNotFound, map[string]string{"Content-Type": "text/plain"}, "Not Found"))
	assert.Equal(t, UnstructuredError, unstructured.Kind)
	require.NotNil(t, unstructured.Err())
	assert.Equal(t, 404, unstructured.Err().Status)
	assert.Contains(t, unstructured.Err().Message, "Not Found")

	// Error status wins over an empty body.
	empty := Classify(recorded(http.StatusInternalServerError, map[string]string{"Content-Length": "0"}, ""))
	assert.Equal(t, UnstructuredError, empty.Kind)
}

func TestClassify_ClosesBody(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusConflict} {
		body := &trackingBody{Reader: strings.NewReader(`{"detail":"x"}`)}
		Classify(&http.Response{
			StatusCode:    status,
			Header:        http.Header{"Content-Type": {"application/json"}},
			ContentLength: -1,
			Body:          body,
		})
		assert.True(t, body.closed, "status %d", status)
	}
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "JSONSuccess", JSONSuccess.String())
	assert.Equal(t, "UnstructuredError", UnstructuredError.String())
	assert.Equal(t, "OutcomeKind(9)", OutcomeKind(9).String())
}
