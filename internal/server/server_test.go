package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/squaremap/pkg/cache"
	"github.com/matzehuels/squaremap/pkg/observability"
	"github.com/matzehuels/squaremap/pkg/pipeline"
)

const orders = "Category,Sub-Category\n" +
	"Furniture,Chairs\n" +
	"Furniture,Tables\n" +
	"Technology,Phones\n" +
	"Furniture,Chairs\n"

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:"), logger)
	ts := httptest.NewServer(New(runner, logger, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, query, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/render"+query, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRenderPNG(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "?width=40&height=20", "text/csv", orders)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestRenderSVGWithDefaults(t *testing.T) {
	ts := newTestServer(t, WithDefaults(pipeline.Options{Format: "svg", Width: 64, Height: 32}))
	resp := post(t, ts, "", "text/csv", orders)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `width="64"`)
	assert.Contains(t, string(body), `data-name="Chairs"`)
}

func TestRenderJSON(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "?format=json&width=10&height=10", "text/csv", orders)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var out struct {
		Categories []map[string]any `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Furniture", out.Categories[0]["name"])
	assert.Contains(t, out.Categories[0], "leaves")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad width", "?width=wide", orders, http.StatusBadRequest, "INVALID_INPUT"},
		{"zero canvas", "?width=0&height=-1", orders, http.StatusBadRequest, "INVALID_INPUT"},
		{"huge canvas", "?width=20000&height=20000", orders, http.StatusBadRequest, "INVALID_INPUT"},
		{"no sub-categories", "", "Category,Sub-Category\nA,\n", http.StatusBadRequest, "DEGENERATE_INPUT"},
		{"bad format", "?format=gif", orders, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad kind", "?kind=ods", orders, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad order", "?order=random", orders, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad background", "?background=nope", orders, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing column", "", "Name,Value\na,1\n", http.StatusBadRequest, "MALFORMED_DATA"},
		{"no records", "", "Category,Sub-Category\n", http.StatusBadRequest, "DEGENERATE_INPUT"},
		{"empty body", "", "", http.StatusBadRequest, "INVALID_INPUT"},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.query, "text/csv", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, tt.code, string(decodeError(t, resp).Code))
		})
	}
}

func TestRenderBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, WithMaxBodyBytes(16))
	resp := post(t, ts, "", "text/csv", orders)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestRenderXLSXContentTypeMalformed(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "", xlsxContentType, orders)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MALFORMED_DATA", string(decodeError(t, resp).Code))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/render")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
	errors   int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func (h *recordingHTTPHooks) snapshot() ([]int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.statuses...), h.errors
}

func TestObserveHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	post(t, ts, "?width=10&height=10", "text/csv", orders)
	post(t, ts, "?format=gif", "text/csv", orders)

	// OnResponse fires after the client has the response.
	assert.Eventually(t, func() bool {
		statuses, _ := hooks.snapshot()
		return len(statuses) == 2
	}, 2*time.Second, 10*time.Millisecond)

	statuses, errs := hooks.snapshot()
	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusBadRequest}, statuses)
	assert.Equal(t, 1, errs)
}

func TestRequestKind(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(nil))
	kind, err := requestKind(r)
	require.NoError(t, err)
	assert.Equal(t, "csv", string(kind))

	r.Header.Set("Content-Type", xlsxContentType)
	kind, err = requestKind(r)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(kind))

	r = httptest.NewRequest(http.MethodPost, "/render?kind=CSV", nil)
	r.Header.Set("Content-Type", xlsxContentType)
	kind, err = requestKind(r)
	require.NoError(t, err)
	assert.Equal(t, "csv", string(kind))
}

func TestListenAndServeShutdown(t *testing.T) {
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	s := New(runner, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
