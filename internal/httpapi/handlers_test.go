package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mtlist/internal/httpapi"
	"mtlist/internal/servers"
	"mtlist/internal/sink"
)

type fakePoller struct {
	mu     sync.Mutex
	more   int
	latest *servers.Response
}

func (f *fakePoller) More(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.more++
}

func (f *fakePoller) Latest() *servers.Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.latest
}

func testRouter(t *testing.T, fp *fakePoller) (*gin.Engine, *sink.Regions) {
	t.Helper()
	regions := sink.NewRegions()
	r := httpapi.NewRouter(httpapi.Deps{
		Regions: regions,
		Poller:  fp,
		Target:  "servers_table",
		MoreURL: "/more",
	}, zap.NewNop(), true)
	return r, regions
}

func fetch(t *testing.T, r http.Handler, method string, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func readBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body, errBody := io.ReadAll(w.Body)
	require.NoError(t, errBody)
	return string(body)
}

func TestGetPage(t *testing.T) {
	r, regions := testRouter(t, &fakePoller{})

	w := fetch(t, r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, readBody(t, w), `<div id="servers_table"></div>`)

	regions.Replace("servers_table", `<table class="mts_table"></table>`)
	w = fetch(t, r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	require.Contains(t, readBody(t, w), `<div id="servers_table"><table class="mts_table"></table></div>`)
}

func TestGetRegion(t *testing.T) {
	r, regions := testRouter(t, &fakePoller{})

	require.Equal(t, http.StatusNotFound, fetch(t, r, http.MethodGet, "/region/servers_table").Code)

	regions.Replace("servers_table", "<table></table>")
	w := fetch(t, r, http.MethodGet, "/region/servers_table")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "<table></table>", readBody(t, w))
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPostMore(t *testing.T) {
	fp := &fakePoller{}
	r, _ := testRouter(t, fp)

	w := fetch(t, r, http.MethodPost, "/more")
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	require.Equal(t, 1, fp.more)

	require.Equal(t, http.StatusNotFound, fetch(t, r, http.MethodGet, "/more").Code)
	require.Equal(t, 1, fp.more)
}

func TestGetServers(t *testing.T) {
	fp := &fakePoller{}
	r, _ := testRouter(t, fp)

	require.Equal(t, http.StatusServiceUnavailable, fetch(t, r, http.MethodGet, "/api/servers").Code)

	body := `{"list":[{"address":"b"},{"address":"a"}],"total":{"clients":0}}`
	resp, errDecode := servers.Decode([]byte(body))
	require.NoError(t, errDecode)
	fp.latest = resp

	w := fetch(t, r, http.MethodGet, "/api/servers")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, body, readBody(t, w), "listing is passed through unchanged and unsorted")
}

func TestHealthAndCORS(t *testing.T) {
	r, _ := testRouter(t, &fakePoller{})

	w := fetch(t, r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal([]byte(readBody(t, w)), &status))
	require.Equal(t, "ok", status["status"])

	w = fetch(t, r, http.MethodOptions, "/api/servers")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}
