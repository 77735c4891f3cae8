package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  string
	body   map[string]int64
}

func recordingServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"item":null}`))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestRunGet(t *testing.T) {
	srv, c := recordingServer(t, http.StatusOK)
	var out bytes.Buffer
	require.NoError(t, runGet(srv.URL, "/api/photos/next", nil, &out))
	assert.Equal(t, http.MethodGet, c.method)
	assert.Equal(t, "/api/photos/next", c.path)
	assert.Contains(t, out.String(), `"item":null`)
}

func TestRunPostID(t *testing.T) {
	srv, c := recordingServer(t, http.StatusOK)
	var out bytes.Buffer
	require.NoError(t, runPostID(srv.URL, "/api/videos/like", 12, &out))
	assert.Equal(t, http.MethodPost, c.method)
	assert.Equal(t, "/api/videos/like", c.path)
	assert.Equal(t, int64(12), c.body["id"])
}

func TestRunGet_NonOKIsError(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusBadRequest)
	err := runGet(srv.URL, "/api/photos", pageQuery(0, 0), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "http 400"))
}

func TestTagQueryValues(t *testing.T) {
	q := tagQueryValues([]string{"sunset", "beach"}, []string{"night"}, 2, 10)
	assert.Equal(t, []string{"sunset", "beach"}, q["include"])
	assert.Equal(t, []string{"night"}, q["exclude"])
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("pageSize"))

	assert.Empty(t, pageQuery(0, 0))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"photos", "next"}, {"photos", "like"}, {"videos", "unlike"}, {"videos", "list"},
		{"tags", "query"}, {"tags", "index"}, {"tags", "detail"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	_, err := parseID("x")
	assert.Error(t, err)
}
