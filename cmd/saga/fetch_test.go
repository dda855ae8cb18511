package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.cli")
	defer teardown()
	//
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "a.css"), []byte("p { color: red }"), 0o644))
	fetch := newFetcher(dir, nil)
	s, err := fetch(context.Background(), "css/a.css")
	require.NoError(t, err)
	assert.Equal(t, "p { color: red }", s)
	_, err = fetch(context.Background(), "css/missing.css")
	assert.Error(t, err)
}

func TestFetchURL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.cli")
	defer teardown()
	//
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site.css" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("h1 { margin: 0 }"))
	}))
	defer srv.Close()
	fetch := newFetcher(".", srv.Client())
	s, err := fetch(context.Background(), srv.URL+"/site.css")
	require.NoError(t, err)
	assert.Equal(t, "h1 { margin: 0 }", s)
	_, err = fetch(context.Background(), srv.URL+"/other.css")
	assert.Error(t, err)
}
