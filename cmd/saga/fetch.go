package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/npillmayer/saga/style"
)

// maxSheetSize limits the size of a linked stylesheet.
const maxSheetSize = 1 << 20

// newFetcher returns a fetcher for linked stylesheets. HTTP(S) URLs are
// fetched with client, everything else is read from a file relative to base.
func newFetcher(base string, client *http.Client) style.Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context, href string) (string, error) {
		if u, err := url.Parse(href); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			return fetchURL(ctx, client, href)
		}
		path := filepath.FromSlash(href)
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func fetchURL(ctx context.Context, client *http.Client, href string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: %s", href, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetSize))
	if err != nil {
		return "", err
	}
	tracer().Debugf("fetched %d bytes from %s", len(b), href)
	return string(b), nil
}
