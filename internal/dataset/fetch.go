package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrResourceNotFound is returned by fetchers when a resource file does not exist.
var ErrResourceNotFound = errors.New("resource not found")

// Fetcher opens a named CSV resource such as "requests.csv".
type Fetcher interface {
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirFetcher reads resources from a local directory.
type DirFetcher struct {
	Dir string
}

// NewDirFetcher constructs a DirFetcher rooted at dir.
func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{Dir: dir}
}

// Fetch opens dir/name.
func (f *DirFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid resource name %q", name)
	}
	file, err := os.Open(filepath.Join(f.Dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrResourceNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return file, nil
}

// HTTPFetcher downloads resources relative to a base URL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher builds an HTTPFetcher with the given per-request timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch issues GET {BaseURL}/{name}. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	target := f.BaseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrResourceNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}
	return resp.Body, nil
}
