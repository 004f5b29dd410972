// Package assets fetches scene resources over HTTP or from a file system and
// decodes sprite sheet images.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// ErrStatus is matched by errors.Is for every non-2xx HTTP response.
var ErrStatus = errors.New("unexpected HTTP status")

// ErrTooLarge is matched by errors.Is when a response exceeds HTTPFetcher.MaxBytes.
var ErrTooLarge = errors.New("response too large")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

// Is makes StatusError match ErrStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Fetcher retrieves the raw bytes behind a URL or path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
	// MaxBytes caps the response body size; a larger body fails the fetch.
	// Zero means no limit.
	MaxBytes int64
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher using client, or http.DefaultClient if nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

// Fetch issues a GET and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("fetch %s: %w: over %d bytes", url, ErrTooLarge, f.MaxBytes)
	}
	return data, nil
}

// FSFetcher reads from an fs.FS. Leading slashes are ignored so manifest
// references resolve the same way they would against a web root.
type FSFetcher struct {
	fsys fs.FS
}

var _ Fetcher = (*FSFetcher)(nil)

// NewFSFetcher creates a fetcher reading from fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// NewDirFetcher creates a fetcher reading from a directory on disk.
func NewDirFetcher(dir string) *FSFetcher {
	return &FSFetcher{fsys: os.DirFS(dir)}
}

// Fetch reads the named file.
func (f *FSFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimPrefix(name, "/")
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Mux dispatches to the HTTP fetcher for http:// and https:// URLs and to the
// file fetcher for everything else.
type Mux struct {
	HTTP  Fetcher
	Files Fetcher
}

var _ Fetcher = (*Mux)(nil)

// Fetch routes url by scheme.
func (m *Mux) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		if m.HTTP == nil {
			return nil, fmt.Errorf("no HTTP fetcher configured for %s", url)
		}
		return m.HTTP.Fetch(ctx, url)
	}
	if m.Files == nil {
		return nil, fmt.Errorf("no file fetcher configured for %s", url)
	}
	return m.Files.Fetch(ctx, url)
}
