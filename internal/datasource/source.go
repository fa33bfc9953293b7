// Package datasource abstracts where plateview's JSON documents live.
//
// A location is either an http(s) base URL, served by HTTPSource, or a local
// directory, served by DirSource. Both answer relative document paths such as
// "regions/Austin.json" with a Response carrying an HTTP-style status code, so
// callers apply one success rule (2xx) regardless of the backing store.
package datasource

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the kind of data source.
type SourceType string

const (
	// SourceTypeHTTP serves documents from an http(s) base URL.
	SourceTypeHTTP SourceType = "http"
	// SourceTypeDir serves documents from a local directory tree.
	SourceTypeDir SourceType = "dir"
)

// Response is the raw result of fetching one document.
type Response struct {
	// Status is an HTTP status code. Directory sources synthesize one.
	Status int
	// URL identifies the document, including any query string.
	URL string
	// Body is the document bytes. It may be empty on non-2xx responses.
	Body []byte
}

// OK reports whether the response has a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Source fetches documents by slash-separated relative path.
//
// A non-2xx outcome is reported through Response.Status with a nil error.
// The error return is reserved for transport failures and rejected requests.
type Source interface {
	Type() SourceType
	Location() string
	URL(path string, query url.Values) string
	Get(ctx context.Context, path string, query url.Values) (*Response, error)
}

// Options configures Open.
type Options struct {
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
	// BreakerFailures is the consecutive-failure count that opens the HTTP
	// circuit breaker. Zero uses the default.
	BreakerFailures uint32
}

// Open returns the source for location.
func Open(location string, opts Options) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("empty data location")
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, HTTPOptions{
			Timeout:         opts.Timeout,
			BreakerFailures: opts.BreakerFailures,
		})
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolving data location: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("data location %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data location %s is not a directory", abs)
	}
	return NewDirSource(abs), nil
}
