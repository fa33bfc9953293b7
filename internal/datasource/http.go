package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vanderheijden86/plateview/pkg/logging"
)

const (
	defaultHTTPTimeout     = 15 * time.Second
	defaultBreakerFailures = 5

	// maxBodyBytes caps a single document read.
	maxBodyBytes = 32 << 20
)

// errServerStatus marks 5xx responses as breaker failures without turning
// them into transport errors for the caller.
var errServerStatus = errors.New("server error status")

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	Timeout         time.Duration
	BreakerFailures uint32
	// Client overrides the default client. Tests pass httptest clients here.
	Client *http.Client
}

// HTTPSource fetches documents with plain GET requests under a base URL.
// Requests go through a circuit breaker that opens after consecutive
// transport failures or 5xx responses. 4xx responses do not count.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
	cb     *gobreaker.CircuitBreaker[*Response]
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts HTTPOptions) (*HTTPSource, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", base.Scheme)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	name := "data-" + base.Host
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("data source circuit breaker state change")
		},
	})

	return &HTTPSource{base: base, client: client, cb: cb}, nil
}

// Type implements Source.
func (s *HTTPSource) Type() SourceType { return SourceTypeHTTP }

// Location implements Source.
func (s *HTTPSource) Location() string { return s.base.String() }

// URL returns the absolute URL for a relative document path.
func (s *HTTPSource) URL(path string, query url.Values) string {
	u := s.base.JoinPath(strings.Split(path, "/")...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Get implements Source.
func (s *HTTPSource) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	target := s.URL(path, query)

	resp, err := s.cb.Execute(func() (*Response, error) {
		return s.do(ctx, target)
	})
	switch {
	case errors.Is(err, errServerStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("data source %s unavailable: %w", s.base.Host, err)
	case err != nil:
		return nil, err
	}
	return resp, nil
}

func (s *HTTPSource) do(ctx context.Context, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer httpResp.Body.Close()

	body, err := readBody(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}

	resp := &Response{Status: httpResp.StatusCode, URL: target, Body: body}
	if httpResp.StatusCode >= 500 {
		return resp, errServerStatus
	}
	return resp, nil
}
