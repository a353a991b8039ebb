package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	defaultUserAgent = "skypane/0.1"
	defaultTimeout   = 8 * time.Second
	maxBodyBytes     = 4 << 20
)

// Options configure a Client.
type Options struct {
	// Source names the upstream in errors, logs and metrics.
	Source  string
	BaseURL string
	Timeout time.Duration
	// Header is sent on every request (e.g. an API key).
	Header http.Header
	// HTTPClient overrides the default client; tests inject httptest clients.
	HTTPClient *http.Client
}

// Client performs JSON GET requests against one upstream. Transport and
// status failures feed a circuit breaker so a dead upstream is not hammered
// on every band tick.
type Client struct {
	source    string
	baseURL   *url.URL
	http      *http.Client
	header    http.Header
	userAgent string
	breaker   *gobreaker.CircuitBreaker
}

// NewClient builds a Client for opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: timeout,
			// Each refresh is a fresh request; nothing is held open between bands.
			Transport: &http.Transport{DisableKeepAlives: true, Proxy: http.ProxyFromEnvironment},
		}
	}
	source := strings.TrimSpace(opts.Source)
	if source == "" {
		source = base.Host
	}
	return &Client{
		source:    source,
		baseURL:   base,
		http:      hc,
		header:    opts.Header.Clone(),
		userAgent: defaultUserAgent,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        source,
			MaxRequests: 1,
			Timeout:     5 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}, nil
}

// Source returns the upstream name.
func (c *Client) Source() string {
	return c.source
}

// GetJSON issues GET path?query and decodes the body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: c.baseURL.Path + path, RawQuery: query.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, reqURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &Error{Source: c.source, Kind: KindNetwork, Err: fmt.Errorf("circuit open: %w", err)}
		}
		return err
	}
	body, ok := result.([]byte)
	if !ok {
		return Errorf(c.source, KindData, "unexpected result type %T", result)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &Error{Source: c.source, Kind: KindData, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, &Error{Source: c.source, Kind: KindNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	for k, vals := range c.header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Source: c.source, Kind: KindNetwork, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, Errorf(c.source, KindProtocol, "api %s returned status %d", reqURL.Path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Source: c.source, Kind: KindNetwork, Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
