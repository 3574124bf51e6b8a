// Package gateway is the single chokepoint for every request to the
// wardrobe backend. It assembles an http.Client from a decorator pipeline:
// tracing, unauthorized-response handling, retries, and bearer credential
// injection, in that order from the outside in. Domain API wrappers build
// requests through it and never talk to the transport directly.
package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fitroom/fitroom/credstore"
	"github.com/fitroom/fitroom/nav"
)

// Options configures a gateway Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Store     credstore.Store
	Nav       nav.Navigator
	LoginPath string
	Retry     RetryOptions
	Tracing   bool
	Logger    *slog.Logger
}

// Client sends requests through the decorated transport. All paths are
// resolved against the configured base origin.
type Client struct {
	httpClient *http.Client
	base       *url.URL
	log        *slog.Logger
}

// NewClient builds the gateway pipeline.
func NewClient(options Options) (*Client, error) {
	if options.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(options.BaseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("base url must be absolute")
	}
	if options.Store == nil {
		return nil, errors.New("credential store is required")
	}

	log := options.Logger
	if log == nil {
		log = slog.Default()
	}

	transport := options.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	transport = &BearerRoundTripper{Base: transport, Store: options.Store}
	if options.Retry.MaxRetries > 0 {
		transport = &RetryRoundTripper{Base: transport, Options: options.Retry}
	}
	transport = &UnauthorizedRoundTripper{
		Base:      transport,
		Store:     options.Store,
		Nav:       options.Nav,
		LoginPath: options.LoginPath,
		Logger:    log,
	}
	if options.Tracing {
		transport = &TraceRoundTripper{Base: transport}
	}

	timeout := options.Timeout
	if timeout < 0 {
		timeout = 0
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		base:       base,
		log:        log,
	}, nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() *url.URL {
	copied := *c.base
	return &copied
}

// NewRequest builds a request for a path relative to the base origin.
// Query strings in path are preserved.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	target := c.base.ResolveReference(ref)
	if !strings.HasPrefix(target.String(), c.base.Scheme+"://"+c.base.Host) {
		return nil, errors.New("request escapes base origin")
	}
	return http.NewRequestWithContext(ctx, method, target.String(), body)
}

// Do sends a request through the pipeline.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
