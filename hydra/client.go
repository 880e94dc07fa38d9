package hydra

import (
	"context"

	"github.com/kbukum/hydrakit/httpclient"
	"github.com/kbukum/hydrakit/logger"
	"github.com/kbukum/hydrakit/observability"
)

// Media types of the Hydra header contract.
const (
	MediaTypeJSONLD     = "application/ld+json"
	MediaTypeMergePatch = "application/merge-patch+json"
)

// TokenSupplier returns the bearer token for a request. An empty token means
// no Authorization header is sent.
type TokenSupplier func(ctx context.Context) (string, error)

// UnauthorizedFunc is called once per 401 response, before the failure
// Result is built. A non-nil error aborts the call with that error.
type UnauthorizedFunc func(ctx context.Context) error

// Option configures a Client.
type Option func(*Client)

// WithTokenSupplier sets the bearer token source.
func WithTokenSupplier(fn TokenSupplier) Option {
	return func(c *Client) { c.token = fn }
}

// WithCredentials sets static credentials sent with every request, such as
// httpclient.BasicAuth or httpclient.APIKeyAuth. A non-empty bearer token
// from the token supplier replaces them for that request.
func WithCredentials(a *httpclient.AuthConfig) Option {
	return func(c *Client) { c.creds = a }
}

// WithUnauthorized sets the callback invoked on 401 responses.
func WithUnauthorized(fn UnauthorizedFunc) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithTransport sends requests through d instead of an *http.Client built
// from Config.
func WithTransport(d httpclient.Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records request metrics on m.
func WithMetrics(m *observability.RequestMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client sends requests to a Hydra API. It holds only configuration fixed at
// construction and is safe for concurrent use.
type Client struct {
	cfg            Config
	http           *httpclient.Adapter
	doer           httpclient.Doer
	token          TokenSupplier
	creds          *httpclient.AuthConfig
	onUnauthorized UnauthorizedFunc
	log            *logger.Logger
	metrics        *observability.RequestMetrics
}

// New validates cfg and creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("hydra")
	}

	var httpOpts []httpclient.Option
	if c.doer != nil {
		httpOpts = append(httpOpts, httpclient.WithDoer(c.doer))
	}
	tc := cfg.transport()
	tc.Auth = c.creds
	adapter, err := httpclient.New(tc, httpOpts...)
	if err != nil {
		return nil, err
	}
	c.http = adapter
	return c, nil
}

// Entrypoint returns the configured API base URL.
func (c *Client) Entrypoint() string {
	return c.cfg.Entrypoint
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Close releases idle connections of the default transport.
func (c *Client) Close(ctx context.Context) error {
	return c.http.Close(ctx)
}

// bearer asks the token supplier for the request's credentials.
func (c *Client) bearer(ctx context.Context) (*httpclient.AuthConfig, error) {
	if c.token == nil {
		return nil, nil
	}
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return httpclient.BearerAuth(token), nil
}
