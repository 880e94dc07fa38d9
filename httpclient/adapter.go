package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Option configures an Adapter.
type Option func(*Adapter)

// WithDoer replaces the transport used for round trips. TLS and Timeout from
// Config are ignored when a Doer is supplied.
func WithDoer(d Doer) Option {
	return func(a *Adapter) {
		if d != nil {
			a.doer = d
		}
	}
}

// Adapter sends requests relative to a base URL through a Doer.
type Adapter struct {
	doer   Doer
	config Config
	base   *url.URL
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{config: cfg}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, NewInvalidRequestError("parse base url", err)
		}
		if !base.IsAbs() {
			return nil, NewInvalidRequestError(fmt.Sprintf("base url %q is not absolute", cfg.BaseURL), nil)
		}
		a.base = base
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.doer == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.TLS != nil {
			tlsCfg, err := cfg.TLS.Build()
			if err != nil {
				return nil, err
			}
			if tlsCfg != nil {
				transport.TLSClientConfig = tlsCfg
			}
		}
		a.doer = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}

	return a, nil
}

// Do sends req exactly once.
//
// For a non-2xx status the response is returned together with a classified
// *Error. A nil response means the request never completed; the error is
// then an *Error with StatusCode 0.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	target := httpReq.URL.String()

	resp, err := a.doer.Do(httpReq)
	if err != nil {
		e := NewTransportError(ctx, err)
		e.Method, e.URL = req.Method, target
		return nil, e
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := NewTransportError(ctx, fmt.Errorf("read response body: %w", err))
		e.Method, e.URL = req.Method, target
		return nil, e
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		classErr.Method, classErr.URL = req.Method, target
		return result, classErr
	}
	return result, nil
}

// ResolveURL resolves req.Path against the base URL and applies the query
// rules of Request.RawQuery and Request.ReplaceQuery.
func (a *Adapter) ResolveURL(req Request) (*url.URL, error) {
	path := req.Path
	ref, err := url.Parse(path)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Sprintf("parse path %q", path), err)
	}
	u := ref
	if a.base != nil {
		u = a.base.ResolveReference(ref)
	}
	if !u.IsAbs() {
		return nil, NewInvalidRequestError(fmt.Sprintf("cannot resolve %q without a base url", path), nil)
	}
	if req.ReplaceQuery || req.RawQuery != "" {
		u.RawQuery = req.RawQuery
	}
	return u, nil
}

func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	u, err := a.ResolveURL(req)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewInvalidRequestError("encode body", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, NewInvalidRequestError("create request", err)
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	// Request-level auth overrides client-level auth.
	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// BaseURL returns the parsed base URL, or nil when none is configured.
func (a *Adapter) BaseURL() *url.URL {
	if a.base == nil {
		return nil
	}
	u := *a.base
	return &u
}

// Close releases idle connections when the transport is an *http.Client.
func (a *Adapter) Close(_ context.Context) error {
	if c, ok := a.doer.(*http.Client); ok {
		c.CloseIdleConnections()
	}
	return nil
}
