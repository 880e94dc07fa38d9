// Package httpclient is the transport layer of hydrakit: it resolves request
// URLs against a base URL, encodes bodies, applies headers and
// authentication, performs exactly one round trip through a Doer and
// classifies the outcome.
//
// The Doer is injectable so callers and tests can supply their own
// transport. By default an *http.Client built from Config is used.
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/books/1",
//	})
//
// Non-2xx responses are returned together with a classified *Error so the
// caller can still inspect the body. Connection-level failures return a nil
// response.
package httpclient
