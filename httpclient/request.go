package httpclient

import "net/http"

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is resolved against the adapter's BaseURL using RFC 3986 reference
	// resolution, so it may be absolute, root-relative or relative.
	Path string
	// Headers are request-specific headers. They override client defaults and
	// authentication.
	Headers map[string]string
	// RawQuery, when non-empty, replaces the query string of the resolved URL.
	// It is sent verbatim and must already be encoded.
	RawQuery string
	// ReplaceQuery makes RawQuery replace the path's query even when empty,
	// so "/items?foo=1" with an empty RawQuery is sent as "/items".
	ReplaceQuery bool
	// Body is the request body. Accepts io.Reader, []byte, string,
	// url.Values, *MultipartBody, or any value that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
