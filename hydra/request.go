package hydra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/hydrakit/errors"
	"github.com/kbukum/hydrakit/httpclient"
	"github.com/kbukum/hydrakit/logger"
	"github.com/kbukum/hydrakit/observability"
)

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers  map[string]string
	rawQuery string
	// hasQuery records that a query option was given; its query then
	// replaces the path's own, even when it encodes to nothing.
	hasQuery bool
}

// WithHeader sets a request header. Caller headers override every header the
// client sets itself, Authorization included.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithQuery sets the query string from ordered pairs, replacing any query
// in the path. The last query option wins.
func WithQuery(q Query) RequestOption {
	return WithRawQuery(q.Encode())
}

// WithListOptions encodes pagination, ordering, filters and properties into
// the query string.
func WithListOptions(opts ListOptions) RequestOption {
	return WithQuery(EncodeQuery(opts))
}

// WithRawQuery sets an already encoded query string.
func WithRawQuery(raw string) RequestOption {
	return func(o *requestOptions) {
		o.rawQuery = raw
		o.hasQuery = true
	}
}

// Get fetches path and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (Result[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts)
}

// GetWithOptions fetches path with list options encoded into the query. T
// is the caller-chosen shape of the narrowed response; the server is
// trusted to return it.
func GetWithOptions[T any](ctx context.Context, c *Client, path string, lo ListOptions, opts ...RequestOption) (Result[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, append([]RequestOption{WithListOptions(lo)}, opts...))
}

// Post sends body to path and decodes the created resource into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (Result[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts)
}

// Put replaces the resource at path with body.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (Result[T], error) {
	return do[T](ctx, c, http.MethodPut, path, body, opts)
}

// Patch applies body as a JSON merge patch to the resource at path.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (Result[T], error) {
	return do[T](ctx, c, http.MethodPatch, path, body, opts)
}

// Delete removes the resource at path. A successful Result carries nil Data.
func Delete(ctx context.Context, c *Client, path string, opts ...RequestOption) (Result[any], error) {
	return do[any](ctx, c, http.MethodDelete, path, nil, opts)
}

// do performs one request. Transport failures, token and callback errors,
// and undecodable bodies are returned as errors; everything the server
// answered with is folded into the Result.
func do[T any](ctx context.Context, c *Client, method, path string, body any, opts []RequestOption) (Result[T], error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	reqID := uuid.NewString()
	log := c.log.WithFields(logger.Fields(
		logger.FieldRequestID, reqID,
		logger.FieldMethod, method,
	))

	target := path
	if u, err := c.http.ResolveURL(ro.request(path)); err == nil {
		target = u.String()
	}
	log = log.WithFields(logger.Fields(logger.FieldURL, target))

	ctx, op := observability.StartOperation(ctx, observability.SpanHydraRequest, method, c.metrics,
		attribute.String(observability.AttrURL, target),
		attribute.String(observability.AttrRequestID, reqID),
	)

	req, err := c.buildRequest(ctx, method, path, body, ro)
	if err != nil {
		op.End(ctx, 0, observability.OutcomeError, err)
		log.WithError(err).Error("Request error")
		return Result[T]{}, err
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if resp == nil || (err != nil && !httpclient.IsStatusError(err)) {
		op.End(ctx, 0, observability.OutcomeError, err)
		log.WithError(err).Error("Request error", classFields(err))
		return Result[T]{}, err
	}
	log = log.WithFields(logger.Fields(
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))

	if !resp.IsSuccess() {
		res, err := c.failure(ctx, resp, log.WithFields(classFields(err)))
		if err != nil {
			op.End(ctx, resp.StatusCode, observability.OutcomeError, err)
			return Result[T]{}, err
		}
		op.End(ctx, resp.StatusCode, observability.OutcomeFailure, nil)
		return failure[T](resp.StatusCode, res), nil
	}

	var data T
	if method != http.MethodDelete && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			decErr := &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: err}
			op.End(ctx, resp.StatusCode, observability.OutcomeError, decErr)
			log.WithError(decErr).Error("Request error")
			return Result[T]{}, decErr
		}
	}

	op.End(ctx, resp.StatusCode, observability.OutcomeSuccess, nil)
	log.Debug("Request completed")
	return success(resp.StatusCode, data), nil
}

// failure handles a non-2xx response: the unauthorized callback for 401,
// then decoding of the error document.
func (c *Client) failure(ctx context.Context, resp *httpclient.Response, log *logger.Logger) (*Error, error) {
	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		if err := c.onUnauthorized(ctx); err != nil {
			log.WithError(err).Error("Unauthorized callback failed")
			return nil, fmt.Errorf("hydra: unauthorized callback: %w", err)
		}
	}

	herr, err := decodeError(resp)
	if err != nil {
		log.WithError(err).Error("Request error")
		return nil, err
	}

	fields := logger.Fields("detail", herr.BestMessage())
	if len(herr.Violations) > 0 {
		fields[logger.FieldViolations] = herr.ViolationsByPath()
	}
	log.Error("Request failed", fields)
	return herr, nil
}

// classFields logs the transport's classification of err.
func classFields(err error) map[string]interface{} {
	code, ok := httpclient.CodeOf(err)
	if !ok {
		return nil
	}
	return logger.Fields(logger.FieldClass, code.String())
}

func decodeError(resp *httpclient.Response) (*Error, error) {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return errorFromStatus(resp.StatusCode), nil
	}
	var herr Error
	if err := json.Unmarshal(resp.Body, &herr); err != nil {
		return nil, &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: err}
	}
	if herr.Status == 0 {
		herr.Status = resp.StatusCode
	}
	return &herr, nil
}

// buildRequest applies the header contract and body encoding for method.
func (c *Client) buildRequest(ctx context.Context, method, path string, body any, ro requestOptions) (httpclient.Request, error) {
	auth, err := c.bearer(ctx)
	if err != nil {
		return httpclient.Request{}, fmt.Errorf("hydra: token supplier: %w", err)
	}

	headers := map[string]string{"Accept": MediaTypeJSONLD}

	var payload any
	raw := isRawBody(body)
	if method != http.MethodGet && method != http.MethodDelete && !isNil(body) {
		if raw {
			payload = body
		} else {
			data, err := json.Marshal(body)
			if err != nil {
				return httpclient.Request{}, errors.EncodeFailed("request body", err)
			}
			payload = data
		}
	}
	if !raw {
		if method == http.MethodPatch {
			headers["Content-Type"] = MediaTypeMergePatch
		} else {
			headers["Content-Type"] = MediaTypeJSONLD
		}
	}

	for k, v := range ro.headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	req := ro.request(path)
	req.Method = method
	req.Headers = headers
	req.Body = payload
	req.Auth = auth
	return req, nil
}

func (o requestOptions) request(path string) httpclient.Request {
	return httpclient.Request{Path: path, RawQuery: o.rawQuery, ReplaceQuery: o.hasQuery}
}

// isRawBody reports whether body is sent as is, without JSON encoding or a
// Content-Type from the client.
func isRawBody(body any) bool {
	switch body.(type) {
	case io.Reader, []byte, *httpclient.MultipartBody:
		return true
	}
	return false
}
