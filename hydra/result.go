package hydra

// Result is the outcome of a request that reached the server. Success
// carries the decoded payload in Data; failure carries the error document
// in Error. Exactly one of the two is meaningful.
type Result[T any] struct {
	Success bool
	Data    T
	Error   *Error
	// Status is the HTTP status code of the response.
	Status int
}

// OK reports whether the request succeeded.
func (r Result[T]) OK() bool { return r.Success }

// Unwrap returns the payload, or the error document as an error.
func (r Result[T]) Unwrap() (T, error) {
	if !r.Success {
		var zero T
		if r.Error == nil {
			return zero, errorFromStatus(r.Status)
		}
		return zero, r.Error
	}
	return r.Data, nil
}

func success[T any](status int, data T) Result[T] {
	return Result[T]{Success: true, Data: data, Status: status}
}

func failure[T any](status int, e *Error) Result[T] {
	return Result[T]{Error: e, Status: status}
}
