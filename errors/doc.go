// Package errors provides the structured error type used for client-side
// failures in hydrakit: invalid caller input and payloads that cannot be
// encoded or decoded.
//
// Protocol failures reported by an API (non-2xx responses) are not errors in
// this sense; they are returned as data in a hydra.Result. Transport failures
// are classified by the httpclient package.
package errors
