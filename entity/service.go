package entity

import (
	"context"
	"strings"

	"github.com/kbukum/hydrakit/errors"
	"github.com/kbukum/hydrakit/hydra"
)

// Service maps CRUD verbs onto one resource collection. E is the record the
// API returns, B the body it accepts.
type Service[E, B any] struct {
	client *hydra.Client
	path   string
}

// New binds the collection at path, e.g. "/books", to the client of src. The
// client is built once here and shared by every call.
func New[E, B any](src Source, path string) (*Service[E, B], error) {
	if src == nil {
		return nil, errors.MissingField("source")
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return nil, errors.MissingField("path")
	}
	c, err := src.client()
	if err != nil {
		return nil, err
	}
	return &Service[E, B]{client: c, path: path}, nil
}

// Client returns the underlying client.
func (s *Service[E, B]) Client() *hydra.Client { return s.client }

// Path returns the collection path.
func (s *Service[E, B]) Path() string { return s.path }

// Resolve returns the request path of ref within the collection.
func (s *Service[E, B]) Resolve(ref hydra.Ref) (string, error) {
	return resolve(ref, s.path)
}

// Create posts body to the collection.
func (s *Service[E, B]) Create(ctx context.Context, body B, opts ...hydra.RequestOption) (hydra.Result[hydra.Item[E]], error) {
	return hydra.Post[hydra.Item[E]](ctx, s.client, s.path, body, opts...)
}

// Get fetches one resource. Pass hydra.WithListOptions to select properties.
func (s *Service[E, B]) Get(ctx context.Context, ref hydra.Ref, opts ...hydra.RequestOption) (hydra.Result[hydra.Item[E]], error) {
	path, err := s.Resolve(ref)
	if err != nil {
		return hydra.Result[hydra.Item[E]]{}, err
	}
	return hydra.Get[hydra.Item[E]](ctx, s.client, path, opts...)
}

// GetAll fetches a page of the collection.
func (s *Service[E, B]) GetAll(ctx context.Context, opts ...hydra.RequestOption) (hydra.Result[hydra.Collection[hydra.Item[E]]], error) {
	return hydra.Get[hydra.Collection[hydra.Item[E]]](ctx, s.client, s.path, opts...)
}

// Update merge-patches the target resource.
func (s *Service[E, B]) Update(ctx context.Context, t Target[B], opts ...hydra.RequestOption) (hydra.Result[hydra.Item[E]], error) {
	path, err := t.resolve(s.path)
	if err != nil {
		return hydra.Result[hydra.Item[E]]{}, err
	}
	return hydra.Patch[hydra.Item[E]](ctx, s.client, path, t.body, opts...)
}

// Replace puts the target resource.
func (s *Service[E, B]) Replace(ctx context.Context, t Target[B], opts ...hydra.RequestOption) (hydra.Result[hydra.Item[E]], error) {
	path, err := t.resolve(s.path)
	if err != nil {
		return hydra.Result[hydra.Item[E]]{}, err
	}
	return hydra.Put[hydra.Item[E]](ctx, s.client, path, t.body, opts...)
}

// Delete removes one resource. A successful Result carries nil Data.
func (s *Service[E, B]) Delete(ctx context.Context, ref hydra.Ref, opts ...hydra.RequestOption) (hydra.Result[any], error) {
	path, err := s.Resolve(ref)
	if err != nil {
		return hydra.Result[any]{}, err
	}
	return hydra.Delete(ctx, s.client, path, opts...)
}

// GetAs fetches one resource with list options applied and decodes it into
// the caller-chosen shape T, typically a struct holding only the selected
// properties.
func GetAs[T, E, B any](ctx context.Context, s *Service[E, B], ref hydra.Ref, lo hydra.ListOptions, opts ...hydra.RequestOption) (hydra.Result[T], error) {
	path, err := s.Resolve(ref)
	if err != nil {
		return hydra.Result[T]{}, err
	}
	return hydra.GetWithOptions[T](ctx, s.client, path, lo, opts...)
}

// GetAllAs fetches a page of the collection into the caller-chosen shape T.
func GetAllAs[T, E, B any](ctx context.Context, s *Service[E, B], lo hydra.ListOptions, opts ...hydra.RequestOption) (hydra.Result[T], error) {
	return hydra.GetWithOptions[T](ctx, s.client, s.path, lo, opts...)
}
