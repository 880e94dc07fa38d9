package auth

import (
	"context"
	"sync"

	"github.com/kbukum/hydrakit/hydra"
)

// Static returns a supplier that always yields token. An empty token sends
// no Authorization header.
func Static(token string) hydra.TokenSupplier {
	return func(context.Context) (string, error) { return token, nil }
}

// Store holds the current bearer token. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore creates a Store holding token.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// Set replaces the stored token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the stored token. It satisfies hydra.TokenSupplier.
func (s *Store) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Clear drops the stored token. It satisfies hydra.UnauthorizedFunc, so a
// rejected token is not sent again.
func (s *Store) Clear(context.Context) error {
	s.Set("")
	return nil
}

var (
	_ hydra.TokenSupplier    = (*Store)(nil).Token
	_ hydra.UnauthorizedFunc = (*Store)(nil).Clear
)
