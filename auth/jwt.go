package auth

import (
	"context"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/logger"
)

// JWTOption configures a JWTSource.
type JWTOption func(*JWTSource)

// WithLeeway treats a token as expired d before its exp claim.
func WithLeeway(d time.Duration) JWTOption {
	return func(s *JWTSource) { s.leeway = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTSource) { s.now = now }
}

// WithJWTLogger sets the logger used to report withheld tokens.
func WithJWTLogger(l *logger.Logger) JWTOption {
	return func(s *JWTSource) {
		if l != nil {
			s.log = l
		}
	}
}

// JWTSource wraps a supplier and withholds tokens whose exp claim has
// passed. Signatures are not verified; that is the server's job.
// Tokens that are not JWTs, or carry no exp claim, pass through unchanged.
type JWTSource struct {
	next   hydra.TokenSupplier
	leeway time.Duration
	now    func() time.Time
	log    *logger.Logger
}

// NewJWTSource creates a JWTSource reading tokens from next.
func NewJWTSource(next hydra.TokenSupplier, opts ...JWTOption) *JWTSource {
	s := &JWTSource{next: next, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.WithComponent("auth")
	}
	return s
}

// Token returns the wrapped supplier's token, or "" when it has expired.
// It satisfies hydra.TokenSupplier.
func (s *JWTSource) Token(ctx context.Context) (string, error) {
	if s.next == nil {
		return "", nil
	}
	token, err := s.next(ctx)
	if err != nil || token == "" {
		return token, err
	}
	exp, ok := Expiry(token)
	if !ok {
		return token, nil
	}
	if !s.now().Add(s.leeway).Before(exp) {
		s.log.Debug("Withholding expired token", logger.Fields("expired_at", exp.Format(time.RFC3339)))
		return "", nil
	}
	return token, nil
}

// Expiry reads the exp claim of a JWT without verifying its signature.
func Expiry(token string) (time.Time, bool) {
	var claims gojwt.RegisteredClaims
	if _, _, err := gojwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

var _ hydra.TokenSupplier = (*JWTSource)(nil).Token
