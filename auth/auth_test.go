package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/hydrakit/httpclient"
	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/logger"
)

func signed(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := gojwt.RegisteredClaims{Subject: "user-1"}
	if exp != nil {
		claims.ExpiresAt = gojwt.NewNumericDate(*exp)
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestStatic(t *testing.T) {
	got, err := Static("abc")(context.Background())
	if err != nil || got != "abc" {
		t.Errorf("Static() = %q, %v", got, err)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore("first")
	if got, _ := s.Token(ctx); got != "first" {
		t.Errorf("Token() = %q, want first", got)
	}
	s.Set("second")
	if got, _ := s.Token(ctx); got != "second" {
		t.Errorf("Token() = %q, want second", got)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := s.Token(ctx); got != "" {
		t.Errorf("Token() after Clear = %q, want empty", got)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore("")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); s.Set("t") }()
		go func() { defer wg.Done(); _, _ = s.Token(context.Background()) }()
	}
	wg.Wait()
}

func TestExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	got, ok := Expiry(signed(t, &exp))
	if !ok || !got.Equal(exp) {
		t.Errorf("Expiry() = %v, %v; want %v", got, ok, exp)
	}
	if _, ok := Expiry(signed(t, nil)); ok {
		t.Error("Expiry() without exp claim reported ok")
	}
	if _, ok := Expiry("opaque-api-key"); ok {
		t.Error("Expiry() of a non-JWT reported ok")
	}
}

func TestJWTSource(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)
	soon := now.Add(20 * time.Second)

	fresh := signed(t, &future)
	stale := signed(t, &past)
	closeToExpiry := signed(t, &soon)
	noExp := signed(t, nil)

	tests := []struct {
		name   string
		token  string
		leeway time.Duration
		want   string
	}{
		{"valid token", fresh, 0, fresh},
		{"expired token", stale, 0, ""},
		{"within leeway", closeToExpiry, 30 * time.Second, ""},
		{"outside leeway", closeToExpiry, 10 * time.Second, closeToExpiry},
		{"no exp claim", noExp, 0, noExp},
		{"opaque token", "api-key", 0, "api-key"},
		{"empty token", "", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewJWTSource(Static(tt.token),
				WithLeeway(tt.leeway),
				WithClock(func() time.Time { return now }),
				WithJWTLogger(logger.Nop()),
			)
			got, err := src.Token(context.Background())
			if err != nil {
				t.Fatalf("Token() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJWTSource_SupplierError(t *testing.T) {
	boom := errors.New("vault down")
	src := NewJWTSource(func(context.Context) (string, error) { return "", boom })
	if _, err := src.Token(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Token() error = %v, want %v", err, boom)
	}
	if got, err := NewJWTSource(nil).Token(context.Background()); got != "" || err != nil {
		t.Errorf("nil supplier Token() = %q, %v", got, err)
	}
}

func TestStore_WithDispatcher(t *testing.T) {
	var headers []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", hydra.MediaTypeJSONLD)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"Expired JWT Token"}`))
	}))
	defer srv.Close()

	store := NewStore("stale")
	client, err := hydra.New(hydra.Config{Entrypoint: srv.URL},
		hydra.WithLogger(logger.Nop()),
		hydra.WithTokenSupplier(store.Token),
		hydra.WithUnauthorized(store.Clear),
	)
	if err != nil {
		t.Fatalf("hydra.New() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		res, err := hydra.Get[map[string]any](context.Background(), client, "/books/1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if res.Success || res.Status != http.StatusUnauthorized {
			t.Fatalf("Get() = %+v, want 401 failure", res)
		}
	}
	if len(headers) != 2 || headers[0] != "Bearer stale" || headers[1] != "" {
		t.Errorf("Authorization headers = %q, want [\"Bearer stale\" \"\"]", headers)
	}
}

func TestConfig_Supplier(t *testing.T) {
	ctx := context.Background()
	if (&Config{}).Supplier(logger.Nop()) != nil {
		t.Error("Supplier() without token should be nil")
	}

	got, _ := (&Config{Token: "abc"}).Supplier(logger.Nop())(ctx)
	if got != "abc" {
		t.Errorf("static Supplier() = %q, want abc", got)
	}

	past := time.Now().Add(-time.Hour)
	stale := signed(t, &past)
	got, _ = (&Config{Token: stale, CheckExpiry: true}).Supplier(logger.Nop())(ctx)
	if got != "" {
		t.Errorf("expiry-checked Supplier() = %q, want empty", got)
	}
	got, _ = (&Config{Token: stale}).Supplier(logger.Nop())(ctx)
	if got != stale {
		t.Error("unchecked Supplier() should pass an expired token through")
	}
}

func TestConfig_ValidateAndDescribe(t *testing.T) {
	if err := (&Config{Leeway: -time.Second}).Validate(); err == nil {
		t.Error("Validate() accepted a negative leeway")
	}
	if err := (&Config{Token: "x", Leeway: time.Second}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (&Config{Token: "x", Username: "admin"}).Validate(); err == nil {
		t.Error("Validate() accepted both a token and basic credentials")
	}

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{}, "anonymous"},
		{Config{Token: "secret"}, "bearer"},
		{Config{Username: "admin", Password: "secret"}, "basic (admin)"},
		{Config{APIKey: "k"}, "api key"},
		{Config{Token: signed(t, &exp), CheckExpiry: true}, "bearer JWT (expires 2030-01-01T00:00:00Z)"},
	}
	for _, tt := range tests {
		if got := tt.cfg.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}

func TestConfig_Credentials(t *testing.T) {
	if (&Config{Token: "x"}).Credentials() != nil {
		t.Error("a bearer token has no static credentials")
	}
	basic := (&Config{Username: "admin", Password: "secret"}).Credentials()
	if basic == nil || basic.Type != httpclient.AuthBasic || basic.Username != "admin" || basic.Password != "secret" {
		t.Errorf("Credentials() = %+v", basic)
	}
	key := (&Config{APIKey: "k-1", APIKeyHeader: "X-Token"}).Credentials()
	if key == nil || key.Type != httpclient.AuthAPIKey || key.Key != "k-1" || key.Name != "X-Token" {
		t.Errorf("Credentials() = %+v", key)
	}
}
