package auth

import (
	"fmt"
	"time"

	"github.com/kbukum/hydrakit/httpclient"
	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/logger"
)

// Config describes how a client authenticates: a bearer token, HTTP Basic
// credentials or an API key header. At most one may be set. It is loaded
// from YAML/env via mapstructure.
type Config struct {
	// Token is a fixed bearer token. Empty means requests are anonymous.
	Token string `yaml:"token" mapstructure:"token"`

	// CheckExpiry withholds the token once its JWT exp claim has passed.
	CheckExpiry bool `yaml:"check_expiry" mapstructure:"check_expiry"`

	// Leeway treats the token as expired this long before exp.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`

	// Username and Password are HTTP Basic credentials.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// APIKey is sent in APIKeyHeader, X-API-Key by default.
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Leeway < 0 {
		return fmt.Errorf("auth.leeway must not be negative (got: %s)", c.Leeway)
	}
	set := 0
	for _, v := range []string{c.Token, c.Username, c.APIKey} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("auth: token, username and api_key are mutually exclusive")
	}
	return nil
}

// Credentials returns the static credentials described by c, or nil when
// none are configured.
func (c *Config) Credentials() *httpclient.AuthConfig {
	switch {
	case c.APIKey != "":
		return httpclient.APIKeyAuth(c.APIKey, c.APIKeyHeader)
	case c.Username != "":
		return httpclient.BasicAuth(c.Username, c.Password)
	}
	return nil
}

// Supplier builds the token supplier described by c, or nil when no token
// is configured.
func (c *Config) Supplier(log *logger.Logger) hydra.TokenSupplier {
	if c.Token == "" {
		return nil
	}
	if !c.CheckExpiry {
		return Static(c.Token)
	}
	return NewJWTSource(Static(c.Token), WithLeeway(c.Leeway), WithJWTLogger(log)).Token
}

// Describe returns a one-line summary that never reveals a secret.
func (c *Config) Describe() string {
	switch {
	case c.APIKey != "":
		return "api key"
	case c.Username != "":
		return fmt.Sprintf("basic (%s)", c.Username)
	case c.Token == "":
		return "anonymous"
	}
	if c.CheckExpiry {
		if exp, ok := Expiry(c.Token); ok {
			return fmt.Sprintf("bearer JWT (expires %s)", exp.Format(time.RFC3339))
		}
	}
	return "bearer"
}
