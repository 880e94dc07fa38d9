package hydra

import (
	"time"

	"github.com/kbukum/hydrakit/httpclient"
	"github.com/kbukum/hydrakit/validation"
	"github.com/kbukum/hydrakit/version"
)

// Config configures a Client.
type Config struct {
	// Entrypoint is the absolute API base URL every request path is resolved
	// against, e.g. "https://api.example.com".
	Entrypoint string `yaml:"entrypoint" mapstructure:"entrypoint" validate:"required,http_url"`

	// Timeout bounds one round trip. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are sent with every request. Per-request headers override them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent defaults to version.UserAgent().
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// TLS configures the default transport. Ignored with WithTransport.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	return validation.Validate(c)
}

func (c Config) transport() httpclient.Config {
	headers := make(map[string]string, len(c.Headers)+1)
	if c.UserAgent != "" {
		headers["User-Agent"] = c.UserAgent
	}
	for k, v := range c.Headers {
		headers[k] = v
	}
	return httpclient.Config{
		Name:    "hydra",
		BaseURL: c.Entrypoint,
		Timeout: c.Timeout,
		TLS:     c.TLS,
		Headers: headers,
	}
}
