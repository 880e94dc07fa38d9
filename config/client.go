package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/hydrakit/auth"
	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/logger"
	"github.com/kbukum/hydrakit/observability"
)

// EnvPrefixes are the environment variable prefixes bound by LoadClient.
var EnvPrefixes = []string{"HYDRA_", "AUTH_", "LOGGING_", "OBSERVABILITY_"}

// ClientConfig is the configuration of an application talking to a Hydra
// API.
type ClientConfig struct {
	Name          string               `yaml:"name" mapstructure:"name"`
	Environment   string               `yaml:"environment" mapstructure:"environment"`
	Hydra         hydra.Config         `yaml:"hydra" mapstructure:"hydra"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies default values to the configuration.
func (c *ClientConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Hydra.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *ClientConfig) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Hydra.Validate(); err != nil {
		return fmt.Errorf("config.hydra: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config.auth: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// Override adjusts a loaded ClientConfig before defaults and validation,
// e.g. to apply command-line flags.
type Override func(*ClientConfig) error

// LoadClient loads, defaults and validates a ClientConfig for serviceName.
// Environment variables with one of EnvPrefixes override file values, and a
// non-nil override runs last.
func LoadClient(serviceName string, override Override, opts ...LoaderOption) (*ClientConfig, error) {
	cfg := &ClientConfig{Name: serviceName}
	opts = append([]LoaderOption{WithEnvPrefixes(EnvPrefixes...)}, opts...)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
