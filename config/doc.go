// Package config loads application configuration from YAML files, .env
// files and environment variables.
//
// It uses Viper for files and godotenv for .env files. Environment variables
// map onto nested keys by splitting on underscores, so HYDRA_ENTRYPOINT sets
// hydra.entrypoint and HYDRA_TIMEOUT=5s sets hydra.timeout.
//
// # Usage
//
//	cfg, err := config.LoadClient("hydractl", nil, config.WithConfigFile(path))
//	client, err := hydra.New(cfg.Hydra,
//	    hydra.WithTokenSupplier(cfg.Auth.Supplier(log)),
//	    hydra.WithCredentials(cfg.Auth.Credentials()),
//	)
package config
