// Package logger provides structured logging for hydrakit using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("hydractl").WithComponent("hydra")
//	log.Info("request completed", logger.Fields("status", 200))
package logger
