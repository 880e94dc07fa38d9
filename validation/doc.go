// Package validation provides input validation for hydrakit configuration
// and for request bodies checked by the hydratest fake server.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Entrypoint string `mapstructure:"entrypoint" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("title", title)
//	err := v.Validate()
package validation
