package entity

import (
	"github.com/kbukum/hydrakit/errors"
	"github.com/kbukum/hydrakit/hydra"
)

// Source supplies the client a Service sends its requests through: an
// existing client, or the configuration to build one.
type Source interface {
	client() (*hydra.Client, error)
}

type clientSource struct{ c *hydra.Client }

func (s clientSource) client() (*hydra.Client, error) {
	if s.c == nil {
		return nil, errors.MissingField("client")
	}
	return s.c, nil
}

type configSource struct {
	cfg  hydra.Config
	opts []hydra.Option
}

func (s configSource) client() (*hydra.Client, error) {
	return hydra.New(s.cfg, s.opts...)
}

// FromClient shares an existing client, token supplier and callbacks
// included.
func FromClient(c *hydra.Client) Source { return clientSource{c: c} }

// FromEntrypoint builds a client for the given API base URL.
func FromEntrypoint(entrypoint string, opts ...hydra.Option) Source {
	return configSource{cfg: hydra.Config{Entrypoint: entrypoint}, opts: opts}
}

// FromConfig builds a client from cfg and opts.
func FromConfig(cfg hydra.Config, opts ...hydra.Option) Source {
	return configSource{cfg: cfg, opts: opts}
}
