package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/hydrakit/hydra"
)

type formatter func(w io.Writer, v any) error

func formatterFor(name string) (formatter, error) {
	switch name {
	case "json", "":
		return writeJSON, nil
	case "yaml", "yml":
		return writeYAML, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want json or yaml)", name)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeYAML goes through JSON so the hydra codecs decide the member names.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (a *app) print(w io.Writer, v any) error {
	f, err := formatterFor(a.output)
	if err != nil {
		return err
	}
	return f(w, v)
}

// render prints a successful payload, or the hydra error document followed
// by a non-nil error so the process exits non-zero.
func render[T any](a *app, w io.Writer, res hydra.Result[T]) error {
	if !res.Success {
		if err := a.print(w, res.Error); err != nil {
			return err
		}
		return res.Error
	}
	return a.print(w, res.Data)
}
