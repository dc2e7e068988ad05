package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// encoder writes a result document to an output stream.
type encoder interface {
	Encode(w io.Writer, v any) error
}

func newEncoder(format string) (encoder, error) {
	switch format {
	case "json":
		return jsonEncoder{}, nil
	case "yaml":
		return yamlEncoder{}, nil
	case "cbor":
		mode, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		return cborEncoder{mode: mode}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q, want json, yaml or cbor", format)
	}
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

type yamlEncoder struct{}

func (yamlEncoder) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}

// cborEncoder uses core deterministic encoding so equal results produce
// identical bytes.
type cborEncoder struct {
	mode cbor.EncMode
}

func (c cborEncoder) Encode(w io.Writer, v any) error {
	return c.mode.NewEncoder(w).Encode(v)
}
