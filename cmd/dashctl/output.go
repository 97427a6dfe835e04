package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type printer interface {
	Print(w io.Writer, v any) error
}

func newPrinter(format string) (printer, error) {
	switch format {
	case "", "json":
		return jsonPrinter{}, nil
	case "yaml", "yml":
		return yamlPrinter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (json, yaml)", format)
	}
}

type jsonPrinter struct{}

func (jsonPrinter) Print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// yamlPrinter goes through JSON first so the json tags of the response types
// name the YAML keys as well
type yamlPrinter struct{}

func (yamlPrinter) Print(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
