// Package config loads plugin option files for the pressio command.
//
// An option file maps option keys to values. Files are YAML or JSONC (JSON
// with comments and trailing commas); the format is chosen by extension.
// Keys may be written flat or grouped under their plugin prefix, so both of
// these set zstd:level:
//
//	zstd:level: 9
//
//	zstd:
//	  level: 9
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of an option file.
type Format uint8

const (
	FormatYAML  Format = 0x1 // FormatYAML is YAML 1.2.
	FormatJSONC Format = 0x2 // FormatJSONC is JSON with comments and trailing commas.
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSONC:
		return "jsonc"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension. ".json" and
// ".jsonc" are JSONC; everything else is YAML, which also accepts plain JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatYAML
	}
}

// LoadFile reads and parses the option file at path.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	values, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return values, nil
}

// Parse decodes data and flattens prefix groups into "<prefix>:<name>" keys.
func Parse(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any

	switch format {
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing options: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing options: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported option file format %s", format)
	}

	return flatten(raw), nil
}

// flatten expands a map value under a key without ':' into scoped keys. Maps
// under scoped keys are option values of their own and are kept.
func flatten(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		group, ok := value.(map[string]any)
		if !ok || strings.Contains(key, ":") {
			out[key] = value
			continue
		}
		for name, v := range group {
			out[key+":"+name] = v
		}
	}

	return out
}

// ParseAssignment parses a "key=value" command line assignment. The value is
// decoded as a YAML scalar or flow sequence, so "3" is an integer, "true" a
// bool and "[0, 1]" a list. Values that are not valid YAML stay strings.
func ParseAssignment(s string) (string, any, error) {
	key, text, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid option assignment %q, expected key=value", s)
	}

	var value any
	if err := yaml.Unmarshal([]byte(text), &value); err != nil || value == nil {
		return key, text, nil
	}
	if _, isMap := value.(map[string]any); isMap {
		return key, text, nil
	}

	return key, value, nil
}
