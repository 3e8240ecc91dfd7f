// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Config files decode strictly into structs; front matter decodes into
// ordered mappings so that key order survives a round trip.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document is not a mapping")
)

// MapItem is one key/value pair of an ordered mapping.
type MapItem = yaml.MapItem

// MapSlice is an ordered mapping. Nested mappings are MapSlice as well.
type MapSlice = yaml.MapSlice

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalMapping decodes a YAML document that must be a mapping.
// A document holding only comments or null yields an empty mapping.
func UnmarshalMapping(data []byte) (MapSlice, error) {
	var doc any
	if err := validateInput(data, &doc); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	switch m := doc.(type) {
	case nil:
		return MapSlice{}, nil
	case yaml.MapSlice:
		return m, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, doc)
	}
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
