// Package codec converts a preferences root table to and from its stored
// text form. TOML is the on-disk default; JSON is used for key/value storage
// and YAML is available for on-disk files.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zot/prefs/internal/value"
)

// ErrNotTable is returned when a document's root is not a table/object.
var ErrNotTable = errors.New("codec: document root is not a table")

// Codec encodes and decodes a whole preferences file.
type Codec interface {
	// Name returns the format name used in configuration ("toml", "json", "yaml").
	Name() string

	// Ext returns the file extension without the dot.
	Ext() string

	Marshal(root value.Table) ([]byte, error)
	Unmarshal(data []byte) (value.Table, error)
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "toml":
		return TOML{}, nil
	case "json":
		return JSON{Indent: true}, nil
	case "yaml", "yml":
		return YAML{}, nil
	}
	return nil, fmt.Errorf("codec: unknown format %q", name)
}

// formatFloat renders f so that it always reads back as a float, never as an
// integer: 1 becomes "1.0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
