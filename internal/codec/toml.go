package codec

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/zot/prefs/internal/value"
)

// TOML is the default on-disk format.
type TOML struct{}

// Name returns the format name used in configuration.
func (TOML) Name() string { return "toml" }

// Ext returns the file extension.
func (TOML) Ext() string { return "toml" }

// Marshal writes root as a TOML document. Keys are sorted and plain values
// precede sub-tables.
func (TOML) Marshal(root value.Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(value.ToAny(root)); err != nil {
		return nil, fmt.Errorf("codec: encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a TOML document. Datetimes are kept as RFC 3339 strings.
func (TOML) Unmarshal(data []byte) (value.Table, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("codec: parse toml: %w", err)
	}
	v, err := value.FromAny(doc)
	if err != nil {
		return nil, err
	}
	return v.(value.Table), nil
}
