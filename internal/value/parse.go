package value

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Parse reads a literal written in TOML value syntax ("5", "1.5", "true",
// "[10, 20]", "\"text\"", "{ a = 1 }"). Anything that does not parse as a
// TOML value is taken as a bare string.
func Parse(literal string) Value {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" {
		return String(literal)
	}

	var doc map[string]any
	if _, err := toml.Decode("v = "+trimmed, &doc); err != nil {
		return String(literal)
	}
	v, err := FromAny(doc["v"])
	if err != nil {
		return String(literal)
	}
	return v
}

// Format writes v in the syntax Parse reads. Tables, and arrays holding
// tables, are written as a TOML document with v as the top-level key.
func Format(v Value) string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"v": ToAny(v)}); err != nil {
		return fmt.Sprintf("%v", ToAny(v))
	}
	out := strings.TrimSpace(buf.String())
	if rest, ok := strings.CutPrefix(out, "v = "); ok {
		return rest
	}
	return out
}
