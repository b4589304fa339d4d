package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/zot/prefs/internal/value"
)

// JSON stores a file as a JSON object. Floats are always written with a
// fraction or exponent so that integers and floats survive a round trip.
type JSON struct {
	// Indent pretty-prints the output; key/value storage uses compact text.
	Indent bool
}

// Name returns the format name used in configuration.
func (JSON) Name() string { return "json" }

// Ext returns the file extension.
func (JSON) Ext() string { return "json" }

// Marshal encodes root as a JSON object, pretty-printed when Indent is set.
func (c JSON) Marshal(root value.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, root); err != nil {
		return nil, err
	}
	if c.Indent {
		return pretty.Pretty(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a JSON object. null members are dropped since the value
// tree has no null.
func (JSON) Unmarshal(data []byte) (value.Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("codec: parse json: invalid document")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, ErrNotTable
	}
	v, err := fromJSON(res)
	if err != nil {
		return nil, err
	}
	return v.(value.Table), nil
}

func fromJSON(r gjson.Result) (value.Value, error) {
	switch r.Type {
	case gjson.True:
		return value.Bool(true), nil
	case gjson.False:
		return value.Bool(false), nil
	case gjson.String:
		return value.String(r.Str), nil
	case gjson.Number:
		raw := strings.TrimSpace(r.Raw)
		if !strings.ContainsAny(raw, ".eE") {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return value.Integer(n), nil
			}
		}
		return value.Float(r.Num), nil
	case gjson.JSON:
		var err error
		if r.IsArray() {
			arr := value.Array{}
			r.ForEach(func(_, item gjson.Result) bool {
				if item.Type == gjson.Null {
					return true
				}
				var v value.Value
				if v, err = fromJSON(item); err != nil {
					return false
				}
				arr = append(arr, v)
				return true
			})
			return arr, err
		}
		tbl := value.Table{}
		r.ForEach(func(key, item gjson.Result) bool {
			if item.Type == gjson.Null {
				return true
			}
			var v value.Value
			if v, err = fromJSON(item); err != nil {
				return false
			}
			tbl[key.Str] = v
			return true
		})
		return tbl, err
	}
	return nil, fmt.Errorf("codec: unexpected json token %q", r.Raw)
}

func writeJSON(buf *bytes.Buffer, v value.Value) error {
	switch x := v.(type) {
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case value.Integer:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case value.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("codec: json cannot represent %v", f)
		}
		buf.WriteString(formatFloat(f))
	case value.String:
		s, err := json.Marshal(string(x))
		if err != nil {
			return err
		}
		buf.Write(s)
	case value.Array:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case value.Table:
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, x[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("codec: cannot encode %T", v)
	}
	return nil
}
