package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/zot/prefs/internal/value"
)

// YAML stores a file as a YAML mapping. Scalars are written with explicit
// core-schema tags so integers and floats keep their kind.
type YAML struct{}

// Name returns the format name used in configuration.
func (YAML) Name() string { return "yaml" }

// Ext returns the file extension.
func (YAML) Ext() string { return "yaml" }

// Marshal encodes root as a YAML mapping.
func (YAML) Marshal(root value.Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{toNode(root)}}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a YAML mapping.
func (YAML) Unmarshal(data []byte) (value.Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.Table{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotTable
	}
	v, err := fromNode(root)
	if err != nil {
		return nil, err
	}
	return v.(value.Table), nil
}

func scalar(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

func toNode(v value.Value) *yaml.Node {
	switch x := v.(type) {
	case value.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(x)))
	case value.Integer:
		return scalar("!!int", strconv.FormatInt(int64(x), 10))
	case value.Float:
		f := float64(x)
		switch {
		case math.IsNaN(f):
			return scalar("!!float", ".nan")
		case math.IsInf(f, 1):
			return scalar("!!float", ".inf")
		case math.IsInf(f, -1):
			return scalar("!!float", "-.inf")
		}
		return scalar("!!float", formatFloat(f))
	case value.String:
		return scalar("!!str", string(x))
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case value.Table:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range x.Keys() {
			n.Content = append(n.Content, scalar("!!str", k), toNode(x[k]))
		}
		return n
	}
	return scalar("!!null", "null")
}

// fromNode drops null scalars the same way the JSON codec drops null members.
func fromNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		arr := value.Array{}
		for _, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			if v != nil {
				arr = append(arr, v)
			}
		}
		return arr, nil
	case yaml.MappingNode:
		tbl := value.Table{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n.Content[i].Value, err)
			}
			if v != nil {
				tbl[n.Content[i].Value] = v
			}
		}
		return tbl, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return value.Bool(b), nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, err
			}
			return value.Integer(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return value.Float(f), nil
		}
		return value.String(n.Value), nil
	}
	return nil, fmt.Errorf("codec: unexpected yaml node kind %d", n.Kind)
}
