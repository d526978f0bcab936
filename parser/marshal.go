package parser

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Marshal serializes a node tree in the given format, preserving mapping key
// order. JSON output is indented by two spaces; YAML output uses block style.
func Marshal(node *yaml.Node, format SourceFormat) ([]byte, error) {
	switch format {
	case SourceFormatJSON:
		var buf bytes.Buffer
		if err := marshalNodeAsJSON(&buf, Unalias(node), 0); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case SourceFormatYAML:
		return marshalYAML(node)
	}
	return nil, fmt.Errorf("parser: unsupported output format %q", format)
}

func marshalYAML(node *yaml.Node) ([]byte, error) {
	out := DeepCopy(Unalias(node))
	blockStyle(out)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("parser: failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle clears flow style and JSON quoting inherited from JSON input.
// The encoder re-quotes scalars whose plain form would change their type.
func blockStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if (n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode) && n.Style&yaml.FlowStyle != 0 {
		n.Style &^= yaml.FlowStyle
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode && c.Style == yaml.DoubleQuotedStyle && !strings.Contains(c.Value, "\n") {
				c.Style = 0
			}
		}
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// marshalNodeAsJSON writes a yaml.Node to a buffer as JSON, in node order.
func marshalNodeAsJSON(buf *bytes.Buffer, node *yaml.Node, depth int) error {
	if node == nil {
		buf.WriteString("null")
		return nil
	}

	switch node.Kind {
	case yaml.DocumentNode, yaml.AliasNode:
		return marshalNodeAsJSON(buf, Unalias(node), depth)

	case yaml.MappingNode:
		if len(node.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, depth+1)
			if err := writeJSON(buf, node.Content[i].Value); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := marshalNodeAsJSON(buf, node.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		newline(buf, depth)
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, depth+1)
			if err := marshalNodeAsJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		newline(buf, depth)
		buf.WriteByte(']')
		return nil

	default:
		return writeScalar(buf, node)
	}
}

func newline(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
}

func writeScalar(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		if b, err := strconv.ParseBool(strings.ToLower(node.Value)); err == nil {
			buf.WriteString(strconv.FormatBool(b))
			return nil
		}
	case "!!int":
		v := strings.ReplaceAll(node.Value, "_", "")
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			buf.WriteString(strconv.FormatInt(i, 10))
			return nil
		}
		if i, err := strconv.ParseInt(v, 0, 64); err == nil {
			buf.WriteString(strconv.FormatInt(i, 10))
			return nil
		}
		if isJSONNumber(node.Value) {
			buf.WriteString(node.Value)
			return nil
		}
	case "!!float":
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			if isJSONNumber(node.Value) {
				buf.WriteString(node.Value)
			} else {
				buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			}
			return nil
		}
	}
	return writeJSON(buf, node.Value)
}

// isJSONNumber reports whether s is already a valid JSON number literal.
func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	var v gojson.Number
	return gojson.Unmarshal([]byte(s), &v) == nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	var b bytes.Buffer
	enc := gojson.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("parser: failed to encode JSON: %w", err)
	}
	buf.Write(bytes.TrimSuffix(b.Bytes(), []byte("\n")))
	return nil
}
