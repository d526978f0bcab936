package parser

import (
	"fmt"
	"strconv"
	"time"

	"go.yaml.in/yaml/v4"
)

// Document is a parsed document together with an index from node identity
// to source location. Documents are immutable once loaded; resolvers and
// caches share them freely.
type Document struct {
	// Locator is the canonical locator the document was loaded from
	Locator string
	// Root is the top-level content node (never a DocumentNode)
	Root *yaml.Node
	// Format is the detected source format
	Format SourceFormat
	// Size is the content size in bytes
	Size int64
	// LoadTime is the time spent fetching and parsing
	LoadTime time.Duration

	locs map[*yaml.Node]Location
	keys map[*yaml.Node]*yaml.Node
}

// NewDocument wraps an already parsed node tree and indexes it.
func NewDocument(locator string, root *yaml.Node, format SourceFormat) *Document {
	d := &Document{
		Locator: locator,
		Root:    Unalias(root),
		Format:  format,
		locs:    make(map[*yaml.Node]Location),
		keys:    make(map[*yaml.Node]*yaml.Node),
	}
	if d.Root != nil {
		d.index(d.Root, RootLocation(locator))
	}
	return d
}

// ParseDocument parses YAML or JSON content into a Document.
func ParseDocument(locator string, data []byte, format SourceFormat) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, newParseError(locator, err)
	}
	if n := Unalias(&root); n == nil || n.Kind == 0 {
		return nil, newParseError(locator, fmt.Errorf("empty document"))
	}
	if format == "" || format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}
	d := NewDocument(locator, &root, format)
	d.Size = int64(len(data))
	return d, nil
}

func (d *Document) index(n *yaml.Node, loc Location) {
	if _, seen := d.locs[n]; seen {
		return
	}
	d.locs[n] = loc
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind == yaml.AliasNode {
				continue
			}
			d.keys[v] = k
			d.index(v, loc.Child(k.Value))
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			if item.Kind == yaml.AliasNode {
				continue
			}
			d.index(item, loc.Index(i))
		}
	}
}

// LocationOf returns the location of a node that belongs to this document.
func (d *Document) LocationOf(n *yaml.Node) (Location, bool) {
	loc, ok := d.locs[Unalias(n)]
	return loc, ok
}

// KeyOf returns the mapping key node under which n is stored, or nil for
// sequence items and the root.
func (d *Document) KeyOf(n *yaml.Node) *yaml.Node {
	return d.keys[Unalias(n)]
}

// Lookup navigates tokens from the root by sequential key or index lookup.
// The error names the first missing step.
func (d *Document) Lookup(tokens []string) (*yaml.Node, error) {
	cur := d.Root
	for i, tok := range tokens {
		cur = Unalias(cur)
		if cur == nil {
			return nil, fmt.Errorf("missing %q", tok)
		}
		switch cur.Kind {
		case yaml.MappingNode:
			v := MapValue(cur, tok)
			if v == nil {
				return nil, fmt.Errorf("missing key %q at step %d", tok, i+1)
			}
			cur = v
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Content) {
				return nil, fmt.Errorf("invalid index %q at step %d (length %d)", tok, i+1, len(cur.Content))
			}
			cur = cur.Content[idx]
		default:
			return nil, fmt.Errorf("cannot traverse into scalar at step %d", i+1)
		}
	}
	return Unalias(cur), nil
}

// Version returns the "openapi" or "swagger" version string of the document.
func (d *Document) Version() string {
	if v, ok := MapString(d.Root, "openapi"); ok {
		return v
	}
	if v, ok := MapString(d.Root, "swagger"); ok {
		return v
	}
	return ""
}

// IsOAS2 reports whether the document declares swagger: "2.0".
func (d *Document) IsOAS2() bool {
	v, ok := MapString(d.Root, "swagger")
	return ok && v != ""
}
