package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wildcard is the property name used by map-typed schema nodes to describe
// the shape of every map value.
const Wildcard = "*"

// ClassMap is the class name that marks a node as a keyed map rather than a
// plain object.
const ClassMap = "Map"

// Node describes the shape of one configuration value.
//
// A node may declare several primitive types at once (e.g. "string" and
// "null" for a nullable field); Types holds the full declared set. The
// node graph is immutable once parsed.
type Node struct {
	// Types is the declared type set ("boolean", "string", "integer",
	// "array", "object", "enum", "null"). A plain JSON string type is
	// normalised into a single-element set.
	Types []string

	// Class identifies which object class this node describes
	// (e.g. "Device", "Connection", "Map"). Used to look up applicable
	// extensions and to detect map nodes.
	Class string

	// Properties maps property names to child nodes for object-typed
	// nodes. For map nodes the single Wildcard property describes the
	// value template. PropertyNames() preserves declaration order.
	Properties map[string]*Node

	// propOrder records the property declaration order from the schema
	// document. The editor renders properties in this order before any
	// grouping or sorting is applied.
	propOrder []string

	// Items is the element template for array-typed nodes.
	Items *Node

	// Default is an optional literal default value, returned verbatim by
	// CreateDefault when present.
	Default any

	// Enum holds the allowed values for enum nodes. EnumStrValues carries
	// the parallel display labels used when EnumRepresentation is
	// "ORDINAL".
	Enum               []any
	EnumStrValues      []string
	EnumRepresentation string

	// DistinguishingField names the property used as the identity label
	// for a newly created object instance. Defaults to "cn".
	DistinguishingField string

	// Presentation metadata. Not semantic.
	UIGroup     string
	Tags        []string
	Description string
}

// nodeJSON mirrors the wire representation of a schema node.
type nodeJSON struct {
	Type                any                        `json:"type"`
	Class               string                     `json:"class"`
	Properties          map[string]json.RawMessage `json:"properties"`
	Items               *Node                      `json:"items"`
	Default             any                        `json:"default"`
	Enum                []any                      `json:"enum"`
	EnumStrValues       []string                   `json:"enumStrValues"`
	EnumRepresentation  string                     `json:"enumRepresentation"`
	DistinguishingField string                     `json:"distinguishingField"`
	UIGroup             string                     `json:"uiGroup"`
	Tags                []string                   `json:"tags"`
	Description         string                     `json:"description"`
}

// UnmarshalJSON parses a schema node, normalising the declared type into a
// set and preserving property declaration order.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}

	n.Class = raw.Class
	n.Items = raw.Items
	n.Default = raw.Default
	n.Enum = raw.Enum
	n.EnumStrValues = raw.EnumStrValues
	n.EnumRepresentation = raw.EnumRepresentation
	n.DistinguishingField = raw.DistinguishingField
	n.UIGroup = raw.UIGroup
	n.Tags = raw.Tags
	n.Description = raw.Description

	// "type" may be a single string or an array of strings.
	switch t := raw.Type.(type) {
	case string:
		n.Types = []string{t}
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				n.Types = append(n.Types, s)
			}
		}
	case nil:
		// Some nodes (pure enum or default-only) omit "type".
	default:
		return fmt.Errorf("%w: unexpected type declaration %T", ErrMalformedSchema, raw.Type)
	}

	if raw.Properties != nil {
		n.Properties = make(map[string]*Node, len(raw.Properties))
		order, err := propertyOrder(data)
		if err != nil {
			return err
		}
		n.propOrder = order
		for name, msg := range raw.Properties {
			child := &Node{}
			if err := json.Unmarshal(msg, child); err != nil {
				return fmt.Errorf("property %q: %w", name, err)
			}
			n.Properties[name] = child
		}
	}

	return nil
}

// propertyOrder extracts the key order of the "properties" object from the
// raw JSON. encoding/json maps lose ordering, so a second token pass is
// needed.
func propertyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Scan the top-level object for the "properties" key.
	if _, err := dec.Token(); err != nil { // consume '{'
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	depth := 0
	for dec.More() || depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		case string:
			if depth == 0 && t == "properties" {
				return readObjectKeys(dec)
			}
			// Skip the value paired with this key.
			if depth == 0 {
				var discard json.RawMessage
				if err := dec.Decode(&discard); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
				}
			}
		}
	}
	return nil, nil
}

// readObjectKeys consumes one JSON object from the decoder and returns its
// top-level keys in order of appearance.
func readObjectKeys(dec *json.Decoder) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: properties is not an object", ErrMalformedSchema)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string property name", ErrMalformedSchema)
		}
		keys = append(keys, key)

		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return keys, nil
}

// Parse decodes a single schema node from JSON.
func Parse(data []byte) (*Node, error) {
	n := &Node{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, err
	}
	return n, nil
}

// HasType reports whether the node's declared type set contains t.
func (n *Node) HasType(t string) bool {
	if n == nil {
		return false
	}
	for _, declared := range n.Types {
		if declared == t {
			return true
		}
	}
	return false
}

// IsEnum reports whether the node carries an enum facet.
func (n *Node) IsEnum() bool {
	if n == nil {
		return false
	}
	return len(n.Enum) > 0 || n.HasType("enum")
}

// IsMap reports whether the node describes a keyed map.
func (n *Node) IsMap() bool {
	return n != nil && n.Class == ClassMap
}

// HasTag reports whether the node's tag list contains tag.
func (n *Node) HasTag(tag string) bool {
	if n == nil {
		return false
	}
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PropertyNames returns the node's property names in schema declaration
// order. The returned slice is a copy; callers may reorder it freely.
func (n *Node) PropertyNames() []string {
	if n == nil || len(n.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.Properties))
	seen := make(map[string]bool, len(n.Properties))
	for _, name := range n.propOrder {
		if _, ok := n.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	// Defensive: include any property missing from the recorded order.
	for name := range n.Properties {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// ValueTemplate returns the wildcard value schema for a map node, or nil if
// the node is not a map or declares no template.
func (n *Node) ValueTemplate() *Node {
	if n == nil || n.Properties == nil {
		return nil
	}
	return n.Properties[Wildcard]
}

// Set is the full schema bundle for a configuration root: the device schema
// plus the per-class extension schemas.
type Set struct {
	// Device is the schema for the top-level device object.
	Device *Node `json:"device"`

	// Extensions maps a class name (Device, ApplicationEntity,
	// HL7Application, Connection) to the named extension schemas that can
	// be attached to nodes of that class.
	Extensions map[string]map[string]*Node `json:"extensions"`
}

// ParseSet decodes a schema bundle from JSON.
func ParseSet(data []byte) (*Set, error) {
	s := &Set{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return s, nil
}
