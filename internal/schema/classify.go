package schema

// Kind is the closed classification of a schema node. Every consumer of
// the editor core dispatches exhaustively on Kind instead of re-inspecting
// type strings, so adding a kind is a compile-time-checked change.
type Kind int

const (
	// KindInvalid marks a nil or unclassifiable node.
	KindInvalid Kind = iota

	// KindBoolean, KindString and KindInteger are primitives rendered as a
	// direct input bound to the value.
	KindBoolean
	KindString
	KindInteger

	// KindEnum is a closed choice list, optionally nullable.
	KindEnum

	// KindArray is an ordered sequence edited by index.
	KindArray

	// KindMap is a keyed mapping edited by key, with a single wildcard
	// value template.
	KindMap

	// KindObject is a fixed-property composite edited by property
	// iteration.
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Classify determines the node kind that drives rendering and editing.
//
// Rules are applied in priority order:
//  1. an enum facet wins over everything else
//  2. class "Map" marks a keyed map
//  3. declared type "array"
//  4. declared type "object"
//  5. remaining primitives (boolean, string, integer)
//
// Classify is pure: it never mutates the node and the same node always
// yields the same kind.
func Classify(n *Node) Kind {
	if n == nil {
		return KindInvalid
	}
	switch {
	case n.IsEnum():
		return KindEnum
	case n.IsMap():
		return KindMap
	case n.HasType("array"):
		return KindArray
	case n.HasType("object"):
		return KindObject
	case n.HasType("boolean"):
		return KindBoolean
	case n.HasType("string"):
		return KindString
	case n.HasType("integer"):
		return KindInteger
	default:
		return KindInvalid
	}
}
