package schema

import "fmt"

// NewItemPlaceholder is the sentinel assigned to the distinguishing field
// of a freshly created object so the UI immediately shows an editable
// identity label.
const NewItemPlaceholder = "new"

// defaultDistinguishingField is used when an object schema does not name
// its own distinguishing field.
const defaultDistinguishingField = "cn"

// CreateDefault synthesizes a minimal valid value for a brand-new tree
// node, array element, or map entry described by n.
//
// An explicit schema default is returned verbatim, whatever the declared
// type. Otherwise the value is derived from the type: boolean false,
// string nil, integer 0, enum nil, array an empty sequence, map an empty
// mapping.
//
// For object nodes without a default the result is a mapping over every
// declared property.
// The distinguishing field receives NewItemPlaceholder; every other
// property receives its primitive default. Nested object-typed properties
// are deliberately left absent rather than built recursively: downstream
// editors rely on the shallow shape to prompt the user instead of
// pre-populating deep structure.
//
// A node with neither a recognised type nor a default yields
// ErrUnknownType. That is a schema error, not a user-facing failure.
func CreateDefault(n *Node) (any, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	if n.Default != nil {
		return n.Default, nil
	}

	if !n.HasType("object") || n.IsMap() {
		return basicDefault(n)
	}

	df := n.DistinguishingField
	if df == "" {
		df = defaultDistinguishingField
	}

	obj := make(map[string]any, len(n.Properties))
	for _, name := range n.PropertyNames() {
		if name == df {
			obj[name] = NewItemPlaceholder
			continue
		}
		v, err := basicDefault(n.Properties[name])
		if err != nil {
			// Shallow synthesis: a nested object property has no
			// primitive default, so the key stays absent.
			continue
		}
		obj[name] = v
	}
	return obj, nil
}

// basicDefault handles the non-object dispatch. Check order mirrors the
// editor's historical behaviour: explicit default, then primitives, then
// enum, array and map.
func basicDefault(n *Node) (any, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	if n.Default != nil {
		return n.Default, nil
	}

	switch {
	case n.HasType("boolean"):
		return false, nil
	case n.HasType("string"):
		return nil, nil
	case n.HasType("integer"):
		return int64(0), nil
	case n.IsEnum():
		return nil, nil
	case n.HasType("array"):
		return []any{}, nil
	case n.IsMap():
		return map[string]any{}, nil
	}

	return nil, fmt.Errorf("%w: class %q, types %v", ErrUnknownType, n.Class, n.Types)
}
