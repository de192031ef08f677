package schema

// Prop pairs a property name with its schema node for programmatic schema
// construction.
type Prop struct {
	Name string
	Node *Node
}

// ObjectOf builds an object node with the given class and ordered
// properties. Schemas parsed from JSON preserve their document order
// automatically; this helper exists for embedders and tests that assemble
// schemas in code.
func ObjectOf(class string, props ...Prop) *Node {
	n := &Node{
		Types:      []string{"object"},
		Class:      class,
		Properties: make(map[string]*Node, len(props)),
	}
	for _, p := range props {
		n.Properties[p.Name] = p.Node
		n.propOrder = append(n.propOrder, p.Name)
	}
	return n
}

// MapOf builds a map node whose values all conform to the given template.
func MapOf(template *Node) *Node {
	return &Node{
		Types:      []string{"object"},
		Class:      ClassMap,
		Properties: map[string]*Node{Wildcard: template},
		propOrder:  []string{Wildcard},
	}
}

// ArrayOf builds an array node with the given element template.
func ArrayOf(items *Node) *Node {
	return &Node{Types: []string{"array"}, Items: items}
}
