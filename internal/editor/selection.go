package editor

import (
	"fmt"

	"github.com/dcmnet/dicom-conf-core/internal/schema"
)

// SelectedNode is the transient editing context for one tree node: the
// node itself, its schema, and its position inside the parent container.
// It scopes deletion and property exclusion, and is destroyed whenever
// the enclosing device config or collection selection changes.
type SelectedNode struct {
	Node         any
	Schema       *schema.Node
	ParentNode   any
	ParentSchema *schema.Node
	Key          any // string key or int index within the parent
	Options      *schema.ViewOptions

	// ParentContainer and ParentKey locate the parent node inside its own
	// enclosing container. They are only needed when the parent is an
	// array: splicing reallocates the slice, and the new header must be
	// written back where the array lives.
	ParentContainer any
	ParentKey       any
}

// Parent describes the container a node sits in. Node is the immediate
// container, Key the string key or int index within it. Container and
// ContainerKey locate an array parent inside its own enclosing
// structure; map parents may leave them nil.
type Parent struct {
	Node         any
	Schema       *schema.Node
	Key          any
	Container    any
	ContainerKey any
}

// SelectNode builds a selection context. A nil schema is refused; the
// editor never operates on a node it cannot describe.
func SelectNode(node any, n *schema.Node, parent Parent, opts *schema.ViewOptions) (*SelectedNode, error) {
	if n == nil {
		return nil, ErrNoSchema
	}
	return &SelectedNode{
		Node:            node,
		Schema:          n,
		ParentNode:      parent.Node,
		ParentSchema:    parent.Schema,
		Key:             parent.Key,
		Options:         opts,
		ParentContainer: parent.Container,
		ParentKey:       parent.ContainerKey,
	}, nil
}

// Delete removes the selected node from its parent after confirmation.
// Array parents are spliced; map parents lose the key entirely. The
// context is cleared afterwards and the change monitor notified.
// Returns true when the deletion happened.
func (sel *SelectedNode) Delete(confirmer Confirmer, monitor *Monitor) (bool, error) {
	if sel == nil || sel.Schema == nil {
		return false, ErrNoSchema
	}
	if confirmer == nil {
		confirmer = alwaysConfirm{}
	}
	prompt := fmt.Sprintf("Do you really want to delete this %s?", sel.Schema.Class)
	if !confirmer.Confirm(prompt) {
		return false, nil
	}

	switch parent := sel.ParentNode.(type) {
	case []any:
		i, ok := sel.Key.(int)
		if !ok || i < 0 || i >= len(parent) {
			return false, fmt.Errorf("%w: index %v out of range", ErrNotCollection, sel.Key)
		}
		spliced := append(parent[:i:i], parent[i+1:]...)
		if err := writeBackArray(sel.ParentContainer, sel.ParentKey, spliced); err != nil {
			return false, err
		}

	case map[string]any:
		k, ok := sel.Key.(string)
		if !ok {
			return false, fmt.Errorf("%w: map key is %T", ErrNotCollection, sel.Key)
		}
		delete(parent, k)

	default:
		return false, fmt.Errorf("%w: parent is %T", ErrNotCollection, sel.ParentNode)
	}

	sel.Node = nil
	sel.Schema = nil
	sel.ParentNode = nil
	sel.ParentSchema = nil

	if monitor != nil {
		monitor.MarkChanged()
	}
	return true, nil
}

// writeBackArray stores a spliced array into the container that holds it.
func writeBackArray(container, key any, arr []any) error {
	switch c := container.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return fmt.Errorf("%w: container key is %T", ErrNotCollection, key)
		}
		c[k] = arr
		return nil
	case []any:
		i, ok := key.(int)
		if !ok || i < 0 || i >= len(c) {
			return fmt.Errorf("%w: container index %v out of range", ErrNotCollection, key)
		}
		c[i] = arr
		return nil
	default:
		return fmt.Errorf("%w: array parent needs a write-back container, got %T", ErrNotCollection, container)
	}
}
