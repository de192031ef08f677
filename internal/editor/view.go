package editor

import (
	"fmt"
	"sort"

	"github.com/dcmnet/dicom-conf-core/internal/schema"
)

// NodeView is the render model for one schema+value pair. It is computed
// synchronously from the current document state and carries everything a
// frontend needs to draw the node: classification, label, tooltip, group
// tabs, ordered visible properties, enum choices, and collection state.
//
// Views are snapshots: after a mutation the affected subtree is rebuilt
// with BuildView.
type NodeView struct {
	Kind    schema.Kind
	Schema  *schema.Node
	Value   any
	Label   string
	Tooltip string

	// Object state.
	Groups            []string
	Properties        []PropertyView
	ShowAllTogglable  bool
	ShowingAllProps   bool
	ExtensionProperty string // non-empty when the class accepts extensions

	// Enum state.
	Choices []schema.Choice

	// Collection state. Children are rendered per entry; Empty drives the
	// empty-state placeholder.
	Entries []EntryView
	Empty   bool
}

// PropertyView is one visible property of an object node, in render
// order.
type PropertyView struct {
	Name    string
	Group   string
	Primary bool
	View    *NodeView
}

// EntryView is one entry of a collection node.
type EntryView struct {
	Key   any // string key for maps, int index for arrays
	Label string
	View  *NodeView
}

// ViewConfig controls a BuildView pass.
type ViewConfig struct {
	// Options scope property exclusion and group filtering.
	Options *schema.ViewOptions

	// ShowAllProps reveals properties beyond the PRIMARY set. Ignored for
	// schemas with no PRIMARY-tagged property, which always show
	// everything.
	ShowAllProps bool
}

// BuildView renders one schema+value pair into a NodeView, recursing into
// children. A nil schema is refused: the editor never guesses shape.
func BuildView(value any, n *schema.Node, cfg ViewConfig) (*NodeView, error) {
	if n == nil {
		return nil, ErrNoSchema
	}

	view := &NodeView{
		Kind:    schema.Classify(n),
		Schema:  n,
		Value:   value,
		Tooltip: schema.Tooltip(n),
	}

	switch view.Kind {
	case schema.KindObject:
		if err := buildObjectView(view, value, n, cfg); err != nil {
			return nil, err
		}

	case schema.KindEnum:
		view.Choices = schema.EnumChoices(n)

	case schema.KindArray:
		arr, _ := value.([]any)
		view.Empty = len(arr) == 0
		for i, item := range arr {
			child, err := BuildView(item, n.Items, cfg)
			if err != nil {
				return nil, fmt.Errorf("array entry %d: %w", i, err)
			}
			view.Entries = append(view.Entries, EntryView{
				Key:   i,
				Label: schema.Label(item, n.Items),
				View:  child,
			})
		}

	case schema.KindMap:
		m, _ := value.(map[string]any)
		view.Empty = len(m) == 0
		tmpl := n.ValueTemplate()
		for _, key := range sortedKeys(m) {
			child, err := BuildView(m[key], tmpl, cfg)
			if err != nil {
				return nil, fmt.Errorf("map entry %q: %w", key, err)
			}
			view.Entries = append(view.Entries, EntryView{
				Key:   key,
				Label: key,
				View:  child,
			})
		}

	case schema.KindBoolean, schema.KindString, schema.KindInteger:
		// Primitives bind directly to the value; nothing more to compute.

	case schema.KindInvalid:
		return nil, fmt.Errorf("%w: unclassifiable node (class %q)", ErrNoSchema, n.Class)
	}

	return view, nil
}

// buildObjectView fills the object-specific parts of a view: label,
// group tabs, visibility toggle, and the ordered visible properties.
func buildObjectView(view *NodeView, value any, n *schema.Node, cfg ViewConfig) error {
	view.Label = schema.Label(value, n)
	view.Groups = schema.Groups(n, cfg.Options)

	// The condensed view only exists when the schema tags PRIMARY
	// properties; otherwise everything is always shown and the toggle is
	// hidden.
	view.ShowAllTogglable = schema.HasPrimary(n)
	view.ShowingAllProps = cfg.ShowAllProps || !view.ShowAllTogglable
	if prop, ok := ExtensionProperty[n.Class]; ok {
		view.ExtensionProperty = prop
	}

	names := n.PropertyNames()
	visible := make([]string, 0, len(names))
	for _, name := range names {
		if cfg.Options.Excluded(name) {
			continue
		}
		visible = append(visible, name)
	}
	visible = schema.PrimaryOnly(n, visible, view.ShowingAllProps)
	visible = schema.SortProperties(n, visible)

	obj, _ := value.(map[string]any)
	for _, name := range visible {
		child := n.Properties[name]
		var childValue any
		if obj != nil {
			childValue = obj[name]
		}
		childView, err := BuildView(childValue, child, cfg)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		view.Properties = append(view.Properties, PropertyView{
			Name:    name,
			Group:   child.UIGroup,
			Primary: child.HasTag(schema.TagPrimary),
			View:    childView,
		})
	}
	return nil
}

// sortedKeys returns map keys in lexical order for stable rendering.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
