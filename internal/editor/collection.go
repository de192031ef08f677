package editor

import (
	"fmt"

	"github.com/dcmnet/dicom-conf-core/internal/schema"
)

// Collection edits one array- or map-typed document node: adding,
// deleting and selecting entries, and renaming map keys. It tracks the
// current selection and the entry in rename/edit mode, mirroring how the
// admin UI presents collections.
//
// Array values may reallocate on append, so the collection holds its
// parent container and writes the new slice header back through it.
type Collection struct {
	schema   *schema.Node
	kind     schema.Kind
	value    any
	parent   any
	key      any
	monitor  *Monitor
	notifier Notifier
	focus    FocusFunc

	selectedKey any
	selected    any
	editedKey   any
}

// CollectionOpts carries the optional collaborators of a Collection.
type CollectionOpts struct {
	Monitor  *Monitor
	Notifier Notifier
	Focus    FocusFunc
}

// NewCollection binds a collection editor to a document node.
//
// value is the collection itself; parent and key locate it inside its
// enclosing container (parent may be nil for a detached root). The schema
// must classify as an array or a map.
func NewCollection(value any, n *schema.Node, parent, key any, opts CollectionOpts) (*Collection, error) {
	if n == nil {
		return nil, ErrNoSchema
	}
	kind := schema.Classify(n)
	if kind != schema.KindArray && kind != schema.KindMap {
		return nil, fmt.Errorf("%w: kind %s", ErrNotCollection, kind)
	}

	c := &Collection{
		schema:   n,
		kind:     kind,
		value:    value,
		parent:   parent,
		key:      key,
		monitor:  opts.Monitor,
		notifier: opts.Notifier,
		focus:    opts.Focus,
	}
	if c.notifier == nil {
		c.notifier = noopNotifier{}
	}
	return c, nil
}

// Value returns the current collection value. For arrays this reflects
// any appends performed through the editor.
func (c *Collection) Value() any { return c.value }

// Selected returns the selected entry's key (or index) and value, or
// (nil, nil) when nothing is selected.
func (c *Collection) Selected() (any, any) { return c.selectedKey, c.selected }

// EditedKey returns the key currently in rename/edit mode, or nil.
func (c *Collection) EditedKey() any { return c.editedKey }

// IsEmpty reports whether the collection has zero entries. Drives the
// empty-state placeholder.
func (c *Collection) IsEmpty() bool {
	switch v := c.value.(type) {
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return true
	}
}

// AddEntry inserts a new entry synthesized from the schema.
//
// For maps the entry lands under the literal key "new" and immediately
// enters rename mode with a focus request; an existing entry under that
// exact key is overwritten, matching the historical editor behaviour.
// For arrays the new element is appended.
func (c *Collection) AddEntry() error {
	switch c.kind {
	case schema.KindMap:
		tmpl := c.schema.ValueTemplate()
		item, err := schema.CreateDefault(tmpl)
		if err != nil {
			return fmt.Errorf("synthesizing map entry: %w", err)
		}
		m, ok := c.value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: map value is %T", ErrNotCollection, c.value)
		}
		m[schema.NewItemPlaceholder] = item
		c.editedKey = schema.NewItemPlaceholder
		if c.focus != nil {
			c.focus(schema.NewItemPlaceholder)
		}

	case schema.KindArray:
		item, err := schema.CreateDefault(c.schema.Items)
		if err != nil {
			return fmt.Errorf("synthesizing array element: %w", err)
		}
		arr, ok := c.value.([]any)
		if !ok && c.value != nil {
			return fmt.Errorf("%w: array value is %T", ErrNotCollection, c.value)
		}
		arr = append(arr, item)
		c.value = arr
		c.writeBack(arr)

	default:
		return ErrNotCollection
	}

	c.markChanged()
	return nil
}

// DeleteEntry removes the entry at the given key or index.
//
// If the removed entry was selected, the selection is cleared. For arrays
// the selection's recorded index is refreshed by identity lookup when a
// different selected entry shifted position.
func (c *Collection) DeleteEntry(key any) error {
	switch c.kind {
	case schema.KindMap:
		k, ok := key.(string)
		if !ok {
			return fmt.Errorf("%w: map key is %T", ErrNotCollection, key)
		}
		m, ok := c.value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: map value is %T", ErrNotCollection, c.value)
		}
		delete(m, k)
		if c.selectedKey == key {
			c.clearSelection()
		}

	case schema.KindArray:
		i, ok := key.(int)
		if !ok {
			return fmt.Errorf("%w: array index is %T", ErrNotCollection, key)
		}
		arr, ok := c.value.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return fmt.Errorf("%w: index %v out of range", ErrNotCollection, key)
		}
		arr = append(arr[:i], arr[i+1:]...)
		c.value = arr
		c.writeBack(arr)

		// Re-locate the selected item by identity; clear if it is gone.
		if c.selected != nil {
			idx := identityIndex(arr, c.selected)
			if idx < 0 {
				c.clearSelection()
			} else {
				c.selectedKey = idx
			}
		}

	default:
		return ErrNotCollection
	}

	c.markChanged()
	return nil
}

// SelectEntry records the selection. Clicking an already-selected entry
// enters rename/edit mode and requests focus; selecting a different entry
// exits any prior edit mode.
func (c *Collection) SelectEntry(key, item any) {
	if c.selectedKey != key {
		c.editedKey = nil
	}
	if c.selectedKey == key {
		c.editedKey = key
		if c.focus != nil {
			c.focus(key)
		}
	}
	c.selected = item
	c.selectedKey = key
}

// RenameMapKey moves a map entry from oldKey to newKey.
//
// An empty or already-taken new key aborts with a warning notification
// and no mutation. Renaming a key to itself only exits edit mode.
func (c *Collection) RenameMapKey(oldKey, newKey string) {
	if c.kind != schema.KindMap {
		return
	}
	m, ok := c.value.(map[string]any)
	if !ok {
		return
	}

	if newKey == "" {
		c.notifier.Notify(LevelWarning, "The key cannot be empty!")
		return
	}
	if oldKey == newKey {
		c.editedKey = nil
		return
	}
	if _, exists := m[newKey]; exists {
		c.notifier.Notify(LevelWarning, fmt.Sprintf("The key %s already exists!", newKey))
		return
	}

	m[newKey] = m[oldKey]
	delete(m, oldKey)

	if c.selectedKey == oldKey {
		c.selectedKey = newKey
	}
	c.editedKey = nil
	c.markChanged()
}

// clearSelection drops both the selected entry and any edit mode.
func (c *Collection) clearSelection() {
	c.selected = nil
	c.selectedKey = nil
	c.editedKey = nil
}

// writeBack stores a reallocated array back into the parent container.
func (c *Collection) writeBack(arr []any) {
	switch parent := c.parent.(type) {
	case map[string]any:
		if k, ok := c.key.(string); ok {
			parent[k] = arr
		}
	case []any:
		if i, ok := c.key.(int); ok && i >= 0 && i < len(parent) {
			parent[i] = arr
		}
	}
}

// markChanged notifies the change monitor, when one is wired.
func (c *Collection) markChanged() {
	if c.monitor != nil {
		c.monitor.MarkChanged()
	}
}

// identityIndex returns the index of item in arr by node identity, or -1.
func identityIndex(arr []any, item any) int {
	for i, v := range arr {
		if sameIdentity(v, item) {
			return i
		}
	}
	return -1
}
