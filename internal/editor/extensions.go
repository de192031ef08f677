package editor

import (
	"fmt"
	"sort"

	"github.com/dcmnet/dicom-conf-core/internal/schema"
)

// ExtensionProperty maps a top-level object class to the document
// property holding its extensions bag. Only these classes accept
// extensions.
var ExtensionProperty = map[string]string{
	"Device":            "deviceExtensions",
	"ApplicationEntity": "aeExtensions",
	"HL7Application":    "hl7AppExtensions",
	"Connection":        "connectionExtensions",
}

// ClassHasExtensions reports whether nodes of the schema's class can
// carry extensions.
func ClassHasExtensions(n *schema.Node) bool {
	if n == nil {
		return false
	}
	_, ok := ExtensionProperty[n.Class]
	return ok
}

// ApplicableExtensions lists the extension names the schema set declares
// for a class, sorted for stable presentation.
func ApplicableExtensions(set *schema.Set, class string) []string {
	if set == nil {
		return nil
	}
	exts := set.Extensions[class]
	names := make([]string, 0, len(exts))
	for name := range exts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachExtension attaches a named extension to a node of the given
// class, creating the extensions bag on first use. The extension value is
// synthesized from its schema; attaching an already-present extension
// replaces it.
func AttachExtension(node map[string]any, class, extName string, set *schema.Set, monitor *Monitor) error {
	prop, ok := ExtensionProperty[class]
	if !ok {
		return fmt.Errorf("%w: class %q", ErrNoExtensions, class)
	}
	if set == nil {
		return ErrNotLoaded
	}
	extSchema := set.Extensions[class][extName]
	if extSchema == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnknownExtension, class, extName)
	}

	value, err := schema.CreateDefault(extSchema)
	if err != nil {
		return fmt.Errorf("synthesizing extension %s: %w", extName, err)
	}

	bag, ok := node[prop].(map[string]any)
	if !ok {
		bag = map[string]any{}
		node[prop] = bag
	}
	bag[extName] = value

	if monitor != nil {
		monitor.MarkChanged()
	}
	return nil
}

// DetachExtension removes a named extension from a node. The key is
// deleted entirely: an absent extension is not the same as an attached
// empty one.
func DetachExtension(node map[string]any, class, extName string, monitor *Monitor) error {
	prop, ok := ExtensionProperty[class]
	if !ok {
		return fmt.Errorf("%w: class %q", ErrNoExtensions, class)
	}
	if bag, ok := node[prop].(map[string]any); ok {
		delete(bag, extName)
	}
	if monitor != nil {
		monitor.MarkChanged()
	}
	return nil
}
