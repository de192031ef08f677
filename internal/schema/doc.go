// Package schema provides the configuration schema model for the DICOM
// configuration editor.
//
// A schema describes the shape of one configuration value: its type(s),
// nested properties, defaults, enum choices, and presentation hints
// (grouping, primary-property tags, descriptions). Schemas are delivered
// by the configuration service as JSON and are read-only after parsing.
//
// # Key Types
//
//   - Node: description of one configuration value's shape
//   - Kind: closed classification of a Node (boolean, string, integer,
//     enum, array, map, object)
//   - Set: the full schema bundle for a configuration root, including the
//     per-class extension schemas
//
// # Usage
//
//	set, err := schema.ParseSet(raw)
//	if err != nil {
//	    return err
//	}
//
//	node := set.Device
//	switch schema.Classify(node) {
//	case schema.KindObject:
//	    // iterate node.PropertyNames() / node.Properties
//	case schema.KindArray:
//	    // recurse into node.Items
//	}
//
//	// Build an editable value for a brand-new tree node
//	value, err := schema.CreateDefault(node)
//
// # Thread Safety
//
// Nodes are immutable after parsing and safe to share across goroutines.
// All functions in this package are pure: they never mutate the schema or
// the paired configuration value.
package schema
