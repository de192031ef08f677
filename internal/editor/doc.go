// Package editor implements the schema-driven configuration editing core.
//
// The editor operates on plain JSON-like documents (map[string]any,
// []any, primitives) paired with schema nodes from the schema package.
// There is no wrapper node type: the document's own structure is both the
// editing buffer and the persistence payload.
//
// # Components
//
//   - Document helpers: DeepCopy and DeepEqual for snapshot handling
//   - View: recursive render model for one schema+value pair
//   - Collection: add/delete/select/rename editing over arrays and maps
//   - Monitor: debounced change notification (coalesces mutation bursts)
//   - Extensions: attach/detach of schema-typed extension sub-objects
//   - Manager: device records, dirtiness tracking, and persistence calls
//
// # Collaborators
//
// The editor core never performs I/O itself. Persistence, user
// notification, and destructive-action confirmation are injected through
// the Persistence, Notifier, and Confirmer interfaces.
//
// # Concurrency
//
// The editing model is single-threaded by design: documents are mutated
// from one goroutine only (the UI dispatch loop of the embedding
// frontend). The only internal asynchrony is the Monitor's debounce
// timer, which is safe to use concurrently with listener registration.
package editor
