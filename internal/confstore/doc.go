// Package confstore persists the hierarchical device configuration tree.
//
// Configuration nodes are JSON documents addressed by slash-separated
// paths under the configuration root. Device configurations live under
// the devices root; a handful of well-known auxiliary nodes (transfer
// capability groups, metadata) live beside it.
//
// # Key Types
//
//   - Store: persistence interface for configuration nodes
//   - SQLiteStore: SQLite-backed implementation
//   - DeviceEntry: one device's name and UUID from the device listing
//   - FileSchemaSource: serves the schema bundle from disk
//
// Every persisted object is stamped with a "#uuid" bookkeeping property
// on first write and a "#hash" content fingerprint on every write. The
// hash supports optimistic concurrency checks; the UUID supports
// path-independent node references.
//
// # Thread Safety
//
// SQLiteStore is safe for concurrent use; it delegates serialisation to
// the database connection pool.
package confstore
