package confstore

import "context"

// DeviceEntry is one row of the device listing.
type DeviceEntry struct {
	DeviceName string `json:"deviceName"`
	DeviceUUID string `json:"deviceUuid"`
}

// Store defines the interface for configuration tree persistence.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Store interface {
	// GetNode retrieves the configuration document at a path.
	// Returns ErrNodeNotFound if no node exists there.
	GetNode(ctx context.Context, path string) (map[string]any, error)

	// PersistNode stores a configuration document at a path, replacing
	// any existing node. Bookkeeping properties are stamped before the
	// write; the returned document is the stamped, persisted form.
	PersistNode(ctx context.Context, path string, doc map[string]any) (map[string]any, error)

	// RemoveNode deletes the node at a path and all of its descendants.
	// Returns ErrNodeNotFound if no node exists there.
	RemoveNode(ctx context.Context, path string) error

	// ListDevices returns the name and UUID of every configured device,
	// ordered by name.
	ListDevices(ctx context.Context) ([]DeviceEntry, error)

	// PathByUUID resolves a node UUID to its configuration path.
	// Returns ErrUUIDNotFound when no node carries the UUID.
	PathByUUID(ctx context.Context, id string) (string, error)

	// ExportFull assembles the entire configuration tree into one nested
	// document keyed by path segments.
	ExportFull(ctx context.Context) (map[string]any, error)

	// ImportFull replaces the entire configuration tree with the given
	// export-format document. All existing nodes are removed first.
	ImportFull(ctx context.Context, tree map[string]any) error
}
