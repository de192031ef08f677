package editor

import "context"

// Level grades a user-visible notification.
type Level string

// Notification levels, in increasing severity.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Notifier surfaces user-visible outcomes. The editor core only produces
// the message; presentation belongs to the embedding frontend.
type Notifier interface {
	Notify(level Level, text string, details ...any)
}

// Confirmer asks the operator to confirm a destructive operation.
// Returns true when the operation should proceed.
type Confirmer interface {
	Confirm(prompt string) bool
}

// FocusFunc is invoked when an editing operation wants keyboard focus on
// a collection entry, identified by its key or index.
type FocusFunc func(key any)

// DeviceRef identifies one configured device in the store.
type DeviceRef struct {
	DeviceName string `json:"deviceName"`
	DeviceUUID string `json:"deviceUuid"`
}

// Persistence is the editor's window onto the configuration store. All
// calls are synchronous from the editor's point of view; the embedding
// frontend owns latency handling.
type Persistence interface {
	// ListDevices returns the configured device names and UUIDs.
	ListDevices(ctx context.Context) ([]DeviceRef, error)

	// LoadDeviceConfig fetches the full configuration document of one
	// device.
	LoadDeviceConfig(ctx context.Context, deviceName string) (map[string]any, error)

	// SaveDeviceConfig persists a configuration document. The store may
	// restamp opaque bookkeeping fields; the returned document is the
	// authoritative persisted form.
	SaveDeviceConfig(ctx context.Context, deviceName string, doc map[string]any) (map[string]any, error)

	// DeleteDevice removes a device and its configuration.
	DeleteDevice(ctx context.Context, deviceName string) error

	// Reconfigure asks the managed service to reload the device's
	// configuration out-of-band.
	Reconfigure(ctx context.Context, deviceName string) error
}

// SchemaSource delivers the schema bundle for the configuration root.
type SchemaSource interface {
	LoadSchemas(ctx context.Context) ([]byte, error)
}

// noopNotifier discards notifications.
type noopNotifier struct{}

func (noopNotifier) Notify(Level, string, ...any) {}

// alwaysConfirm accepts every prompt. Used when no confirmer is wired;
// embedding frontends should install a real one before exposing
// destructive operations.
type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(string) bool { return true }
