package editor

import "errors"

// Domain errors for the editor package.
var (
	// ErrNoSchema is returned when a node is selected or rendered without
	// a schema. The editor refuses to proceed rather than guess.
	ErrNoSchema = errors.New("editor: schema not defined")

	// ErrNotCollection is returned when a collection operation is applied
	// to a node that is neither an array nor a map.
	ErrNotCollection = errors.New("editor: node is not a collection")

	// ErrDeviceNotFound is returned when a device name is not present in
	// the loaded device list.
	ErrDeviceNotFound = errors.New("editor: device not found")

	// ErrDeviceExists is returned when creating a device whose name is
	// already taken.
	ErrDeviceExists = errors.New("editor: device already exists")

	// ErrUnknownExtension is returned when attaching an extension that the
	// schema set does not declare for the target class.
	ErrUnknownExtension = errors.New("editor: unknown extension")

	// ErrNoExtensions is returned when a class has no extension property.
	ErrNoExtensions = errors.New("editor: class has no extensions")

	// ErrNotLoaded is returned when an operation needs schemas or the
	// device list before Load has succeeded.
	ErrNotLoaded = errors.New("editor: configuration not loaded")
)
