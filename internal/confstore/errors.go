package confstore

import "errors"

// Domain errors for the confstore package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, confstore.ErrNodeNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNodeNotFound is returned when no configuration node exists at a path.
	ErrNodeNotFound = errors.New("confstore: node not found")

	// ErrDeviceNotFound is returned when a device name is not configured.
	ErrDeviceNotFound = errors.New("confstore: device not found")

	// ErrDeviceExists is returned when creating a device under a name that
	// is already taken.
	ErrDeviceExists = errors.New("confstore: device already exists")

	// ErrInvalidPath is returned when a configuration path is malformed.
	ErrInvalidPath = errors.New("confstore: invalid path")

	// ErrInvalidDocument is returned when a configuration document cannot
	// be serialised or has the wrong shape.
	ErrInvalidDocument = errors.New("confstore: invalid document")

	// ErrUUIDNotFound is returned when no node carries the given UUID.
	ErrUUIDNotFound = errors.New("confstore: uuid not found")
)
