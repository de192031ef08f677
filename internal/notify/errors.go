package notify

import "errors"

// Sentinel errors for the notify package.
var (
	// ErrNoClient indicates the publisher was created without an MQTT client.
	ErrNoClient = errors.New("notify: mqtt client is required")
)
