// Package notify publishes configuration change events to the MQTT bus.
//
// Managed DICOM services subscribe to these announcements to learn when
// their configuration has been edited, deleted, or replaced wholesale by
// an import. The admin service also uses the bus to ask a device to
// reload its configuration out-of-band.
//
// Key Types:
//   - Publisher: wraps an MQTT client and the topic scheme
//   - Event: the JSON payload carried by every announcement
//
// Thread Safety: Publisher is safe for concurrent use; it holds no
// mutable state beyond the underlying MQTT client.
package notify
