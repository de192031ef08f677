// Package api implements the HTTP REST API and WebSocket server for the
// configuration admin service.
//
// This package provides:
//   - REST endpoints for the hierarchical configuration store (device
//     documents, auxiliary nodes, schema bundle, full export/import)
//   - WebSocket hub for real-time configuration change broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between the browser admin UI and the configuration
// store. Every mutation is persisted through the store, announced on the
// MQTT bus for managed DICOM services, recorded in the audit trail, and
// broadcast to connected WebSocket clients.
//
// # Graceful Degradation
//
// The server operates without MQTT and without InfluxDB. Announcements
// and audit points are skipped; reads, writes, and WebSocket broadcasts
// keep working. This enables testing and partial operation.
package api
