// Package logging wraps log/slog for the configuration admin service.
//
// Every component logs through the same *Logger so output shares one
// shape: JSON (or text in development) with service and version
// attributes on every record. Child loggers from With add component
// context without reconfiguring handlers.
//
// Configured through the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Do not log broker credentials or InfluxDB tokens.
package logging
