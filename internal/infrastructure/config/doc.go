// Package config loads and validates the admin service configuration.
//
// Settings come from a YAML file with CONFADMIN_* environment
// variables layered on top for deployment-specific values. Secrets
// such as the broker password and the InfluxDB token should come from
// the environment rather than the file. Configuration is read once at
// startup:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
