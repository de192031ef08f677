// Package influxdb stores the configuration audit trail as time series.
//
// Every persist, delete, and import ends up as a point in the
// config_change measurement, tagged by operation and device, so "what
// changed on scanner1 last week" is a single Flux query. Writes batch
// through the non-blocking API; a mutation never waits on InfluxDB, and
// batch failures come back through SetOnError.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteConfigChange("persist", "scanner1",
//	    "/dicomConfigurationRoot/dicomDevicesRoot/scanner1")
//
// Batch size and flush interval come from the influxdb section of
// config.yaml. All methods are safe for concurrent use.
package influxdb
