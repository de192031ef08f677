package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteConfigChange records one audit point in the config_change
// measurement. Non-blocking; the point joins the write batch. The
// device tag is left off for changes that touch no single device, e.g.
// transfer capabilities or whole-tree imports.
//
//	client.WriteConfigChange("persist", "scanner1",
//	    "/dicomConfigurationRoot/dicomDevicesRoot/scanner1")
func (c *Client) WriteConfigChange(operation string, deviceName string, path string) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{"operation": operation}
	if deviceName != "" {
		tags["device"] = deviceName
	}

	c.writeAPI.WritePoint(write.NewPoint("config_change", tags,
		map[string]interface{}{"path": path}, time.Now()))
}

// WritePoint queues an arbitrary point stamped with the current time.
// Keep tags low-cardinality; fields carry the data.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime queues an arbitrary point with an explicit
// timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
