package influxdb

import "errors"

// Sentinel errors, matched with errors.Is. Most write failures arrive
// asynchronously through the SetOnError callback instead.
var (
	ErrNotConnected     = errors.New("influxdb: not connected")
	ErrConnectionFailed = errors.New("influxdb: connection failed")
	ErrDisabled         = errors.New("influxdb: disabled in configuration")
)
