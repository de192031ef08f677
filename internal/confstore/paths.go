package confstore

import (
	"fmt"
	"strings"
)

// Well-known configuration paths. Device configurations are children of
// DevicesRoot; the auxiliary nodes hold shared configuration that is not
// tied to a single device.
const (
	// ConfigurationRoot is the top of the configuration tree.
	ConfigurationRoot = "/dicomConfigurationRoot"

	// DevicesRoot holds one child node per configured device.
	DevicesRoot = ConfigurationRoot + "/dicomDevicesRoot"

	// TransferCapabilitiesPath holds the shared transfer capability
	// groups referenced by application entities.
	TransferCapabilitiesPath = ConfigurationRoot + "/globalConfiguration/transferCapabilities"

	// MetadataPath holds deployment-wide metadata (version markers and
	// similar bookkeeping).
	MetadataPath = ConfigurationRoot + "/globalConfiguration/metadata"
)

// DevicePath returns the configuration path for a device name.
func DevicePath(name string) string {
	return DevicesRoot + "/" + name
}

// DeviceNameFromPath extracts the device name from a direct child path of
// DevicesRoot. Returns empty for paths outside the devices root.
func DeviceNameFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, DevicesRoot+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// ValidatePath checks that a configuration path is absolute, slash
// separated, and free of empty segments.
func ValidatePath(path string) error {
	if path == "" || path[0] != '/' {
		return fmt.Errorf("%w: %q must be absolute", ErrInvalidPath, path)
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %q has a trailing slash", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(path[1:], "/") {
		if seg == "" {
			return fmt.Errorf("%w: %q contains an empty segment", ErrInvalidPath, path)
		}
	}
	return nil
}

// ParentPath returns the parent of a configuration path, or empty for
// top-level paths.
func ParentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return ""
	}
	return path[:i]
}

// splitPath returns the path's segments without the leading slash.
func splitPath(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
