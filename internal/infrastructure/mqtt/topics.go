package mqtt

import "fmt"

// Topic prefixes for the configuration admin MQTT namespace.
//
// All topics use the flat scheme: dicomconf/{category}/{subject}
const (
	// TopicPrefix is the base for all configuration admin topics.
	TopicPrefix = "dicomconf"

	// TopicPrefixConfig is the base for configuration change topics.
	TopicPrefixConfig = "dicomconf/config"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "dicomconf/system"
)

// Topics provides builders for configuration admin MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.ConfigChanged("scanner1")
//	// Returns: "dicomconf/config/changed/scanner1"
type Topics struct{}

// =============================================================================
// Configuration Topics
// =============================================================================

// ConfigChanged returns the topic announcing that a device's configuration
// was persisted. Managed services subscribe to pick up changes.
//
// Example: dicomconf/config/changed/scanner1
func (Topics) ConfigChanged(deviceName string) string {
	return fmt.Sprintf("%s/changed/%s", TopicPrefixConfig, deviceName)
}

// ConfigDeleted returns the topic announcing that a device's configuration
// was removed.
//
// Example: dicomconf/config/deleted/scanner1
func (Topics) ConfigDeleted(deviceName string) string {
	return fmt.Sprintf("%s/deleted/%s", TopicPrefixConfig, deviceName)
}

// ConfigImported returns the topic announcing a full configuration import.
// Published once per import; subscribers should reload everything.
//
// Example: dicomconf/config/imported
func (Topics) ConfigImported() string {
	return fmt.Sprintf("%s/imported", TopicPrefixConfig)
}

// Reconfigure returns the topic requesting that a managed device reload
// its configuration.
//
// Example: dicomconf/reconfigure/scanner1
func (Topics) Reconfigure(deviceName string) string {
	return fmt.Sprintf("%s/reconfigure/%s", TopicPrefix, deviceName)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic.
//
// Example: dicomconf/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllConfigChanges returns a pattern matching every configuration change
// announcement.
//
// Pattern: dicomconf/config/changed/+
func (Topics) AllConfigChanges() string {
	return fmt.Sprintf("%s/changed/+", TopicPrefixConfig)
}

// AllReconfigureRequests returns a pattern matching every reconfigure
// request.
//
// Pattern: dicomconf/reconfigure/+
func (Topics) AllReconfigureRequests() string {
	return fmt.Sprintf("%s/reconfigure/+", TopicPrefix)
}

// AllTopics returns a pattern matching all configuration admin topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: dicomconf/#
func (Topics) AllTopics() string {
	return "dicomconf/#"
}
