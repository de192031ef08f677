package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors config.yaml. Section structs are kept flat so callers
// can take just the piece they need (mqtt.Connect takes MQTTConfig and
// so on) without dragging the whole tree along.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Schema    SchemaConfig    `yaml:"schema"`
	Editor    EditorConfig    `yaml:"editor"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig identifies this admin service instance.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig holds the SQLite settings. BusyTimeout is in seconds.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// SchemaConfig locates the configuration schema bundle.
type SchemaConfig struct {
	// BundlePath is the JSON file holding the device schema and the
	// per-class extension schemas.
	BundlePath string `yaml:"bundle_path"`
}

// EditorConfig holds editing behaviour settings.
type EditorConfig struct {
	// DebounceMillis is the change-notification debounce window.
	// Zero uses the built-in default.
	DebounceMillis int `yaml:"debounce_millis"`
}

// MQTTConfig holds broker connection settings for change notifications.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig holds the retry backoff bounds in seconds. The
// client retries forever; these only shape the interval between attempts.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig holds the HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig values are in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig holds the live-update endpoint settings. Intervals
// and timeouts are in seconds.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig holds the connection settings for the configuration
// change audit trail.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig holds logging settings. Format is "json" or "text",
// Output is "stdout" or "stderr".
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the YAML file at path, layers it over the built-in
// defaults, applies CONFADMIN_* environment overrides and validates
// the result. Precedence is environment over file over defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig is a runnable local-development setup: SQLite under
// ./data, broker on localhost, API on 8080, MQTT and InfluxDB off.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "confadmin-001",
			Name: "Configuration Admin",
		},
		Database: DatabaseConfig{
			Path:        "./data/confadmin.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Schema: SchemaConfig{
			BundlePath: "./schemas/bundle.json",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "confadmin",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// envOverrides maps CONFADMIN_* variables to the fields they set.
// Only deployment-specific values and secrets are exposed here; the
// rest belongs in the file.
var envOverrides = []struct {
	name string
	set  func(*Config, string)
}{
	{"CONFADMIN_DATABASE_PATH", func(c *Config, v string) { c.Database.Path = v }},
	{"CONFADMIN_SCHEMA_BUNDLE", func(c *Config, v string) { c.Schema.BundlePath = v }},
	{"CONFADMIN_MQTT_HOST", func(c *Config, v string) { c.MQTT.Broker.Host = v }},
	{"CONFADMIN_MQTT_USERNAME", func(c *Config, v string) { c.MQTT.Auth.Username = v }},
	{"CONFADMIN_MQTT_PASSWORD", func(c *Config, v string) { c.MQTT.Auth.Password = v }},
	{"CONFADMIN_API_HOST", func(c *Config, v string) { c.API.Host = v }},
	{"CONFADMIN_API_PORT", func(c *Config, v string) {
		if port, err := strconv.Atoi(v); err == nil {
			c.API.Port = port
		}
	}},
	{"CONFADMIN_INFLUXDB_TOKEN", func(c *Config, v string) { c.InfluxDB.Token = v }},
}

func applyEnvOverrides(cfg *Config) {
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.set(cfg, v)
		}
	}
}

// Validate collects every problem it finds rather than stopping at the
// first, so a misconfigured deployment can be fixed in one pass.
func (c *Config) Validate() error {
	var problems []string
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Service.ID == "" {
		bad("service.id is required")
	}
	if c.Database.Path == "" {
		bad("database.path is required")
	}
	if c.Schema.BundlePath == "" {
		bad("schema.bundle_path is required")
	}
	if c.Editor.DebounceMillis < 0 {
		bad("editor.debounce_millis must not be negative")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		bad("api.port must be 1-65535, got %d", c.API.Port)
	}
	if c.API.TLS.Enabled && (c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "") {
		bad("api.tls requires cert_file and key_file when enabled")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			bad("mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			bad("mqtt.qos must be 0-2, got %d", c.MQTT.QoS)
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			bad("influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			bad("influxdb.token is required when influxdb is enabled")
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		bad("logging.level must be debug/info/warn/error, got %q", c.Logging.Level)
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
