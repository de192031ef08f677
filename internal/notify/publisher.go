package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/mqtt"
)

// Operation names carried in the event payload.
const (
	OpPersist = "persist"
	OpDelete  = "delete"
	OpImport  = "import"
)

// MessagePublisher is the subset of the MQTT client the publisher needs.
// Satisfied by *mqtt.Client.
type MessagePublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Event is the JSON payload published with every configuration
// announcement.
type Event struct {
	DeviceName string `json:"deviceName,omitempty"`
	Operation  string `json:"operation"`
	Source     string `json:"source"`
	Timestamp  string `json:"timestamp"`
}

// Publisher announces configuration changes on the MQTT bus.
type Publisher struct {
	client MessagePublisher
	topics mqtt.Topics
	source string
	qos    byte
}

// New creates a publisher stamping events with the given source
// (typically the service ID from configuration).
func New(client MessagePublisher, source string, qos byte) (*Publisher, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	return &Publisher{client: client, source: source, qos: qos}, nil
}

// ConfigChanged announces that a device's configuration was persisted.
func (p *Publisher) ConfigChanged(deviceName string) error {
	return p.publish(p.topics.ConfigChanged(deviceName), Event{
		DeviceName: deviceName,
		Operation:  OpPersist,
	})
}

// ConfigDeleted announces that a device's configuration was removed.
func (p *Publisher) ConfigDeleted(deviceName string) error {
	return p.publish(p.topics.ConfigDeleted(deviceName), Event{
		DeviceName: deviceName,
		Operation:  OpDelete,
	})
}

// ConfigImported announces a full configuration import. Subscribers
// should reload everything they hold.
func (p *Publisher) ConfigImported() error {
	return p.publish(p.topics.ConfigImported(), Event{
		Operation: OpImport,
	})
}

// Reconfigure asks a managed device to reload its configuration.
// Satisfies the store's Reconfigurer collaborator.
func (p *Publisher) Reconfigure(ctx context.Context, deviceName string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notify: reconfigure %s: %w", deviceName, err)
	}
	return p.publish(p.topics.Reconfigure(deviceName), Event{
		DeviceName: deviceName,
		Operation:  "reconfigure",
	})
}

func (p *Publisher) publish(topic string, ev Event) error {
	ev.Source = p.source
	ev.Timestamp = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}
	if err := p.client.Publish(topic, payload, p.qos, false); err != nil {
		return fmt.Errorf("notify: publish %s: %w", topic, err)
	}
	return nil
}
