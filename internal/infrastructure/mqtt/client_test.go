package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/config"
)

// These tests need a Mosquitto broker on 127.0.0.1:1883, matching the
// development docker-compose setup.

func brokerConfig(clientID string) config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: clientID,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// connect dials the local broker and closes the client on cleanup.
func connect(t *testing.T, clientID string) *Client {
	t.Helper()
	client, err := Connect(brokerConfig(clientID))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck
	return client
}

func TestConnectAndClose(t *testing.T) {
	client, err := Connect(brokerConfig("confadmin-test"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !client.IsConnected() {
		t.Error("IsConnected = false right after Connect")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected = true after Close")
	}
}

func TestConnectRefused(t *testing.T) {
	cfg := brokerConfig("confadmin-test-refused")
	cfg.Broker.Port = 19999

	if _, err := Connect(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect to dead port: %v, want ErrConnectionFailed", err)
	}
}

func TestZeroClientIsSafe(t *testing.T) {
	var client Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on zero client: %v", err)
	}
	if client.IsConnected() {
		t.Error("zero client reports connected")
	}
}

func TestHealthCheck(t *testing.T) {
	client := connect(t, "confadmin-test-health")

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck while connected: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.HealthCheck(cancelled); err == nil {
		t.Error("HealthCheck ignored a cancelled context")
	}

	client.Close()
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck after Close: %v, want ErrNotConnected", err)
	}
}

func TestPublishVariants(t *testing.T) {
	client := connect(t, "confadmin-test-pub")

	if err := client.Publish(Topics{}.Reconfigure("test-device"),
		[]byte(`{}`), 1, false); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := client.PublishString(Topics{}.Reconfigure("test-device"),
		`{}`, 1, false); err != nil {
		t.Errorf("PublishString: %v", err)
	}
	if err := client.PublishRetained(Topics{}.ConfigChanged("test-device"),
		[]byte(`{"deviceName":"test-device"}`)); err != nil {
		t.Errorf("PublishRetained: %v", err)
	}
	if err := client.Publish("dicomconf/test/nil", nil, 1, false); err != nil {
		t.Errorf("Publish nil payload: %v", err)
	}
}

func TestPublishValidation(t *testing.T) {
	client := connect(t, "confadmin-test-pubval")

	if err := client.Publish("", []byte("x"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v, want ErrInvalidTopic", err)
	}
	if err := client.Publish("dicomconf/test", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: %v, want ErrInvalidQoS", err)
	}

	client.Close()
	if err := client.Publish("dicomconf/test", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("publish after close: %v, want ErrNotConnected", err)
	}
}

func TestSubscribeTracking(t *testing.T) {
	client := connect(t, "confadmin-test-sub")

	topics := []string{
		"dicomconf/test/a",
		"dicomconf/test/b",
		"dicomconf/test/c",
	}
	noop := func(string, []byte) error { return nil }

	for _, topic := range topics {
		if err := client.Subscribe(topic, 1, noop); err != nil {
			t.Fatalf("Subscribe(%s): %v", topic, err)
		}
	}
	if got := client.SubscriptionCount(); got != 3 {
		t.Errorf("SubscriptionCount = %d, want 3", got)
	}
	if !client.HasSubscription(topics[0]) {
		t.Errorf("HasSubscription(%s) = false", topics[0])
	}
	if client.HasSubscription("dicomconf/test/other") {
		t.Error("HasSubscription reports a topic never subscribed")
	}

	if err := client.Unsubscribe(topics[0]); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if client.HasSubscription(topics[0]) {
		t.Error("subscription survived Unsubscribe")
	}
	if got := client.SubscriptionCount(); got != 2 {
		t.Errorf("SubscriptionCount after unsubscribe = %d, want 2", got)
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := connect(t, "confadmin-test-subval")
	noop := func(string, []byte) error { return nil }

	if err := client.Subscribe("", 1, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v, want ErrInvalidTopic", err)
	}
	if err := client.Subscribe("dicomconf/test", 3, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: %v, want ErrInvalidQoS", err)
	}
	if err := client.Subscribe("dicomconf/test", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: %v, want ErrSubscribeFailed", err)
	}
	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("unsubscribe empty topic: %v, want ErrInvalidTopic", err)
	}

	client.Close()
	if err := client.Subscribe("dicomconf/test", 1, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("subscribe after close: %v, want ErrNotConnected", err)
	}
	if err := client.Unsubscribe("dicomconf/test"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("unsubscribe after close: %v, want ErrNotConnected", err)
	}
}

func TestRoundtrip(t *testing.T) {
	pub := connect(t, "confadmin-test-rt-pub")
	sub := connect(t, "confadmin-test-rt-sub")

	topic := "dicomconf/test/roundtrip"
	want := `{"deviceName":"scanner1"}`
	received := make(chan string, 1)

	if err := sub.Subscribe(topic, 1, func(_ string, payload []byte) error {
		received <- string(payload)
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := pub.PublishString(topic, want, 1, false); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-received:
		if got != want {
			t.Errorf("payload = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Error("message never arrived")
	}
}

func TestWildcardSubscription(t *testing.T) {
	pub := connect(t, "confadmin-test-wc-pub")
	sub := connect(t, "confadmin-test-wc-sub")

	var mu sync.Mutex
	seen := make(map[string]bool)
	if err := sub.Subscribe("dicomconf/test/+/changed", 1,
		func(topic string, _ []byte) error {
			mu.Lock()
			seen[topic] = true
			mu.Unlock()
			return nil
		}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	topics := []string{
		"dicomconf/test/scanner1/changed",
		"dicomconf/test/scanner2/changed",
		"dicomconf/test/archive1/changed",
	}
	for _, topic := range topics {
		if err := pub.PublishString(topic, `{}`, 1, false); err != nil {
			t.Fatalf("Publish(%s): %v", topic, err)
		}
	}
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, topic := range topics {
		if !seen[topic] {
			t.Errorf("no message on %s", topic)
		}
	}
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	client := connect(t, "confadmin-test-handler-err")

	topic := "dicomconf/test/handler-error"
	calls := make(chan struct{}, 2)
	if err := client.Subscribe(topic, 1, func(string, []byte) error {
		calls <- struct{}{}
		return errors.New("handler failure")
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := client.PublishString(topic, "x", 1, false); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler call %d never happened", i+1)
		}
	}
}

// SetOnConnect after Connect may or may not observe paho's async
// connect callback; the point here is that there is no data race.
func TestConnectionCallbacksAreRaceFree(t *testing.T) {
	client := connect(t, "confadmin-test-callbacks")

	connected := make(chan struct{}, 1)
	client.SetOnConnect(func() {
		select {
		case connected <- struct{}{}:
		default:
		}
	})
	client.SetOnDisconnect(func(error) {})

	select {
	case <-connected:
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ConfigChanged", Topics{}.ConfigChanged("scanner1"), "dicomconf/config/changed/scanner1"},
		{"ConfigDeleted", Topics{}.ConfigDeleted("scanner1"), "dicomconf/config/deleted/scanner1"},
		{"ConfigImported", Topics{}.ConfigImported(), "dicomconf/config/imported"},
		{"Reconfigure", Topics{}.Reconfigure("scanner1"), "dicomconf/reconfigure/scanner1"},
		{"SystemStatus", Topics{}.SystemStatus(), "dicomconf/system/status"},
		{"AllConfigChanges", Topics{}.AllConfigChanges(), "dicomconf/config/changed/+"},
		{"AllReconfigureRequests", Topics{}.AllReconfigureRequests(), "dicomconf/reconfigure/+"},
		{"AllTopics", Topics{}.AllTopics(), "dicomconf/#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}
