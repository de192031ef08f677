// Package mqtt connects the admin service to the message broker.
//
// Configuration changes are announced on the bus so the managed DICOM
// and XDS services can reload without polling the database:
//
//	admin service -> broker -> managed services
//
// The client keeps a last-will message on the system status topic so
// peers can tell a crash from a graceful shutdown, replays
// subscriptions after reconnects, and validates QoS and payload size
// before handing messages to paho.
//
// Topic names are built through the Topics type rather than assembled
// ad hoc; see topics.go for the full scheme under the "dicomconf"
// prefix.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Subscribe(mqtt.Topics{}.AllConfigChanges(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("%s: %s", topic, payload)
//	        return nil
//	    })
//
// TLS should be enabled for anything beyond local development; the
// client refuses versions below 1.2.
package mqtt
