package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/venuekit/gate-discovery-go/internal/config"
)

// MQTTSource subscribes to a broker topic carrying JSON scan events.
// Scanning devices publish to venues/<venue>/scans; the subscription uses a
// single-level wildcard so one engine instance serves every venue.
type MQTTSource struct {
	client    mqtt.Client
	topic     string
	submitter Submitter
}

// NewMQTTSource builds an MQTT source from the process configuration
func NewMQTTSource(cfg *config.Config, submitter Submitter) *MQTTSource {
	s := &MQTTSource{
		topic:     cfg.MQTTTopic,
		submitter: submitter,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)

	// Connection settings
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false) // Preserve subscriptions on reconnect

	// Per-event ordering rides on the broker's per-topic ordering; the
	// engine serializes per event ID beyond that.
	opts.SetOrderMatters(true)

	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("[MQTT] connection lost: %v", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Start connects and blocks until the context is cancelled
func (s *MQTTSource) Start(ctx context.Context) error {
	token := s.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}

	<-ctx.Done()
	return ctx.Err()
}

// onConnect (re)establishes the subscription; paho calls it on every
// reconnect as well as the first connect
func (s *MQTTSource) onConnect(client mqtt.Client) {
	log.Printf("[MQTT] connected, subscribing to %s", s.topic)

	token := client.Subscribe(s.topic, 1, s.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("[MQTT] subscribe failed: %v", err)
	}
}

// onMessage decodes and submits one scan payload. Malformed payloads are
// logged and skipped; they must never stall the stream.
func (s *MQTTSource) onMessage(_ mqtt.Client, msg mqtt.Message) {
	ev, err := decodeScanEvent(msg.Payload())
	if err != nil {
		log.Printf("[MQTT] dropping message on %s: %v", msg.Topic(), err)
		return
	}
	if err := s.submitter.Submit(ev); err != nil {
		log.Printf("[MQTT] submit failed for event %s: %v", ev.EventID, err)
	}
}

// Close disconnects from the broker
func (s *MQTTSource) Close() error {
	s.client.Disconnect(250)
	return nil
}
