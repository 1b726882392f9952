// Package telemetry broadcasts scheduler state over MQTT so dashboards and
// trackside displays can follow the ring without polling the HTTP API.
package telemetry

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config defines the connection parameters for the MQTT publisher.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the base topic; event kind is appended as a suffix.
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "ringrail"
	}
	if c.Topic == "" {
		c.Topic = "ringrail/state"
	}
}

// Client is the minimal MQTT surface the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Close()
}

// PahoClient implements Client using Eclipse Paho.
type PahoClient struct {
	cli paho.Client
}

// NewPahoClient connects to the configured MQTT broker.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := paho.NewClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &PahoClient{cli: cli}, nil
}

// Publish sends the payload and waits for the broker handshake.
func (c *PahoClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.cli.Publish(topic, qos, retained, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (c *PahoClient) Close() { c.cli.Disconnect(250) }

// MockClient records published messages for tests.
type MockClient struct {
	mu       sync.Mutex
	Messages map[string][][]byte
	Fail     bool
}

// NewMockClient creates a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{Messages: make(map[string][][]byte)}
}

func (m *MockClient) Publish(topic string, _ byte, _ bool, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Messages[topic] = append(m.Messages[topic], payload)
	return nil
}

func (m *MockClient) Close() {}

// Published returns the payloads recorded for a topic.
func (m *MockClient) Published(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.Messages[topic]...)
}
