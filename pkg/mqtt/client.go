package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Options holds the broker connection parameters
type Options struct {
	Host      string
	Port      int
	Username  string
	Password  string
	ClientID  string
	KeepAlive time.Duration
}

// Address returns the full MQTT broker address
func (o Options) Address() string {
	return fmt.Sprintf("tcp://%s:%d", o.Host, o.Port)
}

// Client implements Connector using the Paho MQTT client
type Client struct {
	opts   Options
	logger *slog.Logger
}

// NewClient creates a new MQTT connector with the given options
func NewClient(opts Options, logger *slog.Logger) *Client {
	return &Client{opts: opts, logger: logger}
}

// Connect establishes a connection to the MQTT broker
func (c *Client) Connect(ctx context.Context) (Connection, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(c.opts.Address())

	// Set client ID (auto-generate if not provided)
	if c.opts.ClientID != "" {
		opts.SetClientID(c.opts.ClientID)
	} else {
		opts.SetClientID(fmt.Sprintf("machineid-publisher-%s", uuid.NewString()[:8]))
	}

	// Set credentials if provided
	if c.opts.Username != "" {
		opts.SetUsername(c.opts.Username)
	}
	if c.opts.Password != "" {
		opts.SetPassword(c.opts.Password)
	}

	// Connection settings: a publishing run is one-shot, so no auto-reconnect
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	if c.opts.KeepAlive > 0 {
		opts.SetKeepAlive(c.opts.KeepAlive)
	}

	opts.OnConnectionLost = func(pc pahomqtt.Client, err error) {
		c.logger.Warn("MQTT connection lost", "error", err)
	}

	c.logger.Info("Connecting to MQTT broker", "broker", c.opts.Address())

	client := pahomqtt.NewClient(opts)
	token := client.Connect()

	// Wait for connection with context timeout
	select {
	case <-token.Done():
		if token.Error() != nil {
			return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("connection timeout: %w", ctx.Err())
	}

	c.logger.Info("Connected to MQTT broker", "broker", c.opts.Address())

	return &connection{client: client, logger: c.logger}, nil
}

// connection wraps an established Paho session
type connection struct {
	client pahomqtt.Client
	logger *slog.Logger
}

// Publish publishes a message to a topic, bounded by ctx
func (m *connection) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	token := m.client.Publish(topic, qos, retained, payload)

	select {
	case <-token.Done():
		if token.Error() != nil {
			return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
		}
	case <-ctx.Done():
		return fmt.Errorf("publish timeout on topic %s: %w", topic, ctx.Err())
	}

	m.logger.Debug("Published message", "topic", topic, "size", len(payload))
	return nil
}

// Disconnect closes the connection to the MQTT broker
func (m *connection) Disconnect() {
	m.logger.Info("Disconnecting from MQTT broker")
	m.client.Disconnect(250) // 250ms grace period
}

// IsConnected returns whether the client is currently connected
func (m *connection) IsConnected() bool {
	return m.client.IsConnected()
}
