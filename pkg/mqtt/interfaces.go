package mqtt

import "context"

// Connector establishes broker sessions. The publisher acquires one
// Connection per run and releases it when the run ends.
type Connector interface {
	// Connect establishes a connection to the MQTT broker
	Connect(ctx context.Context) (Connection, error)
}

// Connection is an established broker session used for publishing
type Connection interface {
	// Publish sends a message to a topic, bounded by ctx
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error

	// Disconnect closes the connection to the MQTT broker
	Disconnect()

	// IsConnected returns whether the session is still up
	IsConnected() bool
}
