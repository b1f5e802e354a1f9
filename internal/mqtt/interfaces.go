// Package mqtt publishes weather station inferences to an MQTT broker. It
// does not publish Home Assistant auto-discovery configuration.
package mqtt

import "context"

// TestResult reports the outcome of one step of a broker connectivity test.
type TestResult struct {
	Step    string
	Success bool
	Error   string
	IsValid bool
}

// OnConnectHandler is invoked whenever the underlying MQTT connection
// (re)establishes, so callers can re-publish discovery/retained state.
type OnConnectHandler func(ctx context.Context)

// Config carries the subset of connection settings a Client needs, kept
// independent of internal/conf so the package can be unit tested without a
// full Settings tree.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// Client abstracts an MQTT publisher so tests can substitute a mock without
// a live broker.
type Client interface {
	// Connect establishes the connection to the broker.
	Connect(ctx context.Context) error
	// Disconnect closes the connection and stops any reconnect loop.
	Disconnect()
	// IsConnected reports the current connection state.
	IsConnected() bool
	// Publish sends payload to topic with default QoS/retain settings.
	Publish(ctx context.Context, topic, payload string) error
	// PublishWithRetain sends payload to topic with an explicit retain flag.
	PublishWithRetain(ctx context.Context, topic, payload string, retain bool) error
	// SetControlChannel wires a channel the client can use to signal
	// control-plane events (e.g. forced reconnect) to its owner.
	SetControlChannel(ch chan string)
	// TestConnection runs a connectivity smoke test, streaming progress.
	TestConnection(ctx context.Context, results chan<- TestResult)
	// RegisterOnConnectHandler adds a callback fired after (re)connection.
	RegisterOnConnectHandler(handler OnConnectHandler)
}
