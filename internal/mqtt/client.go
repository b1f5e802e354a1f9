// client.go
package mqtt

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/logger"
)

// client implements the Client interface on top of paho.mqtt.golang.
type client struct {
	config          Config
	internalClient  mqtt.Client
	lastConnAttempt time.Time
	mu              sync.Mutex
	reconnectTimer  *time.Timer
	reconnectStop   chan struct{}
	controlChan     chan string
	onConnectHooks  []OnConnectHandler
	log             logger.Logger
}

// NewClient creates a new MQTT client from station settings.
func NewClient(settings *conf.Settings) Client {
	return &client{
		config: Config{
			Broker:   settings.MQTT.Broker,
			ClientID: "wxcore-" + settings.Station.NodeID,
			Username: settings.MQTT.Username,
			Password: settings.MQTT.Password,
			Topic:    settings.MQTT.Topic,
		},
		reconnectStop: make(chan struct{}),
		log:           GetLogger(),
	}
}

// Connect attempts to establish a connection to the MQTT broker.
// It first resolves the broker's hostname and then attempts to connect.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastConnAttempt) < 1*time.Minute && c.internalClient != nil {
		return fmt.Errorf("connection attempt too recent")
	}
	c.lastConnAttempt = time.Now()

	if err := c.resolveBrokerHostname(); err != nil {
		return fmt.Errorf("failed to resolve broker hostname: %w", err)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.config.Broker)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetConnectRetry(true)

	c.internalClient = mqtt.NewClient(opts)

	token := c.internalClient.Connect()
	if !token.WaitTimeout(30 * time.Second) {
		return fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	return nil
}

// resolveBrokerHostname verifies the broker's hostname resolves before dialing.
func (c *client) resolveBrokerHostname() error {
	u, err := url.Parse(c.config.Broker)
	if err != nil {
		return fmt.Errorf("invalid broker URL: %w", err)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("broker URL has no host: %s", c.config.Broker)
	}
	if _, err := net.LookupHost(host); err != nil {
		return fmt.Errorf("failed to resolve hostname %s: %w", host, err)
	}

	return nil
}

// Publish sends a message to topic with no retain flag.
func (c *client) Publish(ctx context.Context, topic, payload string) error {
	return c.PublishWithRetain(ctx, topic, payload, false)
}

// PublishWithRetain sends a message to topic, optionally retained.
func (c *client) PublishWithRetain(ctx context.Context, topic, payload string, retain bool) error {
	c.mu.Lock()
	ic := c.internalClient
	c.mu.Unlock()

	if ic == nil || !ic.IsConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	token := ic.Publish(topic, 0, retain, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

// IsConnected returns true if the client is currently connected to the MQTT broker.
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect closes the connection to the MQTT broker.
func (c *client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient != nil && c.internalClient.IsConnected() {
		c.internalClient.Disconnect(250)
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	select {
	case <-c.reconnectStop:
	default:
		close(c.reconnectStop)
	}
}

// SetControlChannel wires a channel the client can use to report control events.
func (c *client) SetControlChannel(ch chan string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controlChan = ch
}

// RegisterOnConnectHandler adds a callback invoked after each (re)connection.
func (c *client) RegisterOnConnectHandler(handler OnConnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnectHooks = append(c.onConnectHooks, handler)
}

// TestConnection runs a connectivity smoke test against the broker, streaming
// each step's outcome to results. results is closed when the test completes.
func (c *client) TestConnection(ctx context.Context, results chan<- TestResult) {
	defer close(results)

	results <- TestResult{Step: "parse_broker_url", Success: c.config.Broker != "", IsValid: c.config.Broker != ""}
	if c.config.Broker == "" {
		results <- TestResult{Step: "parse_broker_url", Success: false, Error: "broker address is empty"}
		return
	}

	if err := c.resolveBrokerHostname(); err != nil {
		results <- TestResult{Step: "resolve_hostname", Success: false, Error: err.Error()}
		return
	}
	results <- TestResult{Step: "resolve_hostname", Success: true, IsValid: true}

	if err := c.Connect(ctx); err != nil {
		results <- TestResult{Step: "connect", Success: false, Error: err.Error()}
		return
	}
	results <- TestResult{Step: "connect", Success: true, IsValid: true}

	testTopic := c.config.Topic + "/selftest"
	if err := c.Publish(ctx, testTopic, "ok"); err != nil {
		results <- TestResult{Step: "publish", Success: false, Error: err.Error()}
		return
	}
	results <- TestResult{Step: "publish", Success: true, IsValid: true}
}

func (c *client) onConnect(_ mqtt.Client) {
	c.log.Info("connected to MQTT broker", "broker", c.config.Broker)

	c.mu.Lock()
	hooks := append([]OnConnectHandler(nil), c.onConnectHooks...)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook(context.Background())
	}
}

func (c *client) onConnectionLost(_ mqtt.Client, err error) {
	c.log.Warn("connection to MQTT broker lost", "broker", c.config.Broker, "error", err)
	c.startReconnectTimer()
}

func (c *client) startReconnectTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconnectTimer = time.AfterFunc(time.Minute, func() {
		select {
		case <-c.reconnectStop:
			return
		default:
			c.reconnectWithBackoff()
		}
	})
}

func (c *client) reconnectWithBackoff() {
	backoff := time.Second
	maxBackoff := 5 * time.Minute

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := c.Connect(ctx)
		cancel()

		if err == nil {
			c.log.Info("reconnected to MQTT broker", "broker", c.config.Broker)
			c.startReconnectTimer()
			return
		}

		c.log.Warn("failed to reconnect to MQTT broker", "broker", c.config.Broker, "error", err, "retry_in", backoff)

		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		case <-c.reconnectStop:
			return
		}
	}
}
