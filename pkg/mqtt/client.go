package mqtt

import (
	"fmt"
	"sort"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type Config struct {
	Broker               string
	ClientID             string
	Username             string
	Password             string
	CleanSession         bool
	KeepAlive            int
	ConnectTimeout       int
	AutoReconnect        bool
	MaxReconnectInterval time.Duration
}

// Hooks observe connection state. Any of them may be nil.
type Hooks struct {
	OnConnect        func()
	OnConnectionLost func(err error)
	OnReconnecting   func()
}

type MessageHandler func(topic string, payload []byte)

type subscription struct {
	qos     byte
	handler MessageHandler
}

// Client wraps paho and remembers its subscriptions so they survive a
// reconnect; a clean session drops them broker-side.
type Client struct {
	client mqtt.Client
	config *Config
	hooks  Hooks
	log    *zap.Logger

	mu   sync.Mutex
	subs map[string]subscription
}

// NewClient builds a paho client. A nil logger disables logging.
func NewClient(config *Config, hooks Hooks, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		config: config,
		hooks:  hooks,
		log:    log.With(zap.String("broker", config.Broker)),
		subs:   make(map[string]subscription),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetCleanSession(config.CleanSession)
	opts.SetKeepAlive(time.Duration(config.KeepAlive) * time.Second)
	opts.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	opts.SetAutoReconnect(config.AutoReconnect)
	opts.SetMaxReconnectInterval(config.MaxReconnectInterval)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)

	c.client = mqtt.NewClient(opts)
	return c
}

// onConnect runs on the first connect and on every reconnect.
func (c *Client) onConnect(mqtt.Client) {
	c.log.Info("MQTT client connected")

	c.mu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for topic, s := range c.subs {
		subs[topic] = s
	}
	c.mu.Unlock()

	for topic, s := range subs {
		if err := c.subscribe(topic, s); err != nil {
			c.log.Error("Failed to restore subscription", zap.String("topic", topic), zap.Error(err))
		}
	}

	if c.hooks.OnConnect != nil {
		c.hooks.OnConnect()
	}
}

func (c *Client) onConnectionLost(_ mqtt.Client, err error) {
	c.log.Warn("MQTT connection lost", zap.Error(err))
	if c.hooks.OnConnectionLost != nil {
		c.hooks.OnConnectionLost(err)
	}
}

func (c *Client) onReconnecting(mqtt.Client, *mqtt.ClientOptions) {
	c.log.Info("Reconnecting to MQTT broker")
	if c.hooks.OnReconnecting != nil {
		c.hooks.OnReconnecting()
	}
}

// Connect establishes a connection to the MQTT broker
func (c *Client) Connect() error {
	c.log.Info("Connecting to MQTT broker")

	token := c.client.Connect()
	token.Wait()

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return nil
}

// Subscribe subscribes to a topic and restores it after reconnects.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	s := subscription{qos: qos, handler: handler}
	if err := c.subscribe(topic, s); err != nil {
		return err
	}

	c.mu.Lock()
	c.subs[topic] = s
	c.mu.Unlock()

	c.log.Info("Subscribed to topic", zap.String("topic", topic), zap.Uint8("qos", qos))
	return nil
}

func (c *Client) subscribe(topic string, s subscription) error {
	token := c.client.Subscribe(topic, s.qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	return nil
}

// Unsubscribe drops the topics locally and at the broker.
func (c *Client) Unsubscribe(topics ...string) error {
	c.mu.Lock()
	for _, t := range topics {
		delete(c.subs, t)
	}
	c.mu.Unlock()

	token := c.client.Unsubscribe(topics...)
	token.Wait()
	return token.Error()
}

// Topics lists the subscriptions restored on reconnect.
func (c *Client) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.subs))
	for t := range c.subs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Disconnect disconnects from MQTT broker
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	c.log.Info("Disconnected from MQTT broker")
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
