package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"coldchain-monitor/internal/logger"
	pkgmqtt "coldchain-monitor/pkg/mqtt"

	"go.uber.org/zap"
)

// MQTTIngestionConfig describes the telemetry topic and connection parameters.
type MQTTIngestionConfig struct {
	ClientConfig   *pkgmqtt.Config
	TelemetryTopic string
	QoS            byte
}

// Ingester is the part of the processor the MQTT client drives.
type Ingester interface {
	Process(ctx context.Context, in *ReadingInput) (*Result, error)
}

// MQTTStats counts connection churn and message outcomes on the telemetry topic.
type MQTTStats struct {
	Connected        bool  `json:"connected"`
	Connects         int64 `json:"connects"`
	ConnectionLosses int64 `json:"connection_losses"`
	Reconnects       int64 `json:"reconnects"`
	MessagesReceived int64 `json:"messages_received"`
	MessagesRejected int64 `json:"messages_rejected"`
}

// MQTTIngestionClient wires MQTT telemetry messages into the processor.
type MQTTIngestionClient struct {
	cfg      *MQTTIngestionConfig
	client   *pkgmqtt.Client
	ingester Ingester

	connected        atomic.Bool
	connects         atomic.Int64
	connectionLosses atomic.Int64
	reconnects       atomic.Int64
	received         atomic.Int64
	rejected         atomic.Int64

	mu      sync.Mutex
	started bool
}

// NewMQTTIngestionClient builds a new MQTT client for ingestion.
func NewMQTTIngestionClient(cfg *MQTTIngestionConfig, ingester Ingester) (*MQTTIngestionClient, error) {
	if cfg == nil || cfg.ClientConfig == nil {
		return nil, errors.New("mqtt ingestion config is not configured")
	}
	if cfg.TelemetryTopic == "" {
		return nil, errors.New("no MQTT telemetry topic configured")
	}
	if ingester == nil {
		return nil, errors.New("ingester is required")
	}

	c := &MQTTIngestionClient{
		cfg:      cfg,
		ingester: ingester,
	}
	c.client = pkgmqtt.NewClient(cfg.ClientConfig, pkgmqtt.Hooks{
		OnConnect:        c.onConnect,
		OnConnectionLost: c.onConnectionLost,
		OnReconnecting:   c.onReconnecting,
	}, logger.Named("mqtt"))
	return c, nil
}

func (c *MQTTIngestionClient) onConnect() {
	c.connected.Store(true)
	c.connects.Add(1)
}

func (c *MQTTIngestionClient) onConnectionLost(err error) {
	c.connected.Store(false)
	c.connectionLosses.Add(1)
	logger.Warn("Telemetry feed interrupted",
		zap.String("topic", c.cfg.TelemetryTopic),
		zap.Error(err),
	)
}

func (c *MQTTIngestionClient) onReconnecting() {
	c.reconnects.Add(1)
}

// Stats reports connection and message counters.
func (c *MQTTIngestionClient) Stats() MQTTStats {
	return MQTTStats{
		Connected:        c.connected.Load(),
		Connects:         c.connects.Load(),
		ConnectionLosses: c.connectionLosses.Load(),
		Reconnects:       c.reconnects.Load(),
		MessagesReceived: c.received.Load(),
		MessagesRejected: c.rejected.Load(),
	}
}

// Start connects to the broker and subscribes to the telemetry topic.
func (c *MQTTIngestionClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return err
	}

	if err := c.client.Subscribe(c.cfg.TelemetryTopic, c.cfg.QoS, c.HandleMessage); err != nil {
		c.client.Disconnect()
		return fmt.Errorf("subscribe failed for topic %s: %w", c.cfg.TelemetryTopic, err)
	}

	c.started = true
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (c *MQTTIngestionClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}

	if err := c.client.Unsubscribe(c.cfg.TelemetryTopic); err != nil {
		logger.Warn("Failed to unsubscribe from MQTT topic",
			zap.String("topic", c.cfg.TelemetryTopic),
			zap.Error(err),
		)
	}

	c.client.Disconnect()
	c.connected.Store(false)
	c.started = false
}

// HandleMessage decodes one telemetry payload and ingests it. Bad payloads
// are logged and dropped; the broker does not redeliver them.
func (c *MQTTIngestionClient) HandleMessage(topic string, payload []byte) {
	c.received.Add(1)

	msg, err := ParseReading(payload)
	if err != nil {
		c.rejected.Add(1)
		logger.Warn("Invalid telemetry payload",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}

	if _, err := c.ingester.Process(context.Background(), msg); err != nil {
		c.rejected.Add(1)
		logger.Warn("Telemetry message rejected",
			zap.String("topic", topic),
			zap.String("device_id", msg.DeviceID),
			zap.Error(err),
		)
	}
}
