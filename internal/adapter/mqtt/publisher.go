// Package mqtt provides a snapshot sink backed by an MQTT broker, for
// feeding home-automation systems that subscribe to station topics.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/weatherlink-live-collector/internal/config"
	"github.com/couchcryptid/weatherlink-live-collector/internal/domain"
)

// Publisher publishes snapshots to {prefix}/{station_id}/snapshot with QoS 1.
type Publisher struct {
	client    pahomqtt.Client
	topic     string
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPublisher builds an MQTT client from the configuration. The connection
// is not established until Connect is called.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	p := &Publisher{
		topic:  snapshotTopic(cfg.MQTTTopicPrefix, cfg.StationID),
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)

	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		p.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		p.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	p.client = pahomqtt.NewClient(opts)
	return p
}

// Connect establishes the broker connection, waiting for the initial attempt
// while respecting ctx and Close().
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return fmt.Errorf("publisher closed")
	default:
	}

	if p.isConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return fmt.Errorf("publisher closed")
		default:
		}
	}
}

// Publish sends one snapshot to the station topic. The payload is the flat
// snapshot JSON, so MQTT and Kafka consumers see the same document.
func (p *Publisher) Publish(_ context.Context, snap domain.Snapshot) error {
	if !p.isConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", p.topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publish snapshot: %w", token.Error())
	}

	p.logger.Debug("published snapshot", "topic", p.topic)
	return nil
}

// Close stops the client and disconnects from the broker. Idempotent; after
// Close, Connect returns an error.
func (p *Publisher) Close() error {
	p.stopOnce.Do(func() { close(p.stopCh) })

	if p.client != nil {
		p.client.Disconnect(250)
	}

	p.setConnected(false)
	p.logger.Info("mqtt disconnected")
	return nil
}

func (p *Publisher) isConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

func snapshotTopic(prefix, stationID string) string {
	return fmt.Sprintf("%s/%s/snapshot", prefix, stationID)
}
