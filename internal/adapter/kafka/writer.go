package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weatherlink-live-collector/internal/config"
	"github.com/couchcryptid/weatherlink-live-collector/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes snapshots to a Kafka topic, one message per poll cycle.
// It implements poller.Sink.
type Writer struct {
	writer    *kafkago.Writer
	stationID string
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, stationID: cfg.StationID, logger: logger}
}

// Publish serializes one snapshot and writes it to the topic. The station id
// keys every message so a single station's snapshots stay ordered within one
// partition — the rain deltas only add up when consumed in cycle order.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeToMessage(snap, w.stationID)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap domain.Snapshot, stationID string) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(stationID),
		Value: data,
		Time:  snap.ObservedAt,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(stationID)},
			{Key: "collected_at", Value: []byte(snap.CollectedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
