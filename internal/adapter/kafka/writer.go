package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/warehouse-capacity-map/internal/config"
	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the navigator uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes navigation events to a Kafka topic.
// It implements domain.Navigator.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured navigation topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaNavigationTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Navigate serializes and publishes one navigation event, keyed by target
// state code so events for one state stay ordered on a partition.
func (w *Writer) Navigate(ctx context.Context, event domain.NavigationEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish navigation event: %w", err)
	}
	w.logger.Debug("navigation event published", "id", event.ID, "target", event.Target)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a NavigationEvent into a Kafka message.
func serializeToMessage(event domain.NavigationEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize navigation event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Target),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "emitted_at", Value: []byte(event.EmittedAt.Format(time.RFC3339))},
		},
	}, nil
}
