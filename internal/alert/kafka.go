package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// KafkaChannel publishes alerts to a Kafka topic for downstream consumers
// (SMS gateways, incident tooling).
type KafkaChannel struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewKafkaChannel creates the channel. With no brokers or an empty topic the
// channel stays unconfigured and Send reports domain.ErrNotConfigured.
func NewKafkaChannel(brokers []string, topic string, logger *slog.Logger) *KafkaChannel {
	c := &KafkaChannel{logger: logger}
	if len(brokers) == 0 || topic == "" {
		return c
	}
	c.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return c
}

func (c *KafkaChannel) Name() string { return "kafka" }

// Send serializes the alert and publishes it keyed by alert ID.
func (c *KafkaChannel) Send(ctx context.Context, a Alert) error {
	if c.writer == nil {
		return domain.ErrNotConfigured
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serialize alert: %w", err)
	}
	return c.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(a.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(a.Category)},
			{Key: "severity", Value: []byte(a.Severity)},
		},
	})
}

// Close flushes and closes the underlying writer.
func (c *KafkaChannel) Close() error {
	if c.writer == nil {
		return nil
	}
	return c.writer.Close()
}
