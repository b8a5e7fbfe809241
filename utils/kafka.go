package utils

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/newwestevents/events-backend/config"
)

var kafkaWriter *kafka.Writer

// InitializeKafka sets up the change-event publisher. Kafka is optional:
// when no brokers are configured the publisher stays nil and callers fall
// back to writing notifications directly, with a warning logged so the
// degradation is never silent.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		Log.Warn("kafka not configured, change events will be dispatched in-process")
		return
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	Log.WithField("topic", cfg.KafkaTopic).Info("kafka change-event publisher initialized")
}

// KafkaEnabled reports whether the publisher is wired up.
func KafkaEnabled() bool {
	return kafkaWriter != nil
}

// PublishMessage writes one keyed message to the change-event topic.
func PublishMessage(ctx context.Context, key string, value []byte) error {
	if kafkaWriter == nil {
		return nil
	}
	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// NewKafkaReader builds a consumer for the change-event topic. Returns nil
// when Kafka is not configured.
func NewKafkaReader(cfg *config.Config, groupID string) *kafka.Reader {
	if cfg.KafkaBrokers == "" {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  groupID,
		Topic:    cfg.KafkaTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// CloseKafka flushes and closes the publisher.
func CloseKafka() {
	if kafkaWriter != nil {
		_ = kafkaWriter.Close()
	}
}
