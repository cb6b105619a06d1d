package ingest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/venuekit/gate-discovery-go/internal/config"
)

// KafkaSource consumes JSON scan events from a Kafka topic. Producers key
// messages by event ID, so per-event arrival order is preserved by partition
// ordering end to end.
type KafkaSource struct {
	reader    *kafka.Reader
	submitter Submitter
}

// NewKafkaSource builds a Kafka source from the process configuration
func NewKafkaSource(cfg *config.Config, submitter Submitter) *KafkaSource {
	return &KafkaSource{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  cfg.KafkaGroupID,
			Topic:    cfg.KafkaTopic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}),
		submitter: submitter,
	}
}

// Start consumes until the context is cancelled
func (s *KafkaSource) Start(ctx context.Context) error {
	log.Printf("[Kafka] consuming topic %s", s.reader.Config().Topic)

	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return err
		}

		ev, err := decodeScanEvent(msg.Value)
		if err != nil {
			log.Printf("[Kafka] dropping message at offset %d: %v", msg.Offset, err)
			continue
		}
		if err := s.submitter.Submit(ev); err != nil {
			log.Printf("[Kafka] submit failed for event %s: %v", ev.EventID, err)
		}
	}
}

// Close releases the reader
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
