// Package kafka publishes festival snapshots to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/config"
	"github.com/couchcryptid/festival-guide/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every published message.
const (
	HeaderSnapshotID = "snapshot_id"
	HeaderLoadedAt   = "loaded_at"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per festival of a snapshot.
// It implements catalog.Publisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes every festival of s and writes them in a single
// WriteMessages call. Keys are festival IDs so a festival always lands on
// the same partition.
func (p *Publisher) Publish(ctx context.Context, s *catalog.Snapshot) error {
	if len(s.Dataset.Festivals) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(s.Dataset.Festivals))
	for i := range s.Dataset.Festivals {
		msg, err := serializeToMessage(s.Dataset.Festivals[i], s)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", s.ID, err)
	}
	p.logger.Info("snapshot published", "snapshot_id", s.ID, "messages", len(msgs))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// festivalRecord is the JSON value of a published message.
type festivalRecord struct {
	domain.Festival
	SnapshotID string `json:"snapshot_id"`
	Generation uint64 `json:"generation"`
}

func serializeToMessage(f domain.Festival, s *catalog.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(festivalRecord{Festival: f, SnapshotID: s.ID, Generation: s.Generation})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize festival %s: %w", f.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(f.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderSnapshotID, Value: []byte(s.ID)},
			{Key: HeaderLoadedAt, Value: []byte(s.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
