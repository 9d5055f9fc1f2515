// Package kafka publishes standardized incidents to the optional sink topic
// for downstream monitoring consumers.
package kafka

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/incident-feed-etl/internal/config"
	"github.com/couchcryptid/incident-feed-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces incident messages to the sink topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes a processed batch to the sink topic
// in a single WriteMessages call.
func (w *Writer) PublishBatch(ctx context.Context, incidents []domain.StandardizedIncident) error {
	if len(incidents) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(incidents))
	for i := range incidents {
		msg, err := serializeToMessage(incidents[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a StandardizedIncident into a Kafka message.
func serializeToMessage(incident domain.StandardizedIncident) (kafkago.Message, error) {
	data, err := json.Marshal(incident)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(incidentKey(incident)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "incident_type", Value: []byte(incident.IncidentType)},
			{Key: "processed_at", Value: []byte(incident.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}

// incidentKey produces a deterministic key from the incident's identifying
// fields. Deterministic keys let downstream consumers upsert idempotently
// when a batch is replayed.
func incidentKey(incident domain.StandardizedIncident) string {
	input := fmt.Sprintf("%s|%s|%s|%s",
		incident.IncidentType, incident.Location.City, incident.Date, incident.Description)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if incident.IncidentType == "" {
		return short
	}
	return incident.IncidentType + "-" + short
}
