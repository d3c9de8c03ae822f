// Package kafka publishes proximity alerts to a Kafka topic consumed by the
// downstream mailer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// AlertMessage is the JSON payload of a proximity alert.
type AlertMessage struct {
	ID              string          `json:"id"`
	GuardianContact string          `json:"guardian_contact"`
	AssetName       string          `json:"asset_name"`
	DistanceKm      float64         `json:"distance_km"`
	Tier            domain.RiskTier `json:"tier"`
	Severity        string          `json:"severity"`
	SentAt          time.Time       `json:"sent_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Notifier produces one message per alert, keyed by guardian contact so a
// guardian's alerts stay ordered within a partition.
// It implements domain.Notifier.
type Notifier struct {
	writer messageWriter
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the alert topic.
func NewNotifier(brokers []string, topic string, clock clockwork.Clock, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newNotifier(w, clock, logger)
}

func newNotifier(w messageWriter, clock clockwork.Clock, logger *slog.Logger) *Notifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Notifier{writer: w, clock: clock, logger: logger}
}

func (n *Notifier) SendProximityAlert(ctx context.Context, contact, assetName string, distanceKm float64) error {
	tier := domain.ClassifyDistance(distanceKm)
	msg, err := serializeAlert(AlertMessage{
		ID:              uuid.NewString(),
		GuardianContact: contact,
		AssetName:       assetName,
		DistanceKm:      distanceKm,
		Tier:            tier,
		Severity:        tier.AlertSeverity(),
		SentAt:          n.clock.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish proximity alert: %w", err)
	}
	n.logger.Debug("proximity alert published", "alert_id", string(msg.Headers[0].Value), "asset", assetName)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

func serializeAlert(alert AlertMessage) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize proximity alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.GuardianContact),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_id", Value: []byte(alert.ID)},
			{Key: "severity", Value: []byte(alert.Severity)},
			{Key: "sent_at", Value: []byte(alert.SentAt.Format(time.RFC3339))},
		},
	}, nil
}
