package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/internal/application/service"
	"github.com/khoahotran/me-api/internal/config"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

const TopicProfileEvents = "profile.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter messageWriter
	logger              logger.Logger
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no brokers
// are configured.
func NewPublisher(cfg config.Config, log logger.Logger) service.EventPublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("Kafka brokers not configured, profile events are disabled")
		return NewNopPublisher()
	}
	return NewKafkaProducerClient(cfg, log)
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) *KafkaProducerClient {
	// writer 'profile.events'
	profileWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        TopicProfileEvents,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", cfg.Kafka.Brokers))

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		logger:              log,
	}
}

// PublishProfileEvent keys messages by profile id so one profile's events stay ordered.
func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, e service.ProfileEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return apperror.NewInternal("failed to encode profile event", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(e.ProfileID, 10)),
		Value: payload,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
		},
	}
	if err := c.ProfileEventsWriter.WriteMessages(ctx, msg); err != nil {
		return apperror.NewInternal("failed to publish profile event", err)
	}

	c.logger.Debug("Published profile event",
		zap.String("event_id", e.EventID),
		zap.String("event_type", string(e.EventType)),
	)
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

type nopPublisher struct{}

func NewNopPublisher() service.EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishProfileEvent(context.Context, service.ProfileEvent) error {
	return nil
}
