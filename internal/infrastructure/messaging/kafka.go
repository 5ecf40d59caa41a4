package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"clinical-registry/config"
	"clinical-registry/internal/domain/entity"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// EventPublisher announces committed patient record changes.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.PatientRecordEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by record id so changes to
// one record stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	log    *logrus.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, log *logrus.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event entity.PatientRecordEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.RecordID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event for record %d: %w", event.Type, event.RecordID, err)
	}

	p.log.Debugf("Published %s for record %d", event.Type, event.RecordID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, entity.PatientRecordEvent) error { return nil }
func (NopPublisher) Close() error                                             { return nil }

// NewEventPublisher returns a Kafka publisher when brokers are configured.
func NewEventPublisher(cfg config.KafkaConfig, log *logrus.Logger) EventPublisher {
	if !cfg.Enabled() {
		return NopPublisher{}
	}
	log.Infof("Publishing patient record events to Kafka topic %q", cfg.Topic)
	return NewKafkaPublisher(cfg, log)
}
