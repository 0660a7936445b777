package events

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/loukys/storefront/pkg/tracing"
)

// KafkaPublisher writes lifecycle events to a single topic, keyed by
// aggregate id so events for one order stay in partition order.
type KafkaPublisher struct {
	log    *slog.Logger
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(log *slog.Logger, brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	headers := []kafka.Header{{Key: "event_type", Value: []byte(e.Type)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(e.AggregateID),
		Value:   e.Payload,
		Headers: headers,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("event publish failed", "type", e.Type, "aggregate_id", e.AggregateID, "err", err)
		return err
	}
	p.log.Info("event published", "type", e.Type, "aggregate_id", e.AggregateID)
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
