// Package kafka publishes ledger events to a Kafka topic, as an alternative
// to the RabbitMQ notifier.
package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"sevaledger/internal/notify"
)

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Notify implements notify.Notifier. The event type keys the message so
// events of one kind land in order on one partition.
func (p *Publisher) Notify(ctx context.Context, e notify.Event) error {
	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Type),
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.writer.Close() }
