package kafka

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/segmentio/kafka-go"
)

type MessageHandler func(ctx context.Context, key, value []byte) error

// Consumer reads one topic as a member of a consumer group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})
	return &Consumer{reader: reader}
}

// Consume hands every message to handler until ctx is done. Handler errors
// are logged and the message is still committed.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			log.Printf("[Kafka] Error reading %s: %v", c.reader.Config().Topic, err)
			continue
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			log.Printf("[Kafka] Error handling %s offset %d: %v", msg.Topic, msg.Offset, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
