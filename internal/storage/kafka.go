package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"farmer/internal/domain"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes order events keyed by order id, so every event for
// one order lands on the same partition.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrder(ctx context.Context, msg domain.OrderMessage) error {
	message, err := encodeOrderMessage(msg)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, message)
}

func encodeOrderMessage(msg domain.OrderMessage) (kafka.Message, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.Itoa(msg.OrderID)),
		Value: payload,
	}, nil
}
