package notify

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaSink writes events to a Kafka topic keyed by event type.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *KafkaSink) Name() string {
	return "kafka:" + k.writer.Topic
}

func (k *KafkaSink) Deliver(ctx context.Context, evt Event, payload []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Type),
		Value: payload,
		Time:  evt.Timestamp,
	})
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
