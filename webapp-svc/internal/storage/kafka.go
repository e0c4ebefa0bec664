package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"beerchek/webapp-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher is the bridge transport that hands envelopes to the bot
// through a Kafka topic, keyed by user so one user's actions stay ordered.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, envelope domain.BridgeEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(envelope.UserID, 10)),
		Value: payload,
	})
}
