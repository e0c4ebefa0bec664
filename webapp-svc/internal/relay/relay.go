package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"beerchek/webapp-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Forwarder delivers an envelope to the bot. bridge.MessengerTransport is
// the production implementation.
type Forwarder interface {
	Publish(ctx context.Context, envelope domain.BridgeEnvelope) error
}

// Consumer moves envelopes published by the kafka bridge transport to the
// bot's webapp-data endpoint. A message is committed once it is delivered or
// has used up its attempts.
type Consumer struct {
	Reader     MessageReader
	Forwarder  Forwarder
	Attempts   int
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, forwarder Forwarder) *Consumer {
	return &Consumer{
		Reader:     reader,
		Forwarder:  forwarder,
		Attempts:   3,
		RetryDelay: time.Second,
	}
}

// Start runs until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	log.Println("[RELAY] Starting bridge relay consumer...")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[RELAY] Error reading message: %v", err)
			continue
		}

		c.Process(ctx, message)

		if err := c.Reader.CommitMessages(ctx, message); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[RELAY] Error committing offset %d: %v", message.Offset, err)
		}
	}
}

// Process forwards one message and reports whether the bot accepted it.
func (c *Consumer) Process(ctx context.Context, message kafka.Message) bool {
	var envelope domain.BridgeEnvelope
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		log.Printf("[RELAY] Error unmarshaling message at offset %d: %v", message.Offset, err)
		return false
	}

	var action struct {
		Action string `json:"action"`
	}
	json.Unmarshal([]byte(envelope.Data), &action)

	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.Forwarder.Publish(ctx, envelope); err == nil {
			log.Printf("[RELAY] Delivered %q from user %d", action.Action, envelope.UserID)
			return true
		}
		if attempt == attempts || errors.Is(err, context.Canceled) {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.RetryDelay):
		}
	}
	log.Printf("[RELAY] Dropping %q from user %d after %d attempts: %v", action.Action, envelope.UserID, attempts, err)
	return false
}
