// Package events streams cart snapshots to Kafka after mutations. Delivery
// is best-effort enrichment for downstream consumers (analytics, pricing),
// not a consistency mechanism: failures are logged and dropped.
package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/itaipu/go-shop/internal/cart/domain"
)

const topic = "cart-events"

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) CartUpdated(ctx context.Context, cart *domain.Cart) {
	payload, err := json.Marshal(cart)
	if err != nil {
		log.Printf("failed to marshal cart event for %s: %v", cart.ID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(cart.ID), // cart id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("cart.updated")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to publish cart event for %s: %v", cart.ID, err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) CartUpdated(context.Context, *domain.Cart) {}
