package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/intima/internal/logger"
)

const (
	ProductSaved   = "product.saved"
	ProductDeleted = "product.deleted"
	OrderCreated   = "order.created"
)

const publishTimeout = 5 * time.Second

// Event is the envelope written to the catalog topic.
type Event struct {
	Type      string      `json:"type"`
	Key       string      `json:"key"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits catalog and order events to Kafka. Without brokers it
// drops every event.
type Publisher struct {
	writer messageWriter
	log    *logger.Logger
	now    func() time.Time
}

func NewPublisher(brokers []string, topic string, log *logger.Logger) *Publisher {
	p := &Publisher{log: log, now: time.Now}
	if len(brokers) == 0 || topic == "" {
		return p
	}

	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return p
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// Publish writes a single event keyed by key, so events for one entity stay
// ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	if !p.Enabled() {
		return nil
	}

	payload, err := json.Marshal(Event{
		Type:      eventType,
		Key:       key,
		Data:      data,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
}

// PublishAsync publishes in the background and logs failures.
func (p *Publisher) PublishAsync(eventType, key string, data interface{}) {
	if !p.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, eventType, key, data); err != nil {
			p.log.Error("[Events] publish %s %s: %v", eventType, key, err)
			return
		}
		p.log.Debug("[Events] published %s %s", eventType, key)
	}()
}

func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
