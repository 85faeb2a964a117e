// Package events publishes domain events for downstream consumers such as
// fulfilment and e-mail notification.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/ikkim/storefront-backend/pkg/logger"
)

const TopicOrderConfirmed = "order-confirmed"

type OrderLineEvent struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderConfirmed is emitted once checkout has committed an order.
type OrderConfirmed struct {
	OrderID       uint             `json:"order_id"`
	CustomerID    uint             `json:"customer_id"`
	CustomerEmail string           `json:"customer_email"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	Lines         []OrderLineEvent `json:"lines"`
	ConfirmedAt   time.Time        `json:"confirmed_at"`
}

type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, event OrderConfirmed) error
	Close() error
}

// NewPublisher returns a Kafka publisher, or a no-op one when brokers is empty.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.Info("Kafka brokers not configured, order events disabled")
		return NoopPublisher{}
	}
	if topic == "" {
		topic = TopicOrderConfirmed
	}
	logger.Info("Kafka order event publisher configured", map[string]interface{}{
		"brokers": brokers,
		"topic":   topic,
	})
	return &KafkaPublisher{writer: NewKafkaWriter(brokers, topic)}
}

// NewKafkaWriter creates a writer that only waits for the partition leader and
// flushes small batches quickly, since checkout waits on the write.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func (p *KafkaPublisher) PublishOrderConfirmed(ctx context.Context, event OrderConfirmed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// keyed by order so retries land on the same partition
	message := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: payload,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Error("Failed to write order event to kafka", err, map[string]interface{}{
			"order_id": event.OrderID,
			"topic":    p.writer.Topic,
		})
		return err
	}

	logger.Debug("Order event written to kafka", map[string]interface{}{
		"order_id": event.OrderID,
		"topic":    p.writer.Topic,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) PublishOrderConfirmed(context.Context, OrderConfirmed) error { return nil }
func (NoopPublisher) Close() error                                              { return nil }

// Recorder keeps published events in memory. Tests use it in place of Kafka.
type Recorder struct {
	Events []OrderConfirmed
	Err    error
}

func (r *Recorder) PublishOrderConfirmed(_ context.Context, event OrderConfirmed) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }
