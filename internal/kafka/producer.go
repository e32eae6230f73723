package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmehdipour/superstore-dashboard/internal/util"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order lines as OrderEvent JSON, keyed by sales order so
// every line of an order lands on the same partition.
type Producer struct {
	w MessageWriter
}

func NewProducerFromConfig(c Config) *Producer {
	return NewProducer(&kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	})
}

func NewProducer(w MessageWriter) *Producer { return &Producer{w: w} }

// PublishOrders sends orders in chunks of at most batch messages.
func (p *Producer) PublishOrders(ctx context.Context, orders []model.SalesOrder, batch int) (int, error) {
	if batch <= 0 {
		batch = 500
	}

	sent := 0
	msgs := make([]kafka.Message, 0, batch)
	for i, o := range orders {
		b, err := json.Marshal(model.OrderEvent{ID: util.NewID(), Order: o})
		if err != nil {
			return sent, err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(o.SalesOrderID), Value: b})

		if len(msgs) == batch || i == len(orders)-1 {
			if err := p.w.WriteMessages(ctx, msgs...); err != nil {
				return sent, err
			}
			sent += len(msgs)
			msgs = msgs[:0]
		}
	}
	return sent, nil
}

func (p *Producer) Close() error { return p.w.Close() }
