package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/kafka"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/metrics"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MessageSource is the part of the Kafka consumer the worker uses.
type MessageSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// OrderWriter stores a batch of order lines.
type OrderWriter interface {
	InsertBatch(ctx context.Context, tx *sqlx.Tx, orders []model.SalesOrder) error
}

// Ingest:
// - fetches order events from Kafka,
// - buffers them and writes each batch in one transaction,
// - commits offsets only after the batch is stored (at-least-once).
type Ingest struct {
	Source MessageSource
	Orders OrderWriter

	BatchSize    int
	BatchWait    time.Duration
	FlushRetries int

	// OnFlush runs after every stored batch, e.g. to drop a cached snapshot.
	OnFlush func(ctx context.Context)
}

// NewIngest builds a worker with sane defaults.
func NewIngest(src MessageSource, orders OrderWriter) *Ingest {
	return &Ingest{
		Source:       src,
		Orders:       orders,
		BatchSize:    500,
		BatchWait:    time.Second,
		FlushRetries: 3,
	}
}

// Run blocks until ctx is cancelled or a batch cannot be stored. Uncommitted
// messages are redelivered to the next consumer in the group.
func (w *Ingest) Run(ctx context.Context) error {
	if w.Source == nil || w.Orders == nil {
		return errors.New("ingest: source and order writer are required")
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 500
	}
	if w.BatchWait <= 0 {
		w.BatchWait = time.Second
	}
	if w.FlushRetries <= 0 {
		w.FlushRetries = 3
	}

	msgCh := make(chan kafka.Message, w.BatchSize)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			m, err := w.Source.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Log.Warn("ingest: kafka fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(200 * time.Millisecond):
				}
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	b := &batch{}
	for {
		select {
		case <-ctx.Done():
			return w.finalFlush(b)

		case m, ok := <-msgCh:
			if !ok {
				return w.finalFlush(b)
			}
			b.add(m)
			if len(b.msgs) >= w.BatchSize {
				if err := w.flush(ctx, b); err != nil {
					return w.stop(ctx, b, err)
				}
			}

		case <-tick.C:
			if err := w.flush(ctx, b); err != nil {
				return w.stop(ctx, b, err)
			}
		}
	}
}

// stop turns a flush interrupted by shutdown into a final flush. Other flush
// errors end the worker.
func (w *Ingest) stop(ctx context.Context, b *batch, err error) error {
	if ctx.Err() != nil {
		return w.finalFlush(b)
	}
	return err
}

type batch struct {
	msgs    []kafka.Message
	orders  []model.SalesOrder
	skipped int
}

func (b *batch) add(m kafka.Message) {
	b.msgs = append(b.msgs, m)

	var ev model.OrderEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil || !ev.Order.Valid() {
		// poison: committed with the batch, never stored
		b.skipped++
		logger.Log.Warn("ingest: bad order event",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		return
	}
	b.orders = append(b.orders, ev.Order)
}

func (b *batch) reset() {
	b.msgs = b.msgs[:0]
	b.orders = b.orders[:0]
	b.skipped = 0
}

// finalFlush stores what is buffered with a short detached context so a
// shutdown does not throw away fetched work.
func (w *Ingest) finalFlush(b *batch) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.flush(ctx, b)
}

func (w *Ingest) flush(ctx context.Context, b *batch) error {
	if len(b.msgs) == 0 {
		return nil
	}

	var err error
	for attempt := 1; attempt <= w.FlushRetries; attempt++ {
		if err = w.Orders.InsertBatch(ctx, nil, b.orders); err == nil {
			break
		}
		logger.Log.Warn("ingest: store batch failed",
			zap.Int("attempt", attempt),
			zap.Int("orders", len(b.orders)),
			zap.Error(err),
		)
		if attempt == w.FlushRetries {
			break
		}
		select {
		case <-ctx.Done():
			// batch is kept for the caller's final flush
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.OrdersIngested.WithLabelValues("failed").Add(float64(len(b.orders)))
		return fmt.Errorf("ingest: store batch: %w", err)
	}

	if err := w.Source.Commit(ctx, b.msgs...); err != nil {
		// stored rows are idempotent on replay
		logger.Log.Warn("ingest: commit failed", zap.Error(err))
	}

	metrics.OrdersIngested.WithLabelValues("stored").Add(float64(len(b.orders)))
	metrics.OrdersIngested.WithLabelValues("skipped").Add(float64(b.skipped))
	logger.Log.Info("ingest: flushed",
		zap.Int("stored", len(b.orders)),
		zap.Int("skipped", b.skipped),
	)

	if w.OnFlush != nil && len(b.orders) > 0 {
		w.OnFlush(ctx)
	}
	b.reset()
	return nil
}
