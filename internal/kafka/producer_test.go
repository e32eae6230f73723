package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
)

type fakeWriter struct {
	calls [][]kafka.Message
	err   error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	cp := make([]kafka.Message, len(msgs))
	copy(cp, msgs)
	f.calls = append(f.calls, cp)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func orders(n int) []model.SalesOrder {
	out := make([]model.SalesOrder, n)
	for i := range out {
		out[i] = model.SalesOrder{
			SalesOrderID: "43659",
			ProdID:       "776",
			CustID:       "29825",
			SubTotal:     decimal.NewFromInt(int64(i + 1)),
		}
	}
	return out
}

func TestProducer_PublishOrdersChunks(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducer(w)

	sent, err := p.PublishOrders(context.Background(), orders(5), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, sent)
	require.Len(t, w.calls, 3)
	assert.Len(t, w.calls[0], 2)
	assert.Len(t, w.calls[2], 1)

	m := w.calls[0][1]
	assert.Equal(t, "43659", string(m.Key))
	var ev model.OrderEvent
	require.NoError(t, json.Unmarshal(m.Value, &ev))
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "776", ev.Order.ProdID)
	assert.True(t, ev.Order.SubTotal.Equal(decimal.NewFromInt(2)))
}

func TestProducer_PublishOrdersError(t *testing.T) {
	p := NewProducer(&fakeWriter{err: errors.New("broker down")})

	sent, err := p.PublishOrders(context.Background(), orders(3), 10)
	require.Error(t, err)
	assert.Zero(t, sent)
}

func TestProducer_Empty(t *testing.T) {
	w := &fakeWriter{}
	sent, err := NewProducer(w).PublishOrders(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, w.calls)
}
