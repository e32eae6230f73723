package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/kafka"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
}

func (f *fakeSource) Fetch(ctx context.Context) (kafka.Message, error) {
	for {
		f.mu.Lock()
		if len(f.queue) > 0 {
			m := f.queue[0]
			f.queue = f.queue[1:]
			f.mu.Unlock()
			return m, nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (f *fakeSource) Commit(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeSource) committedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.committed)
}

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]model.SalesOrder
	fail    int // fail this many calls first
}

func (f *fakeWriter) InsertBatch(_ context.Context, _ *sqlx.Tx, orders []model.SalesOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return errors.New("db down")
	}
	cp := make([]model.SalesOrder, len(orders))
	copy(cp, orders)
	f.batches = append(f.batches, cp)
	return nil
}

func (f *fakeWriter) stored() []model.SalesOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.SalesOrder
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

func event(t *testing.T, offset int64, so, prod string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(model.OrderEvent{
		ID: so + "-" + prod,
		Order: model.SalesOrder{
			SalesOrderID: so, ProdID: prod, CustID: "c1",
			SubTotal: decimal.NewFromInt(10), TaxAmt: decimal.NewFromInt(1), Freight: decimal.NewFromInt(1),
		},
	})
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func runIngest(t *testing.T, w *Ingest) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return cancel, done
}

func TestIngest_BatchesAndCommits(t *testing.T) {
	src := &fakeSource{queue: []kafka.Message{
		event(t, 1, "71774", "836"),
		{Offset: 2, Value: []byte("{not json")},
		event(t, 3, "71774", "822"),
	}}
	wr := &fakeWriter{}

	flushes := 0
	w := NewIngest(src, wr)
	w.BatchSize = 2
	w.BatchWait = 20 * time.Millisecond
	w.OnFlush = func(context.Context) { flushes++ }

	cancel, done := runIngest(t, w)

	require.Eventually(t, func() bool { return src.committedCount() == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	stored := wr.stored()
	require.Len(t, stored, 2)
	assert.Equal(t, "836", stored[0].ProdID)
	assert.Equal(t, "822", stored[1].ProdID)
	assert.GreaterOrEqual(t, flushes, 1)
}

func TestIngest_RetriesThenSucceeds(t *testing.T) {
	src := &fakeSource{queue: []kafka.Message{event(t, 1, "1", "a")}}
	wr := &fakeWriter{fail: 2}

	w := NewIngest(src, wr)
	w.BatchSize = 1

	cancel, done := runIngest(t, w)
	require.Eventually(t, func() bool { return src.committedCount() == 1 }, 3*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Len(t, wr.stored(), 1)
}

func TestIngest_GivesUpWithoutCommitting(t *testing.T) {
	src := &fakeSource{queue: []kafka.Message{event(t, 1, "1", "a")}}
	wr := &fakeWriter{fail: 100}

	w := NewIngest(src, wr)
	w.BatchSize = 1
	w.FlushRetries = 2

	cancel, done := runIngest(t, w)
	defer cancel()
	select {
	case err := <-done:
		assert.ErrorContains(t, err, "db down")
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, 0, src.committedCount())
}

func TestIngest_RequiresDependencies(t *testing.T) {
	err := (&Ingest{}).Run(context.Background())
	assert.Error(t, err)
}

func TestIngest_ShutdownDuringBackoffKeepsBatch(t *testing.T) {
	src := &fakeSource{}
	wr := &fakeWriter{fail: 1}
	w := NewIngest(src, wr)

	b := &batch{}
	b.add(event(t, 7, "43659", "776"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.flush(ctx, b)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, b.msgs, 1)
	assert.Equal(t, 0, src.committedCount())

	// shutdown hands the kept batch to the final flush instead of failing
	require.NoError(t, w.stop(ctx, b, err))
	assert.Equal(t, 1, src.committedCount())
	require.Len(t, wr.stored(), 1)
	assert.Equal(t, "776", wr.stored()[0].ProdID)
}

func TestIngest_NoBackoffAfterLastAttempt(t *testing.T) {
	w := NewIngest(&fakeSource{}, &fakeWriter{fail: 100})
	w.FlushRetries = 1

	b := &batch{}
	b.add(event(t, 1, "1", "a"))

	start := time.Now()
	err := w.flush(context.Background(), b)
	assert.ErrorContains(t, err, "db down")
	assert.Less(t, time.Since(start), 80*time.Millisecond)
}

func TestIngest_StopPassesThroughFailures(t *testing.T) {
	w := NewIngest(&fakeSource{}, &fakeWriter{})
	boom := errors.New("boom")
	assert.Equal(t, boom, w.stop(context.Background(), &batch{}, boom))
}
