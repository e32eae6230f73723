package notify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/metrics"
)

var (
	ErrNoSinks   = errors.New("no sinks configured")
	ErrNoHealthy = errors.New("no healthy sinks")
	ErrNoAcquire = errors.New("sink not acquired")
)

// Publisher delivers a summary to one healthy sink, round-robin, retrying on
// another sink when a delivery fails.
type Publisher struct {
	sinks       []Sink
	rr          atomic.Uint64
	maxAttempts int
}

func NewPublisher(sinks []Sink, maxAttempts int) *Publisher {
	if maxAttempts < 1 {
		maxAttempts = 2
	}
	return &Publisher{sinks: sinks, maxAttempts: maxAttempts}
}

func (p *Publisher) selectSink() (Sink, error) {
	healthy := make([]Sink, 0, len(p.sinks))
	for _, s := range p.sinks {
		if s.Ready() {
			healthy = append(healthy, s)
		}
	}
	if len(healthy) == 0 {
		return nil, ErrNoHealthy
	}

	x := p.rr.Add(1)
	return healthy[int((x-1)%uint64(len(healthy)))], nil
}

func (p *Publisher) tryOnce(ctx context.Context, sum Summary) (string, error) {
	s, err := p.selectSink()
	if err != nil {
		return "", err
	}
	if !s.Acquire() {
		return s.Name(), ErrNoAcquire
	}
	if err := s.Send(ctx, sum); err != nil {
		metrics.NotifyTotal.WithLabelValues(s.Name(), "failed").Inc()
		return s.Name(), err
	}
	metrics.NotifyTotal.WithLabelValues(s.Name(), "sent").Inc()
	return s.Name(), nil
}

// Publish returns the name of the sink that accepted the summary.
func (p *Publisher) Publish(ctx context.Context, sum Summary) (string, error) {
	if len(p.sinks) == 0 {
		return "", ErrNoSinks
	}

	var last error
	for i := 0; i < p.maxAttempts; i++ {
		name, err := p.tryOnce(ctx, sum)
		if err == nil {
			return name, nil
		}
		last = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("publish summary: %w", last)
}

// FromConfig builds a publisher over the enabled sinks.
func FromConfig(cfg config.NotifyConfig) *Publisher {
	var sinks []Sink
	for _, s := range cfg.Sinks {
		if !s.Enabled || s.URL == "" {
			continue
		}
		sinks = append(sinks, NewWebhookSink(s.Name, s.URL, s.TimeoutMs, s.Breaker.FailThreshold, s.Breaker.OpenForMs))
	}
	return NewPublisher(sinks, cfg.Attempts)
}
