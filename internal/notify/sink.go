package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sink receives snapshot summaries.
type Sink interface {
	Name() string
	Ready() bool
	Acquire() bool
	Send(ctx context.Context, s Summary) error
}

// WebhookSink POSTs the summary as JSON. Slack-style incoming webhooks read
// the "text" field; other receivers get the structured fields too.
type WebhookSink struct {
	name   string
	url    string
	client *http.Client
	br     *Breaker
}

func NewWebhookSink(name, url string, timeoutMs, failThreshold, openForMs int) *WebhookSink {
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}
	if openForMs <= 0 {
		openForMs = 15000
	}

	return &WebhookSink{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:     NewBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

func (s *WebhookSink) Name() string  { return s.name }
func (s *WebhookSink) Ready() bool   { return s.br.Ready() }
func (s *WebhookSink) Acquire() bool { return s.br.TryAcquire() }

func (s *WebhookSink) Send(ctx context.Context, sum Summary) error {
	if err := s.post(ctx, sum); err != nil {
		s.br.OnFailure()
		return err
	}
	s.br.OnSuccess()
	return nil
}

func (s *WebhookSink) post(ctx context.Context, sum Summary) error {
	b, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("sink=%s status=%d", s.name, res.StatusCode)
	}
	return nil
}
