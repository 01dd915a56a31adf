// Package events publishes request audit events to Kafka so downstream
// analytics can track budgets and suggestion outcomes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// RequestEvent records one completed detect or generate request.
type RequestEvent struct {
	RequestID       string    `json:"requestId"`
	Kind            string    `json:"kind"`
	Budget          int       `json:"budget"`
	Categories      []string  `json:"categories,omitempty"`
	SuggestionCount int       `json:"suggestionCount"`
	RemainingBudget int       `json:"remainingBudget"`
	Ts              time.Time `json:"ts"`
}

type Publisher interface {
	Publish(ctx context.Context, ev RequestEvent) error
	Close() error
}

type KafkaPublisherConfig struct {
	Brokers []string
	Topic   string
	// MaxAttempts is retries per Publish; defaults to 3 if <= 0.
	MaxAttempts int
	// WriteTimeout is the per-attempt write timeout; defaults to 10s.
	WriteTimeout time.Duration
}

// KafkaPublisher wraps a kafka-go Writer with bounded retries. Events for
// the same request key land on the same partition (hash balancer).
type KafkaPublisher struct {
	writer      *kafka.Writer
	maxAttempts int
}

func NewKafkaPublisher(cfg KafkaPublisherConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		Async:        false,
	})
	return &KafkaPublisher{writer: w, maxAttempts: cfg.MaxAttempts}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev RequestEvent) error {
	if ev.Ts.IsZero() {
		ev.Ts = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.RequestID),
		Value: value,
		Time:  ev.Ts,
	}

	var lastErr error
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := p.writer.WriteMessages(attemptCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(backoff)
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
	return fmt.Errorf("publish failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Noop discards events; used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, ev RequestEvent) error { return nil }
func (Noop) Close() error                                       { return nil }
