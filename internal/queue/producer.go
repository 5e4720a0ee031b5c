package queue

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// AuditIDField is the field name carrying the audit id in stream messages.
	AuditIDField = "audit_id"

	// EnqueuedAtField is the field name for the enqueue timestamp.
	EnqueuedAtField = "enqueued_at"

	// Default max stream length to prevent unbounded growth.
	defaultMaxStreamLen = 10000
)

// Producer enqueues audit ids onto the Redis stream.
type Producer struct {
	client       *StreamsClient
	maxStreamLen int64
}

// ProducerConfig holds configuration for the Producer.
type ProducerConfig struct {
	MaxStreamLen int64 // Maximum stream length (0 = default)
}

// NewProducer creates a new audit producer.
func NewProducer(client *StreamsClient, cfg ProducerConfig) *Producer {
	maxLen := cfg.MaxStreamLen
	if maxLen <= 0 {
		maxLen = defaultMaxStreamLen
	}

	return &Producer{
		client:       client,
		maxStreamLen: maxLen,
	}
}

// Enqueue adds an audit id to the stream. The payload is just the id; the
// worker loads everything else from the audit row.
func (p *Producer) Enqueue(ctx context.Context, auditID string) (string, error) {
	if auditID == "" {
		return "", errors.New("audit id cannot be empty")
	}

	values := map[string]any{
		AuditIDField:    auditID,
		EnqueuedAtField: time.Now().UTC().Format(time.RFC3339),
	}

	messageID, err := p.client.XAdd(ctx, values, p.maxStreamLen)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue audit %s: %w", auditID, err)
	}

	return messageID, nil
}

// TrimStream trims the stream to the configured maximum length.
func (p *Producer) TrimStream(ctx context.Context) error {
	return p.client.XTrimMaxLen(ctx, p.maxStreamLen)
}

// QueueDepth returns the current stream length.
func (p *Producer) QueueDepth(ctx context.Context) (int64, error) {
	return p.client.XLen(ctx)
}
