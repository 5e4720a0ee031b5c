package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/metrics"
)

const (
	// Default consumer group name.
	defaultConsumerGroup = "goseo-workers"

	// Default block timeout for reading from the stream.
	defaultBlockTimeout = 5 * time.Second

	// Default count of messages to read per batch.
	defaultBatchSize = 10

	// Default number of worker goroutines.
	defaultWorkers = 4

	// Default wall-clock budget for a single audit run. A run that exceeds it
	// fails with the context error captured in the audit row.
	defaultJobTimeout = 20 * time.Minute
)

// AuditRunner drives one audit to its terminal state. A non-nil error means
// the run ended failed; the failure itself is already captured in the audit
// row, so the consumer only counts and logs it.
type AuditRunner interface {
	Run(ctx context.Context, auditID string) error
}

// Consumer reads audit ids from the stream and hands them to the runner.
type Consumer struct {
	client       *StreamsClient
	runner       AuditRunner
	counters     *metrics.Metrics
	log          logger.Interface
	group        string
	consumerID   string
	workers      int
	blockTimeout time.Duration
	batchSize    int64
	jobTimeout   time.Duration
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Group        string        // Consumer group name (default "goseo-workers")
	ConsumerID   string        // Unique consumer identifier (required)
	Workers      int           // Worker goroutines (default 4)
	BlockTimeout time.Duration // Block timeout for reads (0 = default)
	BatchSize    int64         // Messages per read (0 = default)
	JobTimeout   time.Duration // Per-audit budget (0 = default 20m)
}

// NewConsumer creates a new audit consumer.
func NewConsumer(
	client *StreamsClient,
	runner AuditRunner,
	counters *metrics.Metrics,
	log logger.Interface,
	cfg ConsumerConfig,
) (*Consumer, error) {
	if cfg.ConsumerID == "" {
		return nil, errors.New("consumer ID is required")
	}

	group := cfg.Group
	if group == "" {
		group = defaultConsumerGroup
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	blockTimeout := cfg.BlockTimeout
	if blockTimeout <= 0 {
		blockTimeout = defaultBlockTimeout
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	jobTimeout := cfg.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}

	return &Consumer{
		client:       client,
		runner:       runner,
		counters:     counters,
		log:          log,
		group:        group,
		consumerID:   cfg.ConsumerID,
		workers:      workers,
		blockTimeout: blockTimeout,
		batchSize:    batchSize,
		jobTimeout:   jobTimeout,
	}, nil
}

// Start creates the consumer group and runs the worker goroutines until the
// context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.client.CreateConsumerGroup(ctx, c.group); err != nil {
		return fmt.Errorf("ensure consumer group: %w", err)
	}

	c.log.Info("Starting audit consumer",
		"consumer_id", c.consumerID,
		"group", c.group,
		"workers", c.workers,
	)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			c.consumeLoop(ctx, fmt.Sprintf("%s-%d", c.consumerID, worker))
		}(i)
	}
	wg.Wait()

	c.log.Info("Audit consumer stopped", "consumer_id", c.consumerID)
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.readAndProcess(ctx, consumer)
		}
	}
}

func (c *Consumer) readAndProcess(ctx context.Context, consumer string) {
	streams, err := c.client.XReadGroup(ctx, c.group, consumer, c.batchSize, c.blockTimeout)
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
			return
		}
		c.log.Error("Failed to read from stream", "error", err)
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			c.processMessage(ctx, msg)
		}
	}
}

// processMessage runs one audit under the job timeout. Every message is
// acknowledged: failures live in the audit row, not in stream redelivery.
func (c *Consumer) processMessage(ctx context.Context, msg redis.XMessage) {
	auditID, ok := msg.Values[AuditIDField].(string)
	if !ok || auditID == "" {
		c.log.Error("Invalid message format", "stream_id", msg.ID)
		c.ackMessage(ctx, msg.ID)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	runErr := c.runner.Run(runCtx, auditID)
	cancel()

	if runErr != nil {
		c.counters.IncFailed()
		c.log.Error("Audit run failed",
			"audit_id", auditID,
			"stream_id", msg.ID,
			"error", runErr,
		)
	} else {
		c.counters.IncCompleted()
		c.log.Info("Audit run finished",
			"audit_id", auditID,
			"stream_id", msg.ID,
		)
	}

	c.ackMessage(ctx, msg.ID)
}

func (c *Consumer) ackMessage(ctx context.Context, streamID string) {
	if err := c.client.XAck(ctx, c.group, streamID); err != nil {
		c.log.Error("Failed to ACK message", "stream_id", streamID, "error", err)
	}
}
