// Package queue provides the Redis Streams audit work queue.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Default connection timeout for Redis operations.
	defaultConnectionTimeout = 2 * time.Second

	// DefaultStream is the stream audits are queued on.
	DefaultStream = "goseo:audits"
)

// StreamsClient wraps a Redis client bound to the audit stream.
type StreamsClient struct {
	client *redis.Client
	stream string
}

// StreamsConfig holds configuration for the Redis Streams client.
type StreamsConfig struct {
	Addr     string
	Password string `json:"-"`
	DB       int
	Stream   string // Stream key (e.g., "goseo:audits")
}

// NewStreamsClient creates a new Redis Streams client and verifies the
// connection with a ping.
func NewStreamsClient(cfg StreamsConfig) (*StreamsClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStreamsClientFromRedis(client, cfg.Stream), nil
}

// NewStreamsClientFromRedis creates a StreamsClient from an existing Redis client.
func NewStreamsClientFromRedis(client *redis.Client, stream string) *StreamsClient {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamsClient{
		client: client,
		stream: stream,
	}
}

// Stream returns the audit stream key.
func (c *StreamsClient) Stream() string {
	return c.stream
}

// Close closes the underlying Redis client.
func (c *StreamsClient) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable.
func (c *StreamsClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// CreateConsumerGroup creates a consumer group for the stream if it doesn't exist.
func (c *StreamsClient) CreateConsumerGroup(ctx context.Context, group string) error {
	// Try to create the group starting from the beginning of the stream
	err := c.client.XGroupCreateMkStream(ctx, c.stream, group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// XAdd adds a message to the stream, trimming approximately to maxLen when
// maxLen is positive.
func (c *StreamsClient) XAdd(ctx context.Context, values map[string]any, maxLen int64) (string, error) {
	result := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream,
		MaxLen: maxLen,
		Approx: maxLen > 0,
		Values: values,
	})
	return result.Result()
}

// XReadGroup reads new messages from the stream using a consumer group.
func (c *StreamsClient) XReadGroup(
	ctx context.Context, group, consumer string, count int64, block time.Duration,
) ([]redis.XStream, error) {
	result := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{c.stream, ">"},
		Count:    count,
		Block:    block,
	})
	return result.Result()
}

// XAck acknowledges messages in the stream.
func (c *StreamsClient) XAck(ctx context.Context, group string, ids ...string) error {
	return c.client.XAck(ctx, c.stream, group, ids...).Err()
}

// XLen returns the length of the stream.
func (c *StreamsClient) XLen(ctx context.Context) (int64, error) {
	return c.client.XLen(ctx, c.stream).Result()
}

// XTrimMaxLen trims the stream to a maximum length.
func (c *StreamsClient) XTrimMaxLen(ctx context.Context, maxLen int64) error {
	return c.client.XTrimMaxLen(ctx, c.stream, maxLen).Err()
}
