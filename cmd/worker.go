package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/metrics"
	"github.com/jonesrussell/goseo/internal/queue"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the audit queue consumer",
		Long:  "Consume queued audits from the Redis stream and drive them to completion.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorker(cmd.Context())
		},
	}
}

func runWorker(parent context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Redis.Addr == "" {
		return errors.New("redis.addr is required for the worker")
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Info("Database ready", "host", cfg.Database.Host, "database", cfg.Database.Database)

	client, err := queue.NewStreamsClient(queue.StreamsConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Stream:   cfg.Redis.Stream,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer client.Close()

	projects := database.NewProjectRepository(db)
	audits := database.NewAuditRepository(db)

	counters := metrics.NewMetrics()
	coordinator := newCoordinator(cfg, audits, projects, newMailer(cfg, log), log)

	consumer, err := queue.NewConsumer(client, coordinator, counters, log, queue.ConsumerConfig{
		ConsumerID: workerID(),
		Workers:    cfg.Audit.Workers,
		JobTimeout: cfg.Audit.JobTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	return consumer.Start(ctx)
}

// workerID derives the consumer identity from host and pid so parallel
// workers claim distinct stream entries.
func workerID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "goseo-worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
