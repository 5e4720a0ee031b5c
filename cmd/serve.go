package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/goseo/internal/api"
	"github.com/jonesrussell/goseo/internal/auth"
	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/dispatch"
	"github.com/jonesrussell/goseo/internal/maintenance"
	"github.com/jonesrussell/goseo/internal/metrics"
	"github.com/jonesrussell/goseo/internal/queue"
	"github.com/jonesrussell/goseo/internal/schedule"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the audit API server",
		Long:  "Run the HTTP API together with the schedule matcher and the maintenance janitor.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
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

	users := database.NewUserRepository(db)
	projects := database.NewProjectRepository(db)
	audits := database.NewAuditRepository(db)
	schedules := database.NewScheduleRepository(db)

	counters := metrics.NewMetrics()
	coordinator := newCoordinator(cfg, audits, projects, newMailer(cfg, log), log)
	local := dispatch.NewLocalDispatcher(coordinator, counters, log, cfg.Audit.JobTimeout)

	// Queue dispatch is preferred; a missing or unreachable Redis degrades
	// to in-process audit runs.
	var dispatcher dispatch.Dispatcher = local
	var trimmer maintenance.StreamTrimmer
	if cfg.Redis.Addr != "" {
		client, redisErr := queue.NewStreamsClient(queue.StreamsConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Stream:   cfg.Redis.Stream,
		})
		if redisErr != nil {
			log.Warn("Redis unavailable, audits will run in-process", "error", redisErr)
		} else {
			defer client.Close()

			producer := queue.NewProducer(client, queue.ProducerConfig{})
			dispatcher = dispatch.NewFallbackDispatcher(dispatch.NewQueueDispatcher(producer), local, log)
			trimmer = producer
			log.Info("Queue dispatch enabled", "addr", cfg.Redis.Addr, "stream", client.Stream())
		}
	}

	janitor := maintenance.NewJanitor(audits, trimmer, maintenance.Config{
		Schedule:  cfg.Maintenance.Schedule,
		Retention: cfg.Maintenance.Retention,
	}, log)
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("failed to start janitor: %w", err)
	}
	defer janitor.Stop()

	var matcher *schedule.Matcher
	if cfg.Scheduler.Enabled {
		matcher = schedule.NewMatcher(schedules, audits, dispatcher, log, cfg.Scheduler.PollInterval)
		matcher.Start(ctx)
	}

	server := api.NewServer(cfg, log, api.Deps{
		Users:      users,
		Projects:   projects,
		Audits:     audits,
		Schedules:  schedules,
		Dispatcher: dispatcher,
		JWT:        auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration),
		Counters:   counters,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case serverErr := <-errCh:
		return serverErr
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	if matcher != nil {
		matcher.Wait()
	}

	log.Info("Server stopped")
	return <-errCh
}
