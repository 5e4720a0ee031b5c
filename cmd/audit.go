package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/dispatch"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/report"
)

func newAuditCmd() *cobra.Command {
	var auditURL string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit a single page and print the findings",
		Long:  "Run one audit inline, without the API or a database, and print issues, checklist and score as tables.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd.Context(), auditURL)
		},
	}

	cmd.Flags().StringVar(&auditURL, "url", "", "page URL to audit (required)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runAudit(parent context.Context, auditURL string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Audit.JobTimeout)
	defer cancel()

	store := &memAuditStore{}
	run := &domain.AuditResult{
		ID:     uuid.NewString(),
		URL:    auditURL,
		Status: domain.AuditStatusQueued,
	}
	store.audit = run

	coordinator := newCoordinator(cfg, store, memProjectStore{}, nil, log)
	dispatcher := dispatch.NewSyncDispatcher(coordinator)

	if err := dispatcher.Dispatch(ctx, run.ID); err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	final, err := store.GetByID(ctx, run.ID)
	if err != nil {
		return err
	}

	report.RenderTable(final, os.Stdout)
	return nil
}

// memAuditStore keeps the single one-shot audit in memory. The coordinator
// persists state transitions through it exactly as it would through the
// repository.
type memAuditStore struct {
	audit *domain.AuditResult
}

func (s *memAuditStore) GetByID(_ context.Context, id string) (*domain.AuditResult, error) {
	if s.audit == nil || s.audit.ID != id {
		return nil, database.ErrAuditNotFound
	}

	clone := *s.audit
	return &clone, nil
}

func (s *memAuditStore) MarkStatus(_ context.Context, id string, status domain.AuditStatus) error {
	if s.audit == nil || s.audit.ID != id {
		return database.ErrAuditNotFound
	}

	s.audit.Status = status
	return nil
}

func (s *memAuditStore) CompleteAudit(_ context.Context, audit *domain.AuditResult) error {
	clone := *audit
	s.audit = &clone
	return nil
}

// memProjectStore backs the notify path, which the one-shot never takes:
// the command runs with a nil notifier.
type memProjectStore struct{}

func (memProjectStore) GetByID(_ context.Context, _ string) (*domain.Project, error) {
	return nil, database.ErrProjectNotFound
}
