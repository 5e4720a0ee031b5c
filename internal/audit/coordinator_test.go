package audit

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/perf"
	"github.com/jonesrussell/goseo/internal/seo"
)

type stubAuditStore struct {
	audit       *domain.AuditResult
	getErr      error
	marked      []domain.AuditStatus
	markErr     error
	completed   *domain.AuditResult
	completeErr error
}

func (s *stubAuditStore) GetByID(_ context.Context, _ string) (*domain.AuditResult, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	copied := *s.audit
	return &copied, nil
}

func (s *stubAuditStore) MarkStatus(_ context.Context, _ string, status domain.AuditStatus) error {
	s.marked = append(s.marked, status)
	return s.markErr
}

func (s *stubAuditStore) CompleteAudit(_ context.Context, audit *domain.AuditResult) error {
	if s.completeErr != nil {
		return s.completeErr
	}
	copied := *audit
	s.completed = &copied
	return nil
}

type stubProjectStore struct {
	project *domain.Project
	err     error
}

func (s *stubProjectStore) GetByID(_ context.Context, _ string) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}

type stubInspector struct {
	snapshot domain.PageSnapshot
	err      error
}

func (s *stubInspector) Inspect(_ context.Context, _ string) (domain.PageSnapshot, error) {
	return s.snapshot, s.err
}

type staticCollector domain.MetricsMap

func (c staticCollector) Collect(_ context.Context, _ string) domain.MetricsMap {
	return domain.MetricsMap(c)
}

type stubNotifier struct {
	enabled   bool
	err       error
	recipient string
	pdf       []byte
}

func (n *stubNotifier) Enabled() bool { return n.enabled }

func (n *stubNotifier) SendAuditReport(recipient string, _ *domain.AuditResult, pdf []byte) error {
	n.recipient = recipient
	n.pdf = pdf
	return n.err
}

func queuedAudit() *domain.AuditResult {
	return &domain.AuditResult{
		ID:        "audit-1",
		ProjectID: "project-1",
		URL:       "https://example.com/pricing",
		Status:    domain.AuditStatusQueued,
	}
}

func healthySnapshot() domain.PageSnapshot {
	return domain.PageSnapshot{
		StatusCode:      200,
		ResponseMS:      420,
		FinalURL:        "https://example.com/pricing",
		HTTPSEnabled:    true,
		Title:            strings.Repeat("t", 55),
		MetaDescription:  strings.Repeat("m", 150),
		Canonical:        "https://example.com/pricing",
		OGTitle:          "Pricing",
		OGDescription:    "Plans and pricing",
		H1Count:          1,
		H2Count:          3,
		ImagesWithoutAlt: 3,
		WordCount:        900,
		InternalLinks:    12,
		SitemapOK:        true,
	}
}

func TestRun_CompletesAudit(t *testing.T) {
	store := &stubAuditStore{audit: queuedAudit()}
	collector := staticCollector{seo.MetricLighthouseSEO: 95}
	coord := NewCoordinator(
		store,
		&stubProjectStore{project: &domain.Project{ID: "project-1"}},
		&stubInspector{snapshot: healthySnapshot()},
		[]perf.Collector{collector},
		nil,
		logger.NewNoOp(),
	)

	err := coord.Run(context.Background(), "audit-1")
	require.NoError(t, err)

	assert.Equal(t, []domain.AuditStatus{domain.AuditStatusRunning}, store.marked)

	require.NotNil(t, store.completed)
	done := store.completed
	assert.Equal(t, domain.AuditStatusCompleted, done.Status)
	require.NotNil(t, done.Score)
	require.NotNil(t, done.FinishedAt)
	assert.Len(t, done.Checklist, 20)
	assert.NotEmpty(t, done.Recommendations)

	assert.Equal(t, 95.0, done.Metrics[seo.MetricLighthouseSEO])
	assert.Equal(t, float64(*done.Score), done.Metrics[seo.MetricHybridScore])
	assert.Contains(t, done.Metrics, seo.MetricIssueScore)
	assert.Contains(t, done.Metrics, seo.MetricChecklistScore)
	assert.Equal(t, 200.0, done.Metrics[seo.MetricStatusCode])
}

func TestRun_UnknownAuditDropped(t *testing.T) {
	store := &stubAuditStore{getErr: database.ErrAuditNotFound}
	coord := NewCoordinator(store, &stubProjectStore{}, &stubInspector{}, nil, nil, logger.NewNoOp())

	err := coord.Run(context.Background(), "gone")
	require.NoError(t, err)
	assert.Empty(t, store.marked)
	assert.Nil(t, store.completed)
}

func TestRun_InspectFailurePersistsFailed(t *testing.T) {
	store := &stubAuditStore{audit: queuedAudit()}
	coord := NewCoordinator(
		store,
		&stubProjectStore{},
		&stubInspector{err: errors.New("connect timeout")},
		nil,
		nil,
		logger.NewNoOp(),
	)

	err := coord.Run(context.Background(), "audit-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect timeout")

	require.NotNil(t, store.completed)
	done := store.completed
	assert.Equal(t, domain.AuditStatusFailed, done.Status)
	require.NotNil(t, done.Error)
	assert.Contains(t, *done.Error, "connect timeout")
	require.NotNil(t, done.FinishedAt)
	assert.Nil(t, done.Score)
	assert.Empty(t, done.Issues)
	assert.Empty(t, done.Checklist)
}

func TestRun_FailureReasonTruncated(t *testing.T) {
	store := &stubAuditStore{audit: queuedAudit()}
	coord := NewCoordinator(
		store,
		&stubProjectStore{},
		&stubInspector{err: errors.New(strings.Repeat("x", 1500))},
		nil,
		nil,
		logger.NewNoOp(),
	)

	err := coord.Run(context.Background(), "audit-1")
	require.Error(t, err)

	require.NotNil(t, store.completed)
	require.NotNil(t, store.completed.Error)
	assert.Len(t, *store.completed.Error, maxErrorLength)
}

func TestRun_NotifiesProjectEmail(t *testing.T) {
	email := "owner@example.com"
	store := &stubAuditStore{audit: queuedAudit()}
	notifier := &stubNotifier{enabled: true}
	coord := NewCoordinator(
		store,
		&stubProjectStore{project: &domain.Project{ID: "project-1", NotifyEmail: &email}},
		&stubInspector{snapshot: healthySnapshot()},
		nil,
		notifier,
		logger.NewNoOp(),
	)

	err := coord.Run(context.Background(), "audit-1")
	require.NoError(t, err)

	assert.Equal(t, email, notifier.recipient)
	assert.True(t, bytes.HasPrefix(notifier.pdf, []byte("%PDF-")), "attachment should be a PDF")
}

func TestRun_NotifyFailureKeptCompleted(t *testing.T) {
	email := "owner@example.com"
	store := &stubAuditStore{audit: queuedAudit()}
	notifier := &stubNotifier{enabled: true, err: errors.New("smtp unreachable")}
	coord := NewCoordinator(
		store,
		&stubProjectStore{project: &domain.Project{ID: "project-1", NotifyEmail: &email}},
		&stubInspector{snapshot: healthySnapshot()},
		nil,
		notifier,
		logger.NewNoOp(),
	)

	err := coord.Run(context.Background(), "audit-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AuditStatusCompleted, store.completed.Status)
}

func TestRun_SkipsNotifyWithoutAddress(t *testing.T) {
	store := &stubAuditStore{audit: queuedAudit()}
	notifier := &stubNotifier{enabled: true}
	coord := NewCoordinator(
		store,
		&stubProjectStore{project: &domain.Project{ID: "project-1"}},
		&stubInspector{snapshot: healthySnapshot()},
		nil,
		notifier,
		logger.NewNoOp(),
	)

	err := coord.Run(context.Background(), "audit-1")
	require.NoError(t, err)
	assert.Empty(t, notifier.recipient)
}
