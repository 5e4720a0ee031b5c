package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goseo/internal/dispatch"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/metrics"
)

type stubRunner struct {
	err     error
	gotID   chan string
	gotDead chan bool
}

func newStubRunner(err error) *stubRunner {
	return &stubRunner{
		err:     err,
		gotID:   make(chan string, 1),
		gotDead: make(chan bool, 1),
	}
}

func (s *stubRunner) Run(ctx context.Context, auditID string) error {
	_, hasDeadline := ctx.Deadline()
	s.gotID <- auditID
	s.gotDead <- hasDeadline
	return s.err
}

type stubDispatcher struct {
	err    error
	called []string
}

func (s *stubDispatcher) Dispatch(_ context.Context, auditID string) error {
	s.called = append(s.called, auditID)
	return s.err
}

func TestLocalDispatcher_RunsDetached(t *testing.T) {
	runner := newStubRunner(nil)
	counters := metrics.NewMetrics()
	d := dispatch.NewLocalDispatcher(runner, counters, logger.NewNoOp(), 0)

	require.NoError(t, d.Dispatch(context.Background(), "audit-1"))

	select {
	case id := <-runner.gotID:
		assert.Equal(t, "audit-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("runner was never invoked")
	}
	assert.True(t, <-runner.gotDead, "run context should carry a deadline")

	assert.Eventually(t, func() bool {
		return counters.Snapshot().CompletedCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestLocalDispatcher_FailureCounted(t *testing.T) {
	runner := newStubRunner(errors.New("http fetch: connection refused"))
	counters := metrics.NewMetrics()
	d := dispatch.NewLocalDispatcher(runner, counters, logger.NewNoOp(), time.Minute)

	require.NoError(t, d.Dispatch(context.Background(), "audit-1"))

	assert.Eventually(t, func() bool {
		snap := counters.Snapshot()
		return snap.FailedCount == 1 && snap.CompletedCount == 0
	}, time.Second, 10*time.Millisecond)
}

func TestFallbackDispatcher_PrimaryAccepts(t *testing.T) {
	primary := &stubDispatcher{}
	fallback := &stubDispatcher{}
	d := dispatch.NewFallbackDispatcher(primary, fallback, logger.NewNoOp())

	require.NoError(t, d.Dispatch(context.Background(), "audit-1"))

	assert.Equal(t, []string{"audit-1"}, primary.called)
	assert.Empty(t, fallback.called)
}

func TestFallbackDispatcher_DegradesToFallback(t *testing.T) {
	primary := &stubDispatcher{err: errors.New("queue dispatch: connection refused")}
	fallback := &stubDispatcher{}
	d := dispatch.NewFallbackDispatcher(primary, fallback, logger.NewNoOp())

	require.NoError(t, d.Dispatch(context.Background(), "audit-1"))

	assert.Equal(t, []string{"audit-1"}, fallback.called)
}

func TestFallbackDispatcher_BothFail(t *testing.T) {
	primary := &stubDispatcher{err: errors.New("queue down")}
	fallback := &stubDispatcher{err: errors.New("runner saturated")}
	d := dispatch.NewFallbackDispatcher(primary, fallback, logger.NewNoOp())

	err := d.Dispatch(context.Background(), "audit-1")
	assert.EqualError(t, err, "runner saturated")
}

func TestSyncDispatcher_RunsInline(t *testing.T) {
	runner := newStubRunner(errors.New("boom"))
	d := dispatch.NewSyncDispatcher(runner)

	err := d.Dispatch(context.Background(), "audit-1")

	assert.EqualError(t, err, "boom")
	assert.Equal(t, "audit-1", <-runner.gotID)
}
