package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goseo/internal/domain"
)

func completedAudit() *domain.AuditResult {
	score := 83
	return &domain.AuditResult{
		ID:        "audit-1",
		ProjectID: "project-1",
		URL:       "https://example.com/pricing",
		Status:    domain.AuditStatusCompleted,
		Score:     &score,
		Issues: domain.IssueList{
			{
				Key:           "missing_title",
				Title:         "Missing title tag",
				Details:       "Search engines rely on the title for ranking and display.",
				Severity:      domain.SeverityCritical,
				Impact:        domain.ImpactHigh,
				Effort:        domain.EffortEasy,
				FixSuggestion: "Add a unique 50-60 character title.",
				Confidence:    0.95,
				PriorityScore: 9.0,
			},
		},
		Recommendations: domain.RecommendationList{
			{
				Title:         "Missing title tag",
				Reason:        "Search engines rely on the title for ranking and display.",
				Action:        "Add a unique 50-60 character title.",
				Bucket:        domain.BucketDoNow,
				PriorityScore: 9.0,
			},
		},
		Checklist: domain.ChecklistItems{
			{Key: "http_200", Label: "HTTP status is 200", Target: "status = 200", Value: "200", Passed: true, Priority: domain.BucketDoNow},
			{Key: "title_len", Label: "Title length", Target: "50-60", Value: "0", Passed: false, Priority: domain.BucketThisWeek},
		},
		Metrics: domain.MetricsMap{"status_code": 200},
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer

	err := RenderPDF(completedAudit(), &buf)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output should be a PDF document")
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderPDF_RebuildsEmptyChecklist(t *testing.T) {
	audit := completedAudit()
	audit.Checklist = nil

	var buf bytes.Buffer
	err := RenderPDF(audit, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFBytes(t *testing.T) {
	pdf, err := PDFBytes(completedAudit())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRenderTable(t *testing.T) {
	var sb strings.Builder

	RenderTable(completedAudit(), &sb)

	out := sb.String()
	assert.Contains(t, out, "URL:    https://example.com/pricing")
	assert.Contains(t, out, "Score:  83")
	assert.Contains(t, out, "HTTP status is 200")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Missing title tag")
	assert.Contains(t, out, "9.0")
}

func TestRenderTable_FailedAudit(t *testing.T) {
	reason := "fetch https://example.com: connect timeout"
	audit := &domain.AuditResult{
		ID:     "audit-2",
		URL:    "https://example.com",
		Status: domain.AuditStatusFailed,
		Error:  &reason,
	}

	var sb strings.Builder
	RenderTable(audit, &sb)

	out := sb.String()
	assert.Contains(t, out, "Status: failed")
	assert.Contains(t, out, "Score:  -")
	assert.Contains(t, out, "connect timeout")
	assert.NotContains(t, out, "PASS")
}
