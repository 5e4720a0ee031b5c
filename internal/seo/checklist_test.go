package seo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/seo"
)

// healthyMetrics returns a metrics map where every checklist item passes.
func healthyMetrics() domain.MetricsMap {
	return domain.MetricsMap{
		seo.MetricStatusCode:          200,
		seo.MetricNoindexDetected:     0,
		seo.MetricRobotsDisallowAll:   0,
		seo.MetricCanonicalPresent:    1,
		seo.MetricTitleLength:         55,
		seo.MetricMetaDescLength:      150,
		seo.MetricH1Count:             1,
		seo.MetricH2Count:             2,
		seo.MetricWordCount:           700,
		seo.MetricInternalLinks:       5,
		seo.MetricBrokenInternalLinks: 0,
		seo.MetricHTTPSEnabled:        1,
		seo.MetricMixedContentCount:   0,
		seo.MetricSitemapOK:           1,
		seo.MetricOGComplete:          1,
		seo.MetricLighthouseLCP:       1800,
		seo.MetricLighthouseCLS:       0.05,
		seo.MetricLighthouseTBT:       120,
		seo.MetricLighthouseSEO:       95,
	}
}

func auditWith(metrics domain.MetricsMap, url string) domain.AuditResult {
	return domain.AuditResult{URL: url, Metrics: metrics}
}

func itemByKey(t *testing.T, items []domain.ChecklistItem, key string) domain.ChecklistItem {
	t.Helper()
	for _, item := range items {
		if item.Key == key {
			return item
		}
	}
	t.Fatalf("checklist item %q not found", key)
	return domain.ChecklistItem{}
}

func TestBuildChecklist_OrderIsStable(t *testing.T) {
	t.Parallel()

	items := seo.BuildChecklist(auditWith(healthyMetrics(), "https://example.com/about"))

	want := []string{
		"http_200", "indexable", "robots", "canonical", "title_len",
		"meta_len", "clean_url", "single_h1", "h2_present", "content_depth",
		"internal_links", "broken_links", "https", "mixed_content", "sitemap",
		"lcp", "cls", "tbt", "open_graph", "lh_seo",
	}

	require.Len(t, items, len(want))
	for i, item := range items {
		assert.Equal(t, want[i], item.Key, "position %d", i)
	}
}

func TestBuildChecklist_HealthyPageAllPass(t *testing.T) {
	t.Parallel()

	items := seo.BuildChecklist(auditWith(healthyMetrics(), "https://example.com/about"))
	for _, item := range items {
		assert.True(t, item.Passed, "item %s should pass: value %q", item.Key, item.Value)
	}
}

func TestBuildChecklist_AbsentOptionalMetrics(t *testing.T) {
	t.Parallel()

	metrics := healthyMetrics()
	delete(metrics, seo.MetricLighthouseLCP)
	delete(metrics, seo.MetricLighthouseCLS)
	delete(metrics, seo.MetricLighthouseTBT)
	delete(metrics, seo.MetricLighthouseSEO)

	items := seo.BuildChecklist(auditWith(metrics, "https://example.com/about"))

	for _, key := range []string{"lcp", "cls", "tbt", "lh_seo"} {
		item := itemByKey(t, items, key)
		assert.True(t, item.Passed, "absent %s should pass", key)
		assert.Equal(t, domain.NotMeasured, item.Value, "absent %s value", key)
		assert.Equal(t, domain.BucketLater, item.Priority, "absent %s priority", key)
	}

	// Unconditional items are unaffected.
	assert.True(t, itemByKey(t, items, "http_200").Passed)
}

func TestBuildChecklist_OptionalMetricRendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		metricKey  string
		metric     float64
		wantValue  string
		wantPassed bool
	}{
		{"lcp within budget", "lcp", seo.MetricLighthouseLCP, 1800.7, "1800", true},
		{"lcp at budget", "lcp", seo.MetricLighthouseLCP, 2500, "2500", true},
		{"lcp over budget", "lcp", seo.MetricLighthouseLCP, 3100, "3100", false},
		{"cls within budget", "cls", seo.MetricLighthouseCLS, 0.05, "0.050", true},
		{"cls over budget", "cls", seo.MetricLighthouseCLS, 0.25, "0.250", false},
		{"tbt at budget", "tbt", seo.MetricLighthouseTBT, 200, "200", true},
		{"tbt over budget", "tbt", seo.MetricLighthouseTBT, 420, "420", false},
		{"lighthouse seo at pass mark", "lh_seo", seo.MetricLighthouseSEO, 90, "90", true},
		{"lighthouse seo below pass mark", "lh_seo", seo.MetricLighthouseSEO, 89, "89", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			metrics := healthyMetrics()
			metrics[tt.metricKey] = tt.metric

			item := itemByKey(t, seo.BuildChecklist(auditWith(metrics, "https://example.com/about")), tt.key)
			assert.Equal(t, tt.wantValue, item.Value)
			assert.Equal(t, tt.wantPassed, item.Passed)
		})
	}
}

func TestBuildChecklist_CleanURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		url        string
		wantValue  string
		wantPassed bool
	}{
		{"short path", "https://example.com/services/seo", "/services/seo", true},
		{"root without path", "https://example.com", "/", true},
		{"query string", "https://example.com/services?utm_source=x", "/services", false},
		{"long path", "https://example.com/" + strings.Repeat("a", 80), "/" + strings.Repeat("a", 80), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item := itemByKey(t, seo.BuildChecklist(auditWith(healthyMetrics(), tt.url)), "clean_url")
			assert.Equal(t, tt.wantValue, item.Value)
			assert.Equal(t, tt.wantPassed, item.Passed)
		})
	}
}

func TestBuildChecklist_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		metricKey  string
		metric     float64
		itemKey    string
		wantPassed bool
	}{
		{"title at lower bound", seo.MetricTitleLength, 50, "title_len", true},
		{"title at upper bound", seo.MetricTitleLength, 60, "title_len", true},
		{"title below range", seo.MetricTitleLength, 49, "title_len", false},
		{"title above range", seo.MetricTitleLength, 61, "title_len", false},
		{"meta at lower bound", seo.MetricMetaDescLength, 140, "meta_len", true},
		{"meta below range", seo.MetricMetaDescLength, 139, "meta_len", false},
		{"meta above range", seo.MetricMetaDescLength, 161, "meta_len", false},
		{"redirect status fails", seo.MetricStatusCode, 301, "http_200", false},
		{"two h1 tags fail", seo.MetricH1Count, 2, "single_h1", false},
		{"word count just under", seo.MetricWordCount, 599, "content_depth", false},
		{"word count at bound", seo.MetricWordCount, 600, "content_depth", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			metrics := healthyMetrics()
			metrics[tt.metricKey] = tt.metric

			item := itemByKey(t, seo.BuildChecklist(auditWith(metrics, "https://example.com/about")), tt.itemKey)
			assert.Equal(t, tt.wantPassed, item.Passed)
		})
	}
}

func TestBuildChecklist_EmptyMetrics(t *testing.T) {
	t.Parallel()

	items := seo.BuildChecklist(auditWith(domain.MetricsMap{}, "https://example.com/about"))
	require.Len(t, items, 20)

	// Absent unconditional metrics render as 0 and fail their targets.
	status := itemByKey(t, items, "http_200")
	assert.Equal(t, "0", status.Value)
	assert.False(t, status.Passed)

	// Zero noindex and zero broken links genuinely pass.
	assert.True(t, itemByKey(t, items, "indexable").Passed)
	assert.True(t, itemByKey(t, items, "broken_links").Passed)
}

func TestBuildChecklist_PriorityTiers(t *testing.T) {
	t.Parallel()

	items := seo.BuildChecklist(auditWith(healthyMetrics(), "https://example.com/about"))

	assert.Equal(t, domain.BucketDoNow, itemByKey(t, items, "http_200").Priority)
	assert.Equal(t, domain.BucketDoNow, itemByKey(t, items, "https").Priority)
	assert.Equal(t, domain.BucketThisWeek, itemByKey(t, items, "canonical").Priority)
	assert.Equal(t, domain.BucketLater, itemByKey(t, items, "clean_url").Priority)
	assert.Equal(t, domain.BucketLater, itemByKey(t, items, "open_graph").Priority)

	// Measured optional items keep their own tier instead of later.
	assert.Equal(t, domain.BucketDoNow, itemByKey(t, items, "lcp").Priority)
	assert.Equal(t, domain.BucketThisWeek, itemByKey(t, items, "tbt").Priority)
}
