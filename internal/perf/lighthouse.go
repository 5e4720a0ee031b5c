package perf

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/seo"
)

// lighthouseTimeout bounds one Lighthouse run; cold Chrome starts are slow.
const lighthouseTimeout = 240 * time.Second

// chromeFlags keep the bundled Chrome usable inside containers.
const chromeFlags = "--headless --no-sandbox --disable-dev-shm-usage"

// percentScale converts Lighthouse 0..1 category scores to 0..100.
const percentScale = 100

// LighthouseRunner executes a Lighthouse audit and returns its JSON report.
type LighthouseRunner interface {
	Run(ctx context.Context, pageURL string) ([]byte, error)
}

// NPXRunner shells out to the lighthouse CLI via npx.
type NPXRunner struct{}

// Run executes npx lighthouse with JSON output on stdout.
func (NPXRunner) Run(ctx context.Context, pageURL string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "npx", "lighthouse", pageURL,
		"--quiet",
		"--output=json",
		"--output-path=stdout",
		"--chrome-flags="+chromeFlags,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run lighthouse: %w", err)
	}
	return out, nil
}

// LighthouseCollector extracts category scores and core web vitals from a
// Lighthouse run. Disabled or failed runs yield an empty map.
type LighthouseCollector struct {
	runner  LighthouseRunner
	log     logger.Interface
	enabled bool
	timeout time.Duration
}

// NewLighthouseCollector creates a Lighthouse collector. A nil runner gets
// the npx CLI runner.
func NewLighthouseCollector(runner LighthouseRunner, log logger.Interface, enabled bool) *LighthouseCollector {
	if runner == nil {
		runner = NPXRunner{}
	}

	return &LighthouseCollector{
		runner:  runner,
		log:     log,
		enabled: enabled,
		timeout: lighthouseTimeout,
	}
}

// Collect runs Lighthouse against the URL and flattens the report.
func (l *LighthouseCollector) Collect(ctx context.Context, pageURL string) domain.MetricsMap {
	if !l.enabled {
		return domain.MetricsMap{}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	out, err := l.runner.Run(ctx, pageURL)
	if err != nil {
		l.log.Warn("lighthouse run failed", "url", pageURL, "error", err)
		return domain.MetricsMap{}
	}

	metrics, err := parseReport(out)
	if err != nil {
		l.log.Warn("lighthouse report unreadable", "url", pageURL, "error", err)
		return domain.MetricsMap{}
	}

	return metrics
}

// lighthouseReport mirrors the slice of the Lighthouse JSON we consume.
type lighthouseReport struct {
	Categories map[string]struct {
		Score *float64 `json:"score"`
	} `json:"categories"`
	Audits map[string]struct {
		NumericValue *float64 `json:"numericValue"`
	} `json:"audits"`
}

// parseReport flattens a Lighthouse JSON report into the metrics map.
// Missing categories and audits record as zero rather than dropping keys.
func parseReport(out []byte) (domain.MetricsMap, error) {
	var report lighthouseReport
	if err := json.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("parse lighthouse output: %w", err)
	}

	return domain.MetricsMap{
		seo.MetricLighthousePerformance:   report.categoryScore("performance"),
		seo.MetricLighthouseAccessibility: report.categoryScore("accessibility"),
		seo.MetricLighthouseBestPractices: report.categoryScore("best-practices"),
		seo.MetricLighthouseSEO:           report.categoryScore("seo"),
		seo.MetricLighthouseLCP:           report.auditValue("largest-contentful-paint"),
		seo.MetricLighthouseCLS:           report.auditValue("cumulative-layout-shift"),
		seo.MetricLighthouseTBT:           report.auditValue("total-blocking-time"),
	}, nil
}

func (r lighthouseReport) categoryScore(name string) float64 {
	category, ok := r.Categories[name]
	if !ok || category.Score == nil {
		return 0
	}
	return *category.Score * percentScale
}

func (r lighthouseReport) auditValue(name string) float64 {
	audit, ok := r.Audits[name]
	if !ok || audit.NumericValue == nil {
		return 0
	}
	return *audit.NumericValue
}
