package perf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/inspect"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/seo"
)

// Timing keys the probe produces beyond the mobile load time consumed by
// the rule engine.
const (
	MetricDesktopTTFBMS = "timing_desktop_ttfb_ms"
	MetricDesktopLoadMS = "timing_desktop_load_ms"
	MetricMobileTTFBMS  = "timing_mobile_ttfb_ms"
)

// defaultProbeTimeout bounds one timing probe request.
const defaultProbeTimeout = 45 * time.Second

// maxProbeBodyBytes limits how much body the probe downloads while timing.
const maxProbeBodyBytes = 10 * 1024 * 1024 // 10 MB

// mobileUserAgent lets servers negotiate their mobile variant for the
// mobile probe.
const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) " +
	"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// TimingCollector measures response latency twice per audit, once with
// the audit user agent and once as a mobile browser. TTFB is the time to
// response headers; load includes reading the body.
type TimingCollector struct {
	httpClient *http.Client
	log        logger.Interface
	desktopUA  string
	mobileUA   string
}

// NewTimingCollector creates a timing collector. A nil httpClient gets a
// default client bounded by the probe timeout.
func NewTimingCollector(httpClient *http.Client, log logger.Interface, desktopUA string) *TimingCollector {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultProbeTimeout}
	}
	if desktopUA == "" {
		desktopUA = inspect.DefaultUserAgent
	}

	return &TimingCollector{
		httpClient: httpClient,
		log:        log,
		desktopUA:  desktopUA,
		mobileUA:   mobileUserAgent,
	}
}

// Collect runs the desktop and mobile probes. Any probe failure degrades
// the whole collector to an empty map.
func (t *TimingCollector) Collect(ctx context.Context, pageURL string) domain.MetricsMap {
	desktopTTFB, desktopLoad, err := t.probe(ctx, pageURL, t.desktopUA)
	if err != nil {
		t.log.Warn("desktop timing probe failed", "url", pageURL, "error", err)
		return domain.MetricsMap{}
	}

	mobileTTFB, mobileLoad, err := t.probe(ctx, pageURL, t.mobileUA)
	if err != nil {
		t.log.Warn("mobile timing probe failed", "url", pageURL, "error", err)
		return domain.MetricsMap{}
	}

	return domain.MetricsMap{
		MetricDesktopTTFBMS:    desktopTTFB,
		MetricDesktopLoadMS:    desktopLoad,
		MetricMobileTTFBMS:     mobileTTFB,
		seo.MetricMobileLoadMS: mobileLoad,
	}
}

// probe issues one GET and returns header latency and full-load latency
// in milliseconds.
func (t *TimingCollector) probe(ctx context.Context, pageURL, userAgent string) (ttfbMS, loadMS float64, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if reqErr != nil {
		return 0, 0, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", userAgent)

	start := time.Now()

	resp, doErr := t.httpClient.Do(req)
	if doErr != nil {
		return 0, 0, fmt.Errorf("probe fetch: %w", doErr)
	}
	defer resp.Body.Close()

	ttfb := time.Since(start)

	if _, copyErr := io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeBodyBytes)); copyErr != nil {
		return 0, 0, fmt.Errorf("read probe body: %w", copyErr)
	}

	load := time.Since(start)

	return float64(ttfb.Milliseconds()), float64(load.Milliseconds()), nil
}
