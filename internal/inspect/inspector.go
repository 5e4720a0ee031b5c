// Package inspect fetches a single page and derives the structural and
// content signals the audit rules evaluate: head metadata, headings,
// links, security posture, and site-level robots and sitemap state.
package inspect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/goseo/internal/domain"
)

// DefaultUserAgent identifies audit traffic to the inspected site.
const DefaultUserAgent = "goseo-bot/1.0"

// defaultPageTimeout bounds the main page fetch; supporting requests
// (robots.txt, sitemap.xml, link probes) run on the shorter helperTimeout.
const (
	defaultPageTimeout = 12 * time.Second
	helperTimeout      = 6 * time.Second
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// maxProbedLinks caps how many unique internal targets get probed for
// broken-link detection on each audit.
const maxProbedLinks = 8

// LinkProber reports how many of the given URLs are unreachable or error.
type LinkProber interface {
	BrokenCount(ctx context.Context, urls []string) int
}

// RobotsPolicy reports whether an origin's robots.txt blocks all crawling.
type RobotsPolicy interface {
	DisallowsAll(ctx context.Context, origin string) bool
}

// SitemapValidator reports whether an origin serves a valid XML sitemap.
type SitemapValidator interface {
	IsValid(ctx context.Context, origin string) bool
}

// InspectorLogger provides structured logging.
type InspectorLogger interface {
	Debug(msg string, fields ...any)
	Warn(msg string, fields ...any)
}

// Config configures the page inspector.
type Config struct {
	UserAgent   string
	PageTimeout time.Duration
}

// Inspector fetches one page and assembles its audit snapshot.
type Inspector struct {
	httpClient *http.Client
	prober     LinkProber
	robots     RobotsPolicy
	sitemap    SitemapValidator
	log        InspectorLogger
	userAgent  string
}

// NewInspector creates an inspector with the given collaborators. A nil
// httpClient gets a default client bounded by the configured page timeout.
func NewInspector(
	httpClient *http.Client,
	prober LinkProber,
	robots RobotsPolicy,
	sitemap SitemapValidator,
	log InspectorLogger,
	cfg Config,
) *Inspector {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.PageTimeout == 0 {
		cfg.PageTimeout = defaultPageTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.PageTimeout}
	}

	return &Inspector{
		httpClient: httpClient,
		prober:     prober,
		robots:     robots,
		sitemap:    sitemap,
		log:        log,
		userAgent:  cfg.UserAgent,
	}
}

// Inspect fetches the page and derives its snapshot. Error statuses are
// recorded in the snapshot, not returned as errors; only transport and
// parse failures error out.
func (i *Inspector) Inspect(ctx context.Context, pageURL string) (domain.PageSnapshot, error) {
	body, resp, elapsed, err := i.fetchPage(ctx, pageURL)
	if err != nil {
		return domain.PageSnapshot{}, err
	}

	finalURL := resp.Request.URL
	origin := finalURL.Scheme + "://" + finalURL.Host

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.PageSnapshot{}, fmt.Errorf("parse html: %w", err)
	}

	snap := domain.PageSnapshot{
		StatusCode:   resp.StatusCode,
		ResponseMS:   elapsed.Milliseconds(),
		FinalURL:     finalURL.String(),
		HTTPSEnabled: finalURL.Scheme == "https",
	}

	snap.Title = pageTitle(doc)
	snap.MetaDescription = metaDescription(doc)
	snap.Canonical = canonicalURL(doc, finalURL)
	snap.MetaRobots = metaRobots(doc)
	snap.H1Count = doc.Find("h1").Length()
	snap.H2Count = doc.Find("h2").Length()

	// Strip non-content elements before the word count so anchors and
	// images inside them stop counting too.
	doc.Find(strippedSelectors).Remove()
	snap.WordCount = visibleWordCount(doc)

	snap.OGTitle, snap.OGDescription = openGraph(doc)
	snap.HreflangCount, snap.InvalidHreflangCount = hreflangCounts(doc)
	snap.ImagesWithoutAlt = imagesWithoutAlt(doc)

	internal, targets := internalLinkTargets(doc, finalURL, origin)
	snap.InternalLinks = internal
	if len(targets) > maxProbedLinks {
		targets = targets[:maxProbedLinks]
	}
	snap.BrokenInternalLinks = i.prober.BrokenCount(ctx, targets)

	if snap.HTTPSEnabled {
		snap.MixedContentCount = mixedContentCount(doc)
	}

	snap.RobotsDisallowAll = i.robots.DisallowsAll(ctx, origin)
	snap.SitemapOK = i.sitemap.IsValid(ctx, origin)

	i.log.Debug("page inspected",
		"url", pageURL,
		"status", snap.StatusCode,
		"response_ms", snap.ResponseMS,
		"internal_links", snap.InternalLinks,
	)

	return snap, nil
}

// fetchPage performs the HTTP GET request for the audited page.
func (i *Inspector) fetchPage(
	ctx context.Context,
	pageURL string,
) (body []byte, resp *http.Response, elapsed time.Duration, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if reqErr != nil {
		return nil, nil, 0, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", i.userAgent)

	start := time.Now()

	resp, doErr := i.httpClient.Do(req)
	if doErr != nil {
		return nil, nil, 0, fmt.Errorf("http fetch: %w", doErr)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, nil, 0, fmt.Errorf("read response body: %w", readErr)
	}

	return body, resp, time.Since(start), nil
}
