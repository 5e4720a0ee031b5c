// Package seo implements the audit scoring engine: rule evaluation,
// checklist derivation, score calculation, and recommendation projection.
// All functions are pure; collaborators produce the inputs elsewhere.
package seo

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/goseo/internal/domain"
)

// Metric keys consumed by rules and checklist items. Collectors populate
// these; an absent key always means "not measured", never zero.
const (
	MetricLighthousePerformance   = "lighthouse_performance_score"
	MetricLighthouseAccessibility = "lighthouse_accessibility_score"
	MetricLighthouseBestPractices = "lighthouse_best_practices_score"
	MetricLighthouseSEO           = "lighthouse_seo_score"
	MetricLighthouseLCP           = "lighthouse_lcp_ms"
	MetricLighthouseCLS           = "lighthouse_cls"
	MetricLighthouseTBT           = "lighthouse_tbt_ms"
	MetricMobileLoadMS            = "timing_mobile_load_ms"
)

// Rule thresholds.
const (
	titleMinLength      = 30
	titleMaxLength      = 65
	minInternalLinks    = 3
	slowResponseMS      = 1800
	minWordCount        = 250
	lowSEOScore         = 80
	lowPerformanceScore = 70
	slowMobileLoadMS    = 4000
)

// Weights behind the priority score.
var (
	impactWeights = map[domain.Impact]float64{
		domain.ImpactLow:    1,
		domain.ImpactMedium: 2,
		domain.ImpactHigh:   3,
	}
	effortWeights = map[domain.Effort]float64{
		domain.EffortEasy:   1,
		domain.EffortMedium: 2,
		domain.EffortHard:   3,
	}
)

// Rule is one declarative audit check: a predicate over the page signals
// plus fixed weighting and copy. Match returns the issue title when the
// rule fires; titles may interpolate one observed count.
type Rule struct {
	Key        string
	Severity   domain.Severity
	Impact     domain.Impact
	Effort     domain.Effort
	Confidence float64
	Details    string
	Fix        string
	Match      func(snap domain.PageSnapshot, metrics domain.MetricsMap) (string, bool)
}

// auditRules is the full rule table. Rules are independent: every matching
// predicate fires and none suppresses another. Pairs that the copy treats
// as alternatives (missing vs out-of-range title, zero vs multiple H1s)
// exclude each other inside their own predicates.
var auditRules = []Rule{
	{
		Key:        "http_status_error",
		Severity:   domain.SeverityCritical,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortMedium,
		Confidence: 1.0,
		Details:    "Search engines may not index pages with error status codes.",
		Fix:        "Fix server or routing issues and return a valid 200 status for canonical pages.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.StatusCode < 400 {
				return "", false
			}
			return fmt.Sprintf("Page returned HTTP %d", snap.StatusCode), true
		},
	},
	{
		Key:        "missing_title",
		Severity:   domain.SeverityHigh,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortEasy,
		Confidence: 0.95,
		Details:    "Title tags are core ranking and CTR signals.",
		Fix:        "Add a unique title tag between 50-60 characters with target keyword intent.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if strings.TrimSpace(snap.Title) != "" {
				return "", false
			}
			return "Missing <title> tag", true
		},
	},
	{
		Key:        "title_length",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortEasy,
		Confidence: 0.9,
		Details:    "Very short or long titles reduce clarity and can hurt click-through rate.",
		Fix:        "Keep title length around 50-60 characters and match search intent.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			title := strings.TrimSpace(snap.Title)
			if title == "" {
				return "", false
			}
			length := utf8.RuneCountInString(title)
			if length >= titleMinLength && length <= titleMaxLength {
				return "", false
			}
			return "Title length is outside recommended range", true
		},
	},
	{
		Key:        "missing_meta_description",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortEasy,
		Confidence: 0.9,
		Details:    "Meta descriptions affect snippet quality and CTR.",
		Fix:        "Add a clear 140-160 character meta description with value proposition and keyword context.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if strings.TrimSpace(snap.MetaDescription) != "" {
				return "", false
			}
			return "Missing meta description", true
		},
	},
	{
		Key:        "missing_h1",
		Severity:   domain.SeverityHigh,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortEasy,
		Confidence: 0.9,
		Details:    "Primary topic heading helps search engines understand page focus.",
		Fix:        "Add one clear H1 containing primary keyword intent.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.H1Count != 0 {
				return "", false
			}
			return "Missing H1 heading", true
		},
	},
	{
		Key:        "multiple_h1",
		Severity:   domain.SeverityLow,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortEasy,
		Confidence: 0.8,
		Details:    "Multiple H1 tags can dilute page topical focus.",
		Fix:        "Use one H1 and move additional headings to H2/H3.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.H1Count <= 1 {
				return "", false
			}
			return "Multiple H1 headings found", true
		},
	},
	{
		Key:        "images_missing_alt",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortMedium,
		Confidence: 0.85,
		Details:    "Alt text improves accessibility and image search relevance.",
		Fix:        "Add descriptive alt text for meaningful images and keep decorative images empty.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.ImagesWithoutAlt <= 0 {
				return "", false
			}
			return fmt.Sprintf("%d images are missing alt text", snap.ImagesWithoutAlt), true
		},
	},
	{
		Key:        "few_internal_links",
		Severity:   domain.SeverityLow,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortMedium,
		Confidence: 0.7,
		Details:    "Internal links distribute authority and help crawlers discover key pages.",
		Fix:        "Add contextual internal links to related high-value pages.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.InternalLinks >= minInternalLinks {
				return "", false
			}
			return "Low internal link count", true
		},
	},
	{
		Key:        "slow_response",
		Severity:   domain.SeverityHigh,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortHard,
		Confidence: 0.8,
		Details:    "Slow pages can reduce crawl efficiency and user engagement.",
		Fix:        "Optimize TTFB with caching, compression, and backend profiling.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.ResponseMS <= slowResponseMS {
				return "", false
			}
			return "Slow server response time", true
		},
	},
	{
		Key:        "missing_canonical",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortEasy,
		Confidence: 0.85,
		Details:    "Canonical helps consolidate indexing signals and avoid duplicates.",
		Fix:        "Add a self-referencing canonical URL on indexable pages.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if strings.TrimSpace(snap.Canonical) != "" {
				return "", false
			}
			return "Missing canonical tag", true
		},
	},
	{
		Key:        "noindex_detected",
		Severity:   domain.SeverityCritical,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortEasy,
		Confidence: 0.95,
		Details:    "Noindex prevents search engines from indexing the page.",
		Fix:        "Remove noindex from pages that should rank.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if !strings.Contains(strings.ToLower(snap.MetaRobots), "noindex") {
				return "", false
			}
			return "Meta robots contains noindex", true
		},
	},
	{
		Key:        "robots_disallow_all",
		Severity:   domain.SeverityCritical,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortEasy,
		Confidence: 0.95,
		Details:    "Disallow: / for User-agent * can block indexing across the website.",
		Fix:        "Update robots.txt rules to allow important content paths.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if !snap.RobotsDisallowAll {
				return "", false
			}
			return "robots.txt disallows full site crawl", true
		},
	},
	{
		Key:        "missing_sitemap",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortEasy,
		Confidence: 0.8,
		Details:    "XML sitemap helps crawlers discover and prioritize pages.",
		Fix:        "Publish a valid sitemap.xml and reference it in robots.txt.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.SitemapOK {
				return "", false
			}
			return "Sitemap not found or invalid", true
		},
	},
	{
		Key:        "thin_content",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortMedium,
		Confidence: 0.8,
		Details:    "Thin pages may struggle to rank for competitive queries.",
		Fix:        "Expand page with useful, intent-focused content sections.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.WordCount >= minWordCount {
				return "", false
			}
			return "Low content depth detected", true
		},
	},
	{
		Key:        "broken_internal_links",
		Severity:   domain.SeverityHigh,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortMedium,
		Confidence: 0.9,
		Details:    "Broken internal links waste crawl budget and hurt UX.",
		Fix:        "Fix or redirect broken internal destinations.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.BrokenInternalLinks <= 0 {
				return "", false
			}
			return fmt.Sprintf("%d broken internal links found", snap.BrokenInternalLinks), true
		},
	},
	{
		Key:        "no_https",
		Severity:   domain.SeverityCritical,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortMedium,
		Confidence: 0.95,
		Details:    "HTTPS is a trust and ranking signal.",
		Fix:        "Enable TLS and redirect HTTP to HTTPS site-wide.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.HTTPSEnabled {
				return "", false
			}
			return "Page is not served over HTTPS", true
		},
	},
	{
		Key:        "mixed_content",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortEasy,
		Confidence: 0.9,
		Details:    "HTTP assets on HTTPS pages can trigger security warnings.",
		Fix:        "Serve all assets over HTTPS URLs.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.MixedContentCount <= 0 {
				return "", false
			}
			return fmt.Sprintf("%d mixed-content resources detected", snap.MixedContentCount), true
		},
	},
	{
		Key:        "missing_open_graph",
		Severity:   domain.SeverityLow,
		Impact:     domain.ImpactLow,
		Effort:     domain.EffortEasy,
		Confidence: 0.75,
		Details:    "Social snippets perform better with OG title and description.",
		Fix:        "Add og:title and og:description tags for social sharing.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if strings.TrimSpace(snap.OGTitle) != "" && strings.TrimSpace(snap.OGDescription) != "" {
				return "", false
			}
			return "Open Graph metadata is incomplete", true
		},
	},
	{
		Key:        "invalid_hreflang",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactMedium,
		Effort:     domain.EffortMedium,
		Confidence: 0.8,
		Details:    "Invalid hreflang can break international targeting.",
		Fix:        "Use valid hreflang values like en, en-US, lt, x-default.",
		Match: func(snap domain.PageSnapshot, _ domain.MetricsMap) (string, bool) {
			if snap.InvalidHreflangCount <= 0 {
				return "", false
			}
			return fmt.Sprintf("%d hreflang values look invalid", snap.InvalidHreflangCount), true
		},
	},
	{
		Key:        "lighthouse_seo_low",
		Severity:   domain.SeverityHigh,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortMedium,
		Confidence: 0.85,
		Details:    "Automated Lighthouse SEO signals show optimization gaps.",
		Fix:        "Resolve failing Lighthouse SEO audits and rerun after deployment.",
		Match: func(_ domain.PageSnapshot, metrics domain.MetricsMap) (string, bool) {
			score, ok := metrics[MetricLighthouseSEO]
			if !ok || score >= lowSEOScore {
				return "", false
			}
			return fmt.Sprintf("Lighthouse SEO score is low (%d)", int(score)), true
		},
	},
	{
		Key:        "lighthouse_performance_low",
		Severity:   domain.SeverityHigh,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortHard,
		Confidence: 0.8,
		Details:    "Poor runtime performance can reduce rankings and user engagement.",
		Fix:        "Improve LCP/TBT by reducing JS payload, optimizing images, and caching.",
		Match: func(_ domain.PageSnapshot, metrics domain.MetricsMap) (string, bool) {
			score, ok := metrics[MetricLighthousePerformance]
			if !ok || score >= lowPerformanceScore {
				return "", false
			}
			return fmt.Sprintf("Lighthouse performance score is low (%d)", int(score)), true
		},
	},
	{
		Key:        "mobile_slow_load",
		Severity:   domain.SeverityMedium,
		Impact:     domain.ImpactHigh,
		Effort:     domain.EffortMedium,
		Confidence: 0.75,
		Details:    "Mobile users are sensitive to load latency and bounce faster.",
		Fix:        "Prioritize above-the-fold content and defer non-critical scripts on mobile.",
		Match: func(_ domain.PageSnapshot, metrics domain.MetricsMap) (string, bool) {
			loadMS, ok := metrics[MetricMobileLoadMS]
			if !ok || loadMS <= slowMobileLoadMS {
				return "", false
			}
			return "Mobile load time is high", true
		},
	},
}

// Rules returns the full rule table in evaluation order.
func Rules() []Rule {
	return auditRules
}

// BuildIssues evaluates every rule against the snapshot and metrics and
// returns the matched issues sorted by priority score, highest first.
// The sort is stable: ties keep table order.
func BuildIssues(snap domain.PageSnapshot, metrics domain.MetricsMap) []domain.Issue {
	issues := make([]domain.Issue, 0, len(auditRules))

	for _, rule := range auditRules {
		title, matched := rule.Match(snap, metrics)
		if !matched {
			continue
		}

		issues = append(issues, domain.Issue{
			Key:           rule.Key,
			Title:         title,
			Details:       rule.Details,
			Severity:      rule.Severity,
			Impact:        rule.Impact,
			Effort:        rule.Effort,
			FixSuggestion: rule.Fix,
			Confidence:    rule.Confidence,
			PriorityScore: PriorityScore(rule.Impact, rule.Effort, rule.Confidence),
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].PriorityScore > issues[j].PriorityScore
	})

	return issues
}

// PriorityScore computes impact weight times confidence divided by effort
// weight, rounded to 3 decimals. Unknown impact or effort values weigh 1.
func PriorityScore(impact domain.Impact, effort domain.Effort, confidence float64) float64 {
	iw, ok := impactWeights[impact]
	if !ok {
		iw = 1
	}
	ew, ok := effortWeights[effort]
	if !ok {
		ew = 1
	}
	return math.Round(iw*confidence/ew*1000) / 1000
}
