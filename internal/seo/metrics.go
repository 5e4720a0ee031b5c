package seo

import (
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/goseo/internal/domain"
)

// Snapshot-derived metric keys. The coordinator stores these on every
// completed audit; booleans are encoded as 0/1.
const (
	MetricResponseMS          = "response_ms"
	MetricStatusCode          = "status_code"
	MetricH1Count             = "h1_count"
	MetricH2Count             = "h2_count"
	MetricImagesMissingAlt    = "images_missing_alt"
	MetricInternalLinks       = "internal_links"
	MetricBrokenInternalLinks = "broken_internal_links"
	MetricTitleLength         = "title_length"
	MetricMetaDescLength      = "meta_description_length"
	MetricWordCount           = "word_count"
	MetricMixedContentCount   = "mixed_content_count"
	MetricHreflangCount       = "hreflang_count"
	MetricInvalidHreflang     = "invalid_hreflang_count"
	MetricHTTPSEnabled        = "https_enabled"
	MetricCanonicalPresent    = "canonical_present"
	MetricNoindexDetected     = "noindex_detected"
	MetricSitemapOK           = "sitemap_ok"
	MetricRobotsDisallowAll   = "robots_disallow_all"
	MetricOGComplete          = "og_complete"
)

// Scoring metric keys, recorded after the hybrid score is computed.
const (
	MetricIssueScore     = "issue_score"
	MetricChecklistScore = "checklist_score"
	MetricHybridScore    = "hybrid_score"
)

// SnapshotMetrics flattens a page snapshot into the audit's metrics map.
// Supplementary collector metrics are merged on top of these and may
// overwrite same-named keys.
func SnapshotMetrics(snap domain.PageSnapshot) domain.MetricsMap {
	return domain.MetricsMap{
		MetricResponseMS:          float64(snap.ResponseMS),
		MetricStatusCode:          float64(snap.StatusCode),
		MetricH1Count:             float64(snap.H1Count),
		MetricH2Count:             float64(snap.H2Count),
		MetricImagesMissingAlt:    float64(snap.ImagesWithoutAlt),
		MetricInternalLinks:       float64(snap.InternalLinks),
		MetricBrokenInternalLinks: float64(snap.BrokenInternalLinks),
		MetricTitleLength:         float64(utf8.RuneCountInString(snap.Title)),
		MetricMetaDescLength:      float64(utf8.RuneCountInString(snap.MetaDescription)),
		MetricWordCount:           float64(snap.WordCount),
		MetricMixedContentCount:   float64(snap.MixedContentCount),
		MetricHreflangCount:       float64(snap.HreflangCount),
		MetricInvalidHreflang:     float64(snap.InvalidHreflangCount),
		MetricHTTPSEnabled:        boolMetric(snap.HTTPSEnabled),
		MetricCanonicalPresent:    boolMetric(strings.TrimSpace(snap.Canonical) != ""),
		MetricNoindexDetected:     boolMetric(strings.Contains(strings.ToLower(snap.MetaRobots), "noindex")),
		MetricSitemapOK:           boolMetric(snap.SitemapOK),
		MetricRobotsDisallowAll:   boolMetric(snap.RobotsDisallowAll),
		MetricOGComplete:          boolMetric(snap.OGTitle != "" && snap.OGDescription != ""),
	}
}

func boolMetric(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
