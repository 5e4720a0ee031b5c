package seo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/goseo/internal/domain"
)

// Checklist thresholds.
const (
	checklistTitleMin    = 50
	checklistTitleMax    = 60
	checklistMetaMin     = 140
	checklistMetaMax     = 160
	maxCleanPathLength   = 75
	checklistMinWords    = 600
	checklistMinLinks    = 3
	maxLCPMS             = 2500
	maxCLS               = 0.10
	maxTBTMS             = 200
	minLighthouseSEOPass = 90
)

// checklistLength is the fixed size of the checklist catalog.
const checklistLength = 20

// BuildChecklist derives the fixed 20-point checklist from an audit's
// metrics map and URL. The order is stable across calls; it drives both
// display and "top N failing" selection. The four optional items (LCP,
// CLS, TBT, Lighthouse SEO) pass with the not-measured sentinel and drop
// to the later bucket when their metric is absent.
func BuildChecklist(a domain.AuditResult) []domain.ChecklistItem {
	metrics := a.Metrics

	path := "/"
	cleanURL := !strings.Contains(a.URL, "?")
	if parsed, err := url.Parse(a.URL); err == nil {
		cleanURL = cleanURL && utf8.RuneCountInString(parsed.Path) <= maxCleanPathLength
		if parsed.Path != "" {
			path = parsed.Path
		}
	}

	lcp, lcpOK := metrics[MetricLighthouseLCP]
	cls, clsOK := metrics[MetricLighthouseCLS]
	tbt, tbtOK := metrics[MetricLighthouseTBT]
	lhSEO, lhSEOOK := metrics[MetricLighthouseSEO]

	items := make([]domain.ChecklistItem, 0, checklistLength)
	items = append(items,
		boolItem("http_200", "HTTP status is 200", "status = 200",
			intValue(metrics, MetricStatusCode), metrics[MetricStatusCode] == 200, domain.BucketDoNow),
		boolItem("indexable", "Page is indexable", "no noindex",
			intValue(metrics, MetricNoindexDetected), metrics[MetricNoindexDetected] == 0, domain.BucketDoNow),
		boolItem("robots", "robots.txt does not block all", "disallow_all = 0",
			intValue(metrics, MetricRobotsDisallowAll), metrics[MetricRobotsDisallowAll] == 0, domain.BucketDoNow),
		boolItem("canonical", "Canonical tag exists", "present = 1",
			intValue(metrics, MetricCanonicalPresent), metrics[MetricCanonicalPresent] == 1, domain.BucketThisWeek),
		boolItem("title_len", "Title length", "50-60",
			intValue(metrics, MetricTitleLength),
			metrics[MetricTitleLength] >= checklistTitleMin && metrics[MetricTitleLength] <= checklistTitleMax,
			domain.BucketThisWeek),
		boolItem("meta_len", "Meta description length", "140-160",
			intValue(metrics, MetricMetaDescLength),
			metrics[MetricMetaDescLength] >= checklistMetaMin && metrics[MetricMetaDescLength] <= checklistMetaMax,
			domain.BucketThisWeek),
		boolItem("clean_url", "Clean URL slug", "<=75 chars, no query",
			path, cleanURL, domain.BucketLater),
		boolItem("single_h1", "Single H1", "exactly 1",
			intValue(metrics, MetricH1Count), metrics[MetricH1Count] == 1, domain.BucketThisWeek),
		boolItem("h2_present", "At least one H2", ">=1",
			intValue(metrics, MetricH2Count), metrics[MetricH2Count] >= 1, domain.BucketLater),
		boolItem("content_depth", "Content depth", ">=600 words",
			intValue(metrics, MetricWordCount), metrics[MetricWordCount] >= checklistMinWords, domain.BucketThisWeek),
		boolItem("internal_links", "Internal links out", ">=3",
			intValue(metrics, MetricInternalLinks), metrics[MetricInternalLinks] >= checklistMinLinks, domain.BucketThisWeek),
		boolItem("broken_links", "Broken internal links", "0",
			intValue(metrics, MetricBrokenInternalLinks), metrics[MetricBrokenInternalLinks] == 0, domain.BucketDoNow),
		boolItem("https", "HTTPS enabled", "1",
			intValue(metrics, MetricHTTPSEnabled), metrics[MetricHTTPSEnabled] == 1, domain.BucketDoNow),
		boolItem("mixed_content", "Mixed content resources", "0",
			intValue(metrics, MetricMixedContentCount), metrics[MetricMixedContentCount] == 0, domain.BucketDoNow),
		boolItem("sitemap", "Sitemap.xml valid", "present = 1",
			intValue(metrics, MetricSitemapOK), metrics[MetricSitemapOK] == 1, domain.BucketThisWeek),
		optionalItem("lcp", "LCP", "<=2500 ms",
			lcpOK, lcp <= maxLCPMS, strconv.Itoa(int(lcp)), domain.BucketDoNow),
		optionalItem("cls", "CLS", "<=0.10",
			clsOK, cls <= maxCLS, fmt.Sprintf("%.3f", cls), domain.BucketDoNow),
		optionalItem("tbt", "TBT", "<=200 ms",
			tbtOK, tbt <= maxTBTMS, strconv.Itoa(int(tbt)), domain.BucketThisWeek),
		boolItem("open_graph", "Open Graph complete", "title+description",
			intValue(metrics, MetricOGComplete), metrics[MetricOGComplete] == 1, domain.BucketLater),
		optionalItem("lh_seo", "Lighthouse SEO", ">=90",
			lhSEOOK, lhSEO >= minLighthouseSEOPass, strconv.Itoa(int(lhSEO)), domain.BucketThisWeek),
	)

	return items
}

// boolItem builds one unconditional checklist entry.
func boolItem(key, label, target, value string, passed bool, priority domain.Bucket) domain.ChecklistItem {
	return domain.ChecklistItem{
		Key:      key,
		Label:    label,
		Target:   target,
		Value:    value,
		Passed:   passed,
		Priority: priority,
	}
}

// optionalItem builds an entry backed by an optional metric. Absent
// measurements pass with the sentinel value and the later bucket so they
// never penalize the pass-rate or the action plan.
func optionalItem(key, label, target string, present, passed bool, value string, priority domain.Bucket) domain.ChecklistItem {
	if !present {
		return domain.ChecklistItem{
			Key:      key,
			Label:    label,
			Target:   target,
			Value:    domain.NotMeasured,
			Passed:   true,
			Priority: domain.BucketLater,
		}
	}
	return domain.ChecklistItem{
		Key:      key,
		Label:    label,
		Target:   target,
		Value:    value,
		Passed:   passed,
		Priority: priority,
	}
}

// intValue renders a metric as an integer string, absent keys as "0".
func intValue(metrics domain.MetricsMap, key string) string {
	return strconv.Itoa(int(metrics[key]))
}
