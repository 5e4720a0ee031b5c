// Package perf collects supplementary performance metrics for audited
// pages: HTTP timing probes under desktop and mobile user agents, and
// Lighthouse category scores when the CLI is available.
package perf

import (
	"context"

	"github.com/jonesrussell/goseo/internal/domain"
)

// Collector produces supplementary metrics for a URL. Collectors degrade
// to an empty map instead of returning errors: supplementary metrics are
// always optional and their absence must not fail an audit.
type Collector interface {
	Collect(ctx context.Context, pageURL string) domain.MetricsMap
}

// CollectAll runs every collector in order and merges their output.
// Later collectors overwrite same-named keys.
func CollectAll(ctx context.Context, pageURL string, collectors ...Collector) domain.MetricsMap {
	merged := domain.MetricsMap{}
	for _, collector := range collectors {
		for key, value := range collector.Collect(ctx, pageURL) {
			merged[key] = value
		}
	}
	return merged
}
