package seo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/seo"
)

func TestBucketFor_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score float64
		want  domain.Bucket
	}{
		{"well above do now", 2.85, domain.BucketDoNow},
		{"exactly two", 2.0, domain.BucketDoNow},
		{"just under two", 1.999, domain.BucketThisWeek},
		{"exactly one", 1.0, domain.BucketThisWeek},
		{"just under one", 0.999, domain.BucketLater},
		{"zero", 0, domain.BucketLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, seo.BucketFor(tt.score))
		})
	}
}

func TestToRecommendations_MapsFieldsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	issues := []domain.Issue{
		{
			Key:           "missing_title",
			Title:         "Missing <title> tag",
			Details:       "Title tags are core ranking and CTR signals.",
			FixSuggestion: "Add a unique title tag between 50-60 characters with target keyword intent.",
			PriorityScore: 2.85,
		},
		{
			Key:           "missing_canonical",
			Title:         "Missing canonical tag",
			Details:       "Canonical helps consolidate indexing signals and avoid duplicates.",
			FixSuggestion: "Add a self-referencing canonical URL on indexable pages.",
			PriorityScore: 1.7,
		},
		{
			Key:           "few_internal_links",
			Title:         "Low internal link count",
			Details:       "Internal links distribute authority and help crawlers discover key pages.",
			FixSuggestion: "Add contextual internal links to related high-value pages.",
			PriorityScore: 0.7,
		},
	}

	recs := seo.ToRecommendations(issues)
	require.Len(t, recs, 3)

	first := recs[0]
	assert.Equal(t, "Missing <title> tag", first.Title)
	assert.Equal(t, issues[0].Details, first.Reason)
	assert.Equal(t, issues[0].FixSuggestion, first.Action)
	assert.Equal(t, domain.BucketDoNow, first.Bucket)
	assert.InDelta(t, 2.85, first.PriorityScore, 1e-9)

	assert.Equal(t, domain.BucketThisWeek, recs[1].Bucket)
	assert.Equal(t, domain.BucketLater, recs[2].Bucket)

	// Input order is the rule engine's priority order; it must survive.
	assert.Equal(t, "Missing canonical tag", recs[1].Title)
	assert.Equal(t, "Low internal link count", recs[2].Title)
}

func TestToRecommendations_Empty(t *testing.T) {
	t.Parallel()

	recs := seo.ToRecommendations(nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
