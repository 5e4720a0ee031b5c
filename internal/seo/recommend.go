package seo

import (
	"github.com/jonesrussell/goseo/internal/domain"
)

// Bucket thresholds on the priority score.
const (
	doNowThreshold    = 2.0
	thisWeekThreshold = 1.0
)

// ToRecommendations projects each issue into an actionable recommendation,
// preserving the rule engine's descending-priority order.
func ToRecommendations(issues []domain.Issue) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(issues))
	for _, issue := range issues {
		recs = append(recs, domain.Recommendation{
			Title:         issue.Title,
			Reason:        issue.Details,
			Action:        issue.FixSuggestion,
			Bucket:        BucketFor(issue.PriorityScore),
			PriorityScore: issue.PriorityScore,
		})
	}
	return recs
}

// BucketFor maps a priority score to its urgency tier. Boundaries are
// closed: a score of exactly 2.0 is do_now and exactly 1.0 is this_week.
func BucketFor(priorityScore float64) domain.Bucket {
	switch {
	case priorityScore >= doNowThreshold:
		return domain.BucketDoNow
	case priorityScore >= thisWeekThreshold:
		return domain.BucketThisWeek
	default:
		return domain.BucketLater
	}
}
