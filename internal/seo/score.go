package seo

import (
	"math"

	"github.com/jonesrussell/goseo/internal/domain"
)

// Score constants. The hybrid score blends rule deductions with the
// checklist pass-rate 60/40.
const (
	baseScore            = 100
	errorStatusThreshold = 400
	errorStatusPenalty   = 50
	criticalPenalty      = 20
	highPenalty          = 12
	mediumPenalty        = 7
	lowPenalty           = 3
	issueWeight          = 0.6
	checklistWeight      = 0.4
)

// CalculateScore computes the issue score: start at 100, subtract 50 once
// for an error status, then subtract per issue by severity, floor at 0.
// The status penalty applies independently of any status-related issue.
func CalculateScore(issues []domain.Issue, statusCode int) int {
	score := baseScore

	if statusCode >= errorStatusThreshold {
		score -= errorStatusPenalty
	}

	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityCritical:
			score -= criticalPenalty
		case domain.SeverityHigh:
			score -= highPenalty
		case domain.SeverityMedium:
			score -= mediumPenalty
		default:
			score -= lowPenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// CalculateHybridScore blends the issue score with the checklist pass-rate.
// Items carrying the not-measured sentinel are excluded; when nothing was
// measured the issue score passes through unchanged. Returns the final
// integer score and the pass-rate percentage. Rounding is half-to-even,
// pinned by tests.
func CalculateHybridScore(issueScore int, checklist []domain.ChecklistItem) (int, float64) {
	var measured, passed int
	for _, item := range checklist {
		if item.Value == domain.NotMeasured {
			continue
		}
		measured++
		if item.Passed {
			passed++
		}
	}

	if measured == 0 {
		return issueScore, float64(issueScore)
	}

	checklistScore := float64(passed) / float64(measured) * 100
	final := math.RoundToEven(float64(issueScore)*issueWeight + checklistScore*checklistWeight)
	return int(final), checklistScore
}
