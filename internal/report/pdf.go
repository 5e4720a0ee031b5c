// Package report renders a finished audit as a PDF document or as terminal
// tables for the CLI.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/seo"
)

// reportVersion bumps when the PDF layout changes shape.
const reportVersion = 2

const (
	maxLineRunes       = 110
	maxIssues          = 8
	maxRecommendations = 10
	maxBucketItems     = 5
)

var bucketSections = []struct {
	bucket domain.Bucket
	label  string
}{
	{domain.BucketDoNow, "Do now"},
	{domain.BucketThisWeek, "This week"},
	{domain.BucketLater, "Later"},
}

// RenderPDF writes the full audit report to w. The checklist is rebuilt from
// the audit's metrics when the stored one is empty.
func RenderPDF(audit *domain.AuditResult, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	writeTitleBlock(pdf, audit)

	checklist := audit.Checklist
	if len(checklist) == 0 {
		checklist = seo.BuildChecklist(*audit)
	}

	writeChecklist(pdf, checklist)
	writeBuckets(pdf, checklist)
	writeIssues(pdf, audit.Issues)
	writeActionPlan(pdf, audit.Recommendations)

	return pdf.Output(w)
}

// PDFBytes renders the PDF into memory, for mail attachments.
func PDFBytes(audit *domain.AuditResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPDF(audit, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTitleBlock(pdf *fpdf.Fpdf, audit *domain.AuditResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "SEO Audit Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	writeLine(pdf, fmt.Sprintf("URL: %s", audit.URL))
	writeLine(pdf, fmt.Sprintf("Status: %s", audit.Status))
	writeLine(pdf, fmt.Sprintf("Score: %s", scoreText(audit.Score)))
	writeLine(pdf, fmt.Sprintf("Report version: %d | Generated: %s",
		reportVersion, time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(4)
}

func writeChecklist(pdf *fpdf.Fpdf, checklist []domain.ChecklistItem) {
	passed := 0
	for _, item := range checklist {
		if item.Passed {
			passed++
		}
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, fmt.Sprintf("Top 20 SEO checklist (%d/%d)", passed, len(checklist)),
		"", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range checklist {
		state := "FAIL"
		if item.Passed {
			state = "PASS"
		}
		writeLine(pdf, fmt.Sprintf("- [%s] %s | target: %s | value: %s",
			state, item.Label, item.Target, item.Value))
	}
	pdf.Ln(3)
}

func writeBuckets(pdf *fpdf.Fpdf, checklist []domain.ChecklistItem) {
	for _, section := range bucketSections {
		failed := failingItems(checklist, section.bucket)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 6, fmt.Sprintf("Priority: %s", section.label), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if len(failed) == 0 {
			writeLine(pdf, "- No failing checks")
			continue
		}
		for _, item := range failed {
			writeLine(pdf, fmt.Sprintf("- %s: target %s, value %s", item.Label, item.Target, item.Value))
		}
	}
	pdf.Ln(3)
}

func writeIssues(pdf *fpdf.Fpdf, issues []domain.Issue) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, "Top issues", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	count := len(issues)
	if count > maxIssues {
		count = maxIssues
	}
	for _, issue := range issues[:count] {
		writeLine(pdf, fmt.Sprintf("- %s [%s]", issue.Title, issue.Severity))
		writeLine(pdf, fmt.Sprintf("  Why it matters: %s", issue.Details))
		writeLine(pdf, fmt.Sprintf("  How to fix: %s", issue.FixSuggestion))
	}
	pdf.Ln(2)
}

func writeActionPlan(pdf *fpdf.Fpdf, recommendations []domain.Recommendation) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, "Action plan", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	count := len(recommendations)
	if count > maxRecommendations {
		count = maxRecommendations
	}
	for _, rec := range recommendations[:count] {
		writeLine(pdf, fmt.Sprintf("- (%s) %s", rec.Bucket, rec.Title))
		writeLine(pdf, fmt.Sprintf("  Reason: %s", rec.Reason))
		writeLine(pdf, fmt.Sprintf("  Action: %s", rec.Action))
	}
}

func writeLine(pdf *fpdf.Fpdf, text string) {
	pdf.CellFormat(0, 5, truncate(text), "", 1, "L", false, 0, "")
}

func failingItems(checklist []domain.ChecklistItem, bucket domain.Bucket) []domain.ChecklistItem {
	var failed []domain.ChecklistItem
	for _, item := range checklist {
		if item.Passed || item.Priority != bucket {
			continue
		}
		failed = append(failed, item)
		if len(failed) == maxBucketItems {
			break
		}
	}
	return failed
}

func scoreText(score *int) string {
	if score == nil {
		return "-"
	}
	return strconv.Itoa(*score)
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxLineRunes {
		return text
	}
	return string(runes[:maxLineRunes])
}
