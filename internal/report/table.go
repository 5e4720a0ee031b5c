package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/goseo/internal/domain"
)

// RenderTable writes the audit summary as terminal tables: a score header,
// the checklist, and the matched issues.
func RenderTable(audit *domain.AuditResult, w io.Writer) {
	fmt.Fprintf(w, "URL:    %s\n", audit.URL)
	fmt.Fprintf(w, "Status: %s\n", audit.Status)
	fmt.Fprintf(w, "Score:  %s\n", scoreText(audit.Score))
	if audit.Error != nil {
		fmt.Fprintf(w, "Error:  %s\n", *audit.Error)
	}
	fmt.Fprintln(w)

	if len(audit.Checklist) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Check", "Target", "Value", "Result"})
		for _, item := range audit.Checklist {
			result := "FAIL"
			if item.Passed {
				result = "PASS"
			}
			t.AppendRow(table.Row{item.Label, item.Target, item.Value, result})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(audit.Issues) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Severity", "Priority", "Issue"})
		for _, issue := range audit.Issues {
			t.AppendRow(table.Row{issue.Severity, fmt.Sprintf("%.1f", issue.PriorityScore), issue.Title})
		}
		t.Render()
	}
}
