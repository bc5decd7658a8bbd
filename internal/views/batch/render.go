// internal/views/batch/render.go
package batch

import (
	"io"
	"strconv"

	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/render"
)

// RenderResult prints the per-partner table followed by the summary.
func RenderResult(w io.Writer, res *models.BatchResult) error {
	styles := render.NewStyles(w)
	table := recordsTable(res.Results, styles)

	s := Summarize(res)
	summary := render.Block{Title: "Processing Summary"}
	summary.Add("Total Processed", strconv.Itoa(s.TotalProcessed))
	summary.Add("Total Rows", strconv.Itoa(s.TotalRows))
	summary.Add("Success Rate", render.Percent(s.SuccessRate))
	summary.Add("Approved", strconv.Itoa(s.Approved))
	summary.Add("Rejected", strconv.Itoa(s.Rejected))
	summary.Add("Average Score", render.Score(s.AverageScore))

	return render.Write(w, table.View(styles), summary.View(styles))
}

// RenderRecords prints records read back from an exported results file.
func RenderRecords(w io.Writer, records []models.AssessmentRecord) error {
	styles := render.NewStyles(w)
	if len(records) == 0 {
		return render.Write(w, "No results found")
	}
	return render.Write(w, recordsTable(records, styles).View(styles))
}

func recordsTable(records []models.AssessmentRecord, styles render.Styles) *render.Table {
	table := render.NewTable("Assessment Results", "Partner", "NovaScore", "Risk", "Loan Status", "Amount")
	for _, r := range records {
		status := styles.Danger.Render("Rejected")
		if r.LoanApproved {
			status = styles.Success.Render("Approved")
		}
		amount := "-"
		if r.Amount() > 0 {
			amount = render.Money(r.Amount())
		}
		table.AddRow(r.PartnerName, render.Score(r.NovaScore), styles.Risk(string(r.RiskCategory)), status, amount)
	}
	return table
}
