// internal/views/history/render.go
package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/render"
)

// RenderTable prints the shown records and the "Showing N of M" line.
func RenderTable(w io.Writer, shown []models.AssessmentRecord, loaded int) error {
	styles := render.NewStyles(w)
	table := render.NewTable("Assessment History", "ID", "Partner", "Type", "NovaScore", "Risk", "Loan", "Amount", "Date")
	for _, r := range shown {
		table.AddRow(
			r.AssessmentID,
			r.PartnerName,
			r.PartnerType.Label(),
			render.Score(r.NovaScore),
			styles.Risk(string(r.RiskCategory)),
			loanStatus(r, styles),
			amount(r),
			FormatDate(r),
		)
	}
	count := styles.Muted.Render(fmt.Sprintf("Showing %d of %d assessments", len(shown), loaded))
	if len(shown) == 0 {
		return render.Write(w, "No assessments found", count)
	}
	return render.Write(w, table.View(styles), count)
}

// RenderDetail prints one record the way the detail dialog shows it.
func RenderDetail(w io.Writer, r models.AssessmentRecord) error {
	styles := render.NewStyles(w)

	partner := render.Block{Title: "Partner Information"}
	partner.Add("Name", r.PartnerName)
	partner.Add("Type", strings.ReplaceAll(string(r.PartnerType), "_", " "))
	partner.Add("NovaScore", render.Score(r.NovaScore))
	partner.Add("Risk Category", styles.Risk(string(r.RiskCategory)))

	financial := render.Block{Title: "Financial Details"}
	financial.Add("Monthly Earning", optionalMoney(r.MonthlyEarning))
	financial.Add("Yearly Earning", optionalMoney(r.YearlyEarning))
	if r.CustomerRating != nil {
		financial.Add("Customer Rating", strconv.FormatFloat(*r.CustomerRating, 'f', -1, 64))
	}
	if r.WorkingTenureInGrab != nil {
		financial.Add("Working Tenure", strconv.FormatFloat(*r.WorkingTenureInGrab, 'f', -1, 64)+" months")
	}

	loan := render.Block{Title: "Loan Decision"}
	loan.Add("Status", loanStatus(r, styles))
	loan.Add("Amount", amount(r))
	if r.CreatedAt != "" {
		loan.Add("Date", FormatDate(r))
	}

	return render.Write(w, partner.View(styles), financial.View(styles), loan.View(styles))
}

func loanStatus(r models.AssessmentRecord, styles render.Styles) string {
	if r.LoanApproved {
		return styles.Success.Render("Approved")
	}
	return styles.Danger.Render("Rejected")
}

func amount(r models.AssessmentRecord) string {
	if r.Amount() > 0 {
		return render.Money(r.Amount())
	}
	return "-"
}

func optionalMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return render.Money(*v)
}
