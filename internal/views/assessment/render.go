// internal/views/assessment/render.go
package assessment

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/render"
)

// RenderResult prints the score, the loan decision and the recommendations.
func RenderResult(w io.Writer, res *models.AssessmentResult) error {
	styles := render.NewStyles(w)

	summary := render.Block{Title: "NovaScore Assessment"}
	summary.Add("Partner", res.PartnerName)
	summary.Add("Type", res.PartnerType.Label())
	summary.Add("NovaScore", styles.Bold.Render(render.Score(res.NovaScore)))
	summary.Add("Risk Category", string(res.RiskCategory))
	summary.Add("Assessment ID", res.AssessmentID)
	if res.ModelUsed != "" {
		summary.Add("Model", res.ModelUsed)
	}

	decision := LoanDecisionBlock(res.LoanDecision, styles)

	return render.Write(w,
		summary.View(styles),
		decision.View(styles),
		recommendations(res.Recommendations, styles),
	)
}

// LoanDecisionBlock shows the loan terms of an approval, or only the reason
// of a rejection.
func LoanDecisionBlock(d models.LoanDecision, styles render.Styles) render.Block {
	b := render.Block{Title: "Loan Decision"}
	if !d.Approved {
		b.Add("Status", styles.Danger.Render("Not Approved"))
		if d.Reason != "" {
			b.Add("Reason", d.Reason)
		}
		return b
	}

	b.Add("Status", styles.Success.Render("Approved"))
	if d.MaxAmount != nil {
		b.Add("Max Amount", render.Money(*d.MaxAmount))
	}
	if d.InterestRate != nil {
		b.Add("Interest Rate", strconv.FormatFloat(*d.InterestRate, 'f', -1, 64)+"%")
	}
	if d.TenureMonths != nil {
		b.Add("Tenure", fmt.Sprintf("%d months", *d.TenureMonths))
	}
	if d.MonthlyEMI != nil {
		b.Add("Monthly EMI", render.Money(*d.MonthlyEMI))
	}
	return b
}

func recommendations(recs []string, styles render.Styles) string {
	if len(recs) == 0 {
		return ""
	}
	b := render.Block{Title: "Recommendations"}
	for i, r := range recs {
		b.Add(strconv.Itoa(i+1), r)
	}
	return b.View(styles)
}

// RenderForm lists every field of the current type with its shown value.
func RenderForm(w io.Writer, f *Form) error {
	styles := render.NewStyles(w)
	fields, err := f.catalog.Fields(string(f.partnerType))
	if err != nil {
		return err
	}
	table := render.NewTable(f.partnerType.Label()+" Assessment", "Field", "Label", "Value", "Required")
	for _, fd := range fields {
		value, _ := f.Value(fd.Name)
		required := ""
		if fd.Required {
			required = "*"
		}
		table.AddRow(fd.Name, fd.Label, value, required)
	}
	return render.Write(w, table.View(styles))
}

// RenderCoverage prints how much of the model's feature set the payload covers.
func RenderCoverage(w io.Writer, fv *models.FeatureValidation) error {
	styles := render.NewStyles(w)
	b := render.Block{Title: "Feature Coverage"}
	status := styles.Success.Render("Valid")
	if !fv.Valid {
		status = styles.Warning.Render("Incomplete")
	}
	b.Add("Status", status)
	b.Add("Coverage", render.Percent(fv.CoveragePercentage))
	if len(fv.MissingRequiredFeatures) > 0 {
		b.Add("Missing", strings.Join(fv.MissingRequiredFeatures, ", "))
	}
	return render.Write(w, b.View(styles))
}
