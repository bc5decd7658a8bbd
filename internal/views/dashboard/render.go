// internal/views/dashboard/render.go
package dashboard

import (
	"fmt"
	"io"
	"strconv"

	"github.com/anujsoni3/NovaScore/internal/views/render"
)

// RenderSnapshot prints the stat cards and the performance tables.
func RenderSnapshot(w io.Writer, snap *Snapshot) error {
	styles := render.NewStyles(w)

	overview := render.Block{Title: "NovaScore Dashboard"}
	if snap.Stats != nil {
		overview.Add("Total Assessments", strconv.Itoa(snap.Stats.TotalAssessments))
		overview.Add("Approval Rate", render.Percent(snap.Stats.ApprovalRate))
		overview.Add("Average NovaScore", render.Score(snap.Stats.AvgNovaScore))
	}
	d := snap.Derived
	overview.Add("Today's Assessments", strconv.Itoa(d.TodayAssessments))
	overview.Add("Total Loan Value", fmt.Sprintf("₹%.1fL", d.TotalLoanValue/100000))
	overview.Add("Avg Loan Amount", fmt.Sprintf("₹%.0fK", d.AvgLoanAmount/1000))

	risk := render.NewTable("Risk Category Performance", "Risk", "Total", "Approved", "Approval Rate")
	for _, p := range d.RiskPerformance {
		risk.AddRow(styles.Risk(string(p.Category)), strconv.Itoa(p.Total), strconv.Itoa(p.Approved), render.Percent(p.ApprovalRate))
	}

	partners := render.NewTable("Partner Type Performance", "Partner Type", "Total", "Approved", "Approval Rate", "Avg Score")
	for _, p := range d.PartnerPerformance {
		partners.AddRow(p.PartnerType.Label(), strconv.Itoa(p.Total), strconv.Itoa(p.Approved), render.Percent(p.ApprovalRate), render.Score(p.AvgScore))
	}

	updated := ""
	if !snap.RefreshedAt.IsZero() {
		updated = styles.Muted.Render("Last updated " + snap.RefreshedAt.Format("15:04:05"))
	}
	return render.Write(w, overview.View(styles), risk.View(styles), partners.View(styles), updated)
}
