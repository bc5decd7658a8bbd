// internal/views/history/export.go
package history

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/anujsoni3/NovaScore/internal/models"
)

var ExportHeader = []string{"ID", "Partner Name", "Type", "NovaScore", "Risk Category", "Loan Approved", "Amount", "Date"}

const dateLayout = "1/2/2006"

// Export writes records as CSV. Loan approval is Yes/No, a missing amount is
// written as 0 and dates use M/D/YYYY. Unparseable dates are left blank.
func Export(w io.Writer, records []models.AssessmentRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range records {
		approved := "No"
		if r.LoanApproved {
			approved = "Yes"
		}
		row := []string{
			r.AssessmentID,
			r.PartnerName,
			string(r.PartnerType),
			strconv.FormatFloat(r.NovaScore, 'f', -1, 64),
			string(r.RiskCategory),
			approved,
			strconv.FormatFloat(r.Amount(), 'f', -1, 64),
			FormatDate(r),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatDate renders a record's creation date as M/D/YYYY.
func FormatDate(r models.AssessmentRecord) string {
	t, ok := r.CreatedTime()
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}
