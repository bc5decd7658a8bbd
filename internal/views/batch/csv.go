// internal/views/batch/csv.go
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anujsoni3/NovaScore/internal/models"
)

var (
	TemplateHeader = []string{
		"partner_type", "partner_name", "monthly_earning", "yearly_earning", "customer_rating",
		"active_days", "working_tenure_ingrab", "total_trips", "vehicle_age", "trip_distance",
		"peak_hours_ratio",
	}

	TemplateRows = [][]string{
		{"driver", "John Doe", "25000", "300000", "4.5", "25", "12", "150", "3", "8.5", "0.7"},
		{"merchant", "Pizza Palace", "35000", "420000", "4.2", "28", "18", "200", "0", "0", "0.8"},
		{"delivery_partner", "Quick Delivery", "22000", "264000", "4.6", "26", "8", "180", "0", "0", "0.9"},
	}

	ResultsHeader = []string{"assessment_id", "partner_name", "nova_score", "risk_category", "loan_approved", "loan_amount"}
)

var ErrEmptyCSV = errors.New("CSV_EMPTY")

var textColumns = map[string]bool{
	"assessment_id": true,
	"id":            true,
	"partner_name":  true,
}

// WriteTemplate writes the example upload file. Lines end in \n and the
// last row has no trailing newline, like the downloaded template.
func WriteTemplate(w io.Writer) error {
	lines := make([]string, 0, len(TemplateRows)+1)
	lines = append(lines, strings.Join(TemplateHeader, ","))
	for _, row := range TemplateRows {
		lines = append(lines, strings.Join(row, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// ExportResults writes one row per record in the order given.
func ExportResults(w io.Writer, records []models.AssessmentRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader); err != nil {
		return err
	}
	for _, r := range records {
		amount := ""
		if r.LoanAmount != nil {
			amount = formatNumber(*r.LoanAmount)
		}
		row := []string{
			r.AssessmentID,
			r.PartnerName,
			formatNumber(r.NovaScore),
			string(r.RiskCategory),
			strconv.FormatBool(r.LoanApproved),
			amount,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseRecords reads a CSV whose columns are named by its header row, such
// as an exported results file or a filled-in template. Unknown columns are
// kept in each record's Extra map.
func ParseRecords(r io.Reader) ([]models.AssessmentRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var records []models.AssessmentRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV line %d: %w", line, err)
		}
		raw := make(map[string]interface{}, len(header))
		for i, name := range header {
			if i >= len(row) || name == "" {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if textColumns[name] {
				// names and ids round-trip exactly as exported
				cell = row[i]
			}
			raw[name] = cell
		}
		if len(raw) == 0 {
			continue
		}
		records = append(records, models.RecordFromMap(raw))
	}
	return records, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
