// internal/views/history/models.go
package history

import (
	"strings"

	"github.com/anujsoni3/NovaScore/internal/models"
)

// AllTypes disables the partner type filter.
const AllTypes = "all"

// Filter narrows the loaded history. The zero value matches everything.
type Filter struct {
	Search      string `json:"search"`
	PartnerType string `json:"partnerType"`
}

// Matches applies a case-insensitive substring search over the partner name
// and the assessment id, combined with an exact partner type match.
func (f Filter) Matches(r models.AssessmentRecord) bool {
	if pt := strings.ToLower(strings.TrimSpace(f.PartnerType)); pt != "" && pt != AllTypes {
		if string(r.PartnerType) != pt {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.PartnerName), q) ||
		strings.Contains(strings.ToLower(r.AssessmentID), q)
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []models.AssessmentRecord) []models.AssessmentRecord {
	out := make([]models.AssessmentRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

type Input struct {
	Limit  int    `json:"limit"`
	Filter Filter `json:"filter"`
}

type Output struct {
	Records []models.AssessmentRecord `json:"records"`
	Shown   int                       `json:"shown"`
	Loaded  int                       `json:"loaded"`
}
