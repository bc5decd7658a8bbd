// internal/views/assessment/models.go
package assessment

import (
	"github.com/anujsoni3/NovaScore/internal/models"
)

// Input is one complete form submission, values keyed by field name as the
// user typed them.
type Input struct {
	PartnerType string            `json:"partnerType"`
	Values      map[string]string `json:"values"`
}

type Output struct {
	Result   *models.AssessmentResult  `json:"result"`
	Coverage *models.FeatureValidation `json:"coverage,omitempty"`
}
