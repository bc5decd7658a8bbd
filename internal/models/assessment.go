package models

import (
	"time"
)

// RiskCategory is the bucketed label the service derives from a NovaScore.
type RiskCategory string

const (
	RiskExcellent RiskCategory = "Excellent"
	RiskGood      RiskCategory = "Good"
	RiskFair      RiskCategory = "Fair"
	RiskPoor      RiskCategory = "Poor"
)

// RiskCategories lists the known categories from best to worst.
var RiskCategories = []RiskCategory{RiskExcellent, RiskGood, RiskFair, RiskPoor}

// Rank orders categories best first. Unknown categories sort last.
func (r RiskCategory) Rank() int {
	for i, c := range RiskCategories {
		if c == r {
			return i
		}
	}
	return len(RiskCategories)
}

// LoanDecision carries the loan terms. Reason is only meaningful when Approved is false.
type LoanDecision struct {
	Approved     bool     `json:"approved"`
	MaxAmount    *float64 `json:"max_amount,omitempty"`
	InterestRate *float64 `json:"interest_rate,omitempty"`
	TenureMonths *int     `json:"tenure_months,omitempty"`
	MonthlyEMI   *float64 `json:"monthly_emi,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// AssessmentResult is the response of POST /api/assess-partner.
type AssessmentResult struct {
	AssessmentID    string       `json:"assessment_id"`
	PartnerType     PartnerType  `json:"partner_type"`
	PartnerName     string       `json:"partner_name"`
	NovaScore       float64      `json:"nova_score"`
	RiskCategory    RiskCategory `json:"risk_category"`
	LoanDecision    LoanDecision `json:"loan_decision"`
	Recommendations []string     `json:"recommendations"`
	ModelUsed       string       `json:"model_used,omitempty"`
	Timestamp       string       `json:"timestamp,omitempty"`
}

// Time parses Timestamp, returning the zero time when it is absent or malformed.
func (r *AssessmentResult) Time() time.Time {
	t, _ := ParseTimestamp(r.Timestamp)
	return t
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 as well as the zone-less forms the service emits.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
