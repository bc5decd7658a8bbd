package models

import (
	"encoding/json"
	"time"

	"github.com/spf13/cast"
)

// AssessmentRecord is one stored assessment, as returned in history and batch results.
type AssessmentRecord struct {
	AssessmentID        string       `json:"assessment_id"`
	PartnerType         PartnerType  `json:"partner_type,omitempty"`
	PartnerName         string       `json:"partner_name"`
	NovaScore           float64      `json:"nova_score"`
	RiskCategory        RiskCategory `json:"risk_category"`
	LoanApproved        bool         `json:"loan_approved"`
	LoanAmount          *float64     `json:"loan_amount,omitempty"`
	InterestRate        *float64     `json:"interest_rate,omitempty"`
	MonthlyEarning      *float64     `json:"monthly_earning,omitempty"`
	YearlyEarning       *float64     `json:"yearly_earning,omitempty"`
	CustomerRating      *float64     `json:"customer_rating,omitempty"`
	ActiveDays          *int         `json:"active_days,omitempty"`
	WorkingTenureInGrab *float64     `json:"working_tenure_ingrab,omitempty"`
	CreatedAt           string       `json:"created_at,omitempty"`

	// Extra holds any echoed field this type does not name.
	Extra map[string]interface{} `json:"-"`
}

var recordKnownKeys = map[string]bool{
	"assessment_id": true, "id": true, "partner_type": true, "partner_name": true,
	"nova_score": true, "risk_category": true, "loan_approved": true, "loan_amount": true,
	"interest_rate": true, "monthly_earning": true, "yearly_earning": true,
	"customer_rating": true, "active_days": true, "working_tenure_ingrab": true,
	"created_at": true,
}

// UnmarshalJSON tolerates the shapes the service actually emits: history rows
// come straight from the database, so the id may be keyed `id`, booleans may
// be 0/1 and numeric columns may be null.
func (r *AssessmentRecord) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = RecordFromMap(raw)
	return nil
}

// RecordFromMap builds a record from loosely typed values, such as decoded
// JSON or the cells of a CSV row keyed by header.
func RecordFromMap(raw map[string]interface{}) AssessmentRecord {
	rec := AssessmentRecord{}
	rec.AssessmentID = cast.ToString(raw["assessment_id"])
	if rec.AssessmentID == "" {
		rec.AssessmentID = cast.ToString(raw["id"])
	}
	rec.PartnerType = PartnerType(cast.ToString(raw["partner_type"]))
	rec.PartnerName = cast.ToString(raw["partner_name"])
	rec.NovaScore = cast.ToFloat64(raw["nova_score"])
	rec.RiskCategory = RiskCategory(cast.ToString(raw["risk_category"]))
	rec.LoanApproved = looseBool(raw["loan_approved"])
	rec.LoanAmount = optionalFloat(raw, "loan_amount")
	rec.InterestRate = optionalFloat(raw, "interest_rate")
	rec.MonthlyEarning = optionalFloat(raw, "monthly_earning")
	rec.YearlyEarning = optionalFloat(raw, "yearly_earning")
	rec.CustomerRating = optionalFloat(raw, "customer_rating")
	rec.WorkingTenureInGrab = optionalFloat(raw, "working_tenure_ingrab")
	if v, ok := raw["active_days"]; ok && v != nil {
		if days, err := cast.ToIntE(v); err == nil {
			rec.ActiveDays = &days
		}
	}
	rec.CreatedAt = cast.ToString(raw["created_at"])

	for k, v := range raw {
		if recordKnownKeys[k] {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]interface{})
		}
		rec.Extra[k] = v
	}
	return rec
}

func optionalFloat(raw map[string]interface{}, key string) *float64 {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

// looseBool accepts JSON booleans, 0/1 numbers and "true"/"1" strings.
func looseBool(v interface{}) bool {
	if f, ok := v.(float64); ok {
		return f != 0
	}
	return cast.ToBool(v)
}

// Amount returns the loan amount, or 0 when the service sent none.
func (r *AssessmentRecord) Amount() float64 {
	if r.LoanAmount == nil {
		return 0
	}
	return *r.LoanAmount
}

// CreatedTime parses CreatedAt.
func (r *AssessmentRecord) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(r.CreatedAt)
}

// BatchResult is the response of POST /api/batch-assess. Rows are not
// guaranteed to follow the order of the uploaded file.
type BatchResult struct {
	Message        string             `json:"message,omitempty"`
	TotalProcessed int                `json:"total_processed"`
	TotalRows      int                `json:"total_rows"`
	Results        []AssessmentRecord `json:"results"`
	ModelUsed      string             `json:"model_used,omitempty"`
}

// HistoryResponse is the response of GET /api/assessment-history.
type HistoryResponse struct {
	Assessments []AssessmentRecord `json:"assessments"`
	Total       int                `json:"total"`
}
