package models

// DailyCount is one day of the recent assessment trend.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ModelInfo describes the scoring model behind the service.
type ModelInfo struct {
	ModelName     string `json:"model_name"`
	FeaturesCount int    `json:"features_count"`
}

// DashboardStats is the response of GET /api/dashboard-stats.
type DashboardStats struct {
	TotalAssessments    int                  `json:"total_assessments"`
	ApprovalRate        float64              `json:"approval_rate"`
	AvgNovaScore        float64              `json:"avg_nova_score"`
	DailyAssessments    []DailyCount         `json:"daily_assessments"`
	RiskDistribution    map[RiskCategory]int `json:"risk_distribution"`
	PartnerDistribution map[PartnerType]int  `json:"partner_distribution"`
	ModelInfo           *ModelInfo           `json:"model_info,omitempty"`
}

// PartnerTypeDescriptor is one entry of GET /api/partner-types.
type PartnerTypeDescriptor struct {
	ID             PartnerType `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	RequiredFields []string    `json:"required_fields"`
}

// PartnerTypeCatalog is the response of GET /api/partner-types.
type PartnerTypeCatalog struct {
	PartnerTypes []PartnerTypeDescriptor `json:"partner_types"`
}

// Find returns the descriptor for pt, if the service lists it.
func (c *PartnerTypeCatalog) Find(pt PartnerType) (PartnerTypeDescriptor, bool) {
	for _, d := range c.PartnerTypes {
		if d.ID == pt {
			return d, true
		}
	}
	return PartnerTypeDescriptor{}, false
}

// HealthStatus is the response of GET /api/health.
type HealthStatus struct {
	Status         string   `json:"status"`
	Timestamp      string   `json:"timestamp,omitempty"`
	Version        string   `json:"version,omitempty"`
	ModelStatus    string   `json:"model_status,omitempty"`
	ModelName      string   `json:"model_name,omitempty"`
	TestPrediction *float64 `json:"test_prediction,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Healthy reports whether the service said it is healthy.
func (h *HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// FeatureValidation is the response of POST /api/validate-features.
type FeatureValidation struct {
	Valid                   bool     `json:"valid"`
	MissingRequiredFeatures []string `json:"missing_required_features"`
	ProvidedFeatures        []string `json:"provided_features"`
	ExpectedModelFeatures   []string `json:"expected_model_features"`
	CoveragePercentage      float64  `json:"coverage_percentage"`
}

// APIErrorBody is the error envelope the service returns on non-2xx responses.
type APIErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Text merges both fields into one line.
func (b APIErrorBody) Text() string {
	switch {
	case b.Error != "" && b.Message != "":
		return b.Error + ": " + b.Message
	case b.Error != "":
		return b.Error
	default:
		return b.Message
	}
}

// ModelDetails is the response of GET /api/model-info.
type ModelDetails struct {
	ModelName    string                 `json:"model_name"`
	ModelParams  map[string]interface{} `json:"model_params,omitempty"`
	FeatureCount int                    `json:"feature_count"`
	FeatureNames []string               `json:"feature_names"`
	Status       string                 `json:"status"`
}
