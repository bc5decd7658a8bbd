// internal/views/assessment/handler_test.go
package assessment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/notify"
	"github.com/anujsoni3/NovaScore/internal/common/observability"
	"github.com/anujsoni3/NovaScore/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

type fakeClient struct {
	submitCalls   int32
	validateCalls int32
	submit        func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error)
	validate      func(ctx context.Context, req *models.AssessmentRequest) (*models.FeatureValidation, error)
}

func (f *fakeClient) SubmitAssessment(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
	atomic.AddInt32(&f.submitCalls, 1)
	return f.submit(ctx, req)
}

func (f *fakeClient) ValidateFeatures(ctx context.Context, req *models.AssessmentRequest) (*models.FeatureValidation, error) {
	atomic.AddInt32(&f.validateCalls, 1)
	return f.validate(ctx, req)
}

func driverValues() map[string]string {
	return map[string]string{
		"partner_name":          "John Doe",
		"monthly_earning":       "25000",
		"yearly_earning":        "300000",
		"customer_rating":       "4.5",
		"active_days":           "25",
		"working_tenure_ingrab": "12",
		"total_trips":           "150",
		"vehicle_age":           "3",
		"trip_distance":         "8.5",
		"peak_hours_ratio":      "0.7",
	}
}

func approvedResult(id string) *models.AssessmentResult {
	amount, rate, emi := 500000.0, 12.0, 23537.0
	tenure := 24
	return &models.AssessmentResult{
		AssessmentID: id,
		PartnerType:  models.PartnerTypeDriver,
		PartnerName:  "John Doe",
		NovaScore:    78.4,
		RiskCategory: models.RiskGood,
		LoanDecision: models.LoanDecision{
			Approved: true, MaxAmount: &amount, InterestRate: &rate, TenureMonths: &tenure, MonthlyEMI: &emi,
		},
		Recommendations: []string{"Keep your rating above 4.5", "Work more peak hours"},
	}
}

func newTestHandler(t *testing.T, client *fakeClient) (*Handler, *notify.Recorder) {
	t.Helper()
	rec := notify.NewRecorder()
	h, err := NewHandler(&Config{}, client, nil, rec, observability.NewNoop(), &testLogger{t: t})
	require.NoError(t, err)
	return h, rec
}

// ==========================
// Form Tests
// ==========================

func TestForm_BuildDriver(t *testing.T) {
	f := NewForm(nil, models.PartnerTypeDriver)
	require.NoError(t, f.SetAll(driverValues()))
	require.NoError(t, f.Set("complaint_rate", "3"))

	data, err := f.Build()
	require.NoError(t, err)

	driver, ok := data.(*models.DriverData)
	require.True(t, ok)
	assert.Equal(t, "John Doe", driver.PartnerName)
	assert.Equal(t, 150, driver.TotalTrips)
	assert.Equal(t, 25, driver.ActiveDays)
	assert.Equal(t, 0.7, driver.PeakHoursRatio)
	require.NotNil(t, driver.ComplaintRate)
	assert.InDelta(t, 0.03, *driver.ComplaintRate, 1e-12)
	assert.Nil(t, driver.CancellationRate, "unset rates are omitted, not defaulted")
}

func TestForm_BuildErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *Form)
		wantCode  apperrors.ErrorCode
		wantField string
	}{
		{
			name:      "missing required field",
			mutate:    func(f *Form) { _ = f.Set("total_trips", "") },
			wantCode:  apperrors.ErrCodeRequiredFieldsMissing,
			wantField: "total_trips",
		},
		{
			name:      "percent above range",
			mutate:    func(f *Form) { _ = f.Set("cancellation_rate", "25") },
			wantCode:  apperrors.ErrCodeValidationFailed,
			wantField: "cancellation_rate",
		},
		{
			name:      "not a number",
			mutate:    func(f *Form) { _ = f.Set("monthly_earning", "lots") },
			wantCode:  apperrors.ErrCodeValidationFailed,
			wantField: "monthly_earning",
		},
		{
			name:      "fractional integer",
			mutate:    func(f *Form) { _ = f.Set("total_trips", "150.5") },
			wantCode:  apperrors.ErrCodeValidationFailed,
			wantField: "total_trips",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForm(nil, models.PartnerTypeDriver)
			require.NoError(t, f.SetAll(driverValues()))
			tt.mutate(f)

			_, err := f.Build()
			require.Error(t, err)
			stdErr, ok := apperrors.AsStandard(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Contains(t, stdErr.Details, tt.wantField)
		})
	}
}

func TestForm_SetTypeClearsValues(t *testing.T) {
	f := NewForm(nil, models.PartnerTypeDriver)
	require.NoError(t, f.SetAll(driverValues()))

	require.NoError(t, f.SetType(models.PartnerTypeMerchant))
	assert.Empty(t, f.Values())
	assert.Contains(t, f.Missing(), "total_orders")
	assert.Contains(t, f.Missing(), "partner_name")
	assert.NotContains(t, f.Missing(), "complaint_rate")

	err := f.Set("total_trips", "10")
	assert.True(t, errors.Is(err, ErrUnknownField))

	err = f.SetType("bus_driver")
	assert.Equal(t, apperrors.ErrCodeInvalidPartnerType, apperrors.CodeOf(err))
}

func TestForm_ValueShowsDefaults(t *testing.T) {
	f := NewForm(nil, models.PartnerTypeDriver)

	v, ok := f.Value("complaint_rate")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	v, _ = f.Value("cancellation_rate")
	assert.Equal(t, "5", v)

	_, ok = f.Value("partner_name")
	assert.False(t, ok)
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_SubmitSuccess(t *testing.T) {
	client := &fakeClient{
		submit: func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
			assert.Equal(t, models.PartnerTypeDriver, req.PartnerType())
			return approvedResult("a-1"), nil
		},
	}
	h, rec := newTestHandler(t, client)
	require.NoError(t, h.Form().SetAll(driverValues()))

	res, err := h.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a-1", res.AssessmentID)

	shown, ok := h.Result()
	require.True(t, ok)
	assert.Equal(t, "a-1", shown.AssessmentID)

	last, _ := rec.Last()
	assert.Equal(t, notify.LevelSuccess, last.Level)
	assert.Equal(t, "Assessment completed successfully!", last.Text)
}

func TestHandler_IncompleteFormNeverReachesService(t *testing.T) {
	client := &fakeClient{}
	h, rec := newTestHandler(t, client)
	require.NoError(t, h.Form().Set("partner_name", "John Doe"))

	_, err := h.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRequiredFieldsMissing, apperrors.CodeOf(err))
	assert.Zero(t, atomic.LoadInt32(&client.submitCalls))

	last, _ := rec.Last()
	assert.Equal(t, notify.LevelError, last.Level)
	assert.True(t, strings.HasPrefix(last.Text, "Please fill in all required fields"))
}

func TestHandler_SchemaRejectsOutOfRange(t *testing.T) {
	client := &fakeClient{}
	h, _ := newTestHandler(t, client)
	values := driverValues()
	values["customer_rating"] = "6"
	require.NoError(t, h.Form().SetAll(values))

	_, err := h.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, atomic.LoadInt32(&client.submitCalls))
}

func TestHandler_FailureKeepsPreviousResult(t *testing.T) {
	calls := 0
	client := &fakeClient{
		submit: func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
			calls++
			if calls == 1 {
				return approvedResult("a-1"), nil
			}
			return nil, apperrors.NewUnexpectedStatusError("assess_partner", 500, "Assessment failed: model not loaded")
		},
	}
	h, rec := newTestHandler(t, client)
	require.NoError(t, h.Form().SetAll(driverValues()))

	_, err := h.Submit(context.Background())
	require.NoError(t, err)

	_, err = h.Submit(context.Background())
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, 500, stdErr.StatusCode())

	shown, ok := h.Result()
	require.True(t, ok)
	assert.Equal(t, "a-1", shown.AssessmentID)

	assert.Equal(t, 1, rec.Count(notify.LevelSuccess))
	assert.Equal(t, 1, rec.Count(notify.LevelError))
	last, _ := rec.Last()
	assert.Contains(t, last.Text, "model not loaded")
}

func TestHandler_TypeChangeDuringSubmitDiscardsResult(t *testing.T) {
	var h *Handler
	client := &fakeClient{
		submit: func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
			require.NoError(t, h.SetPartnerType(models.PartnerTypeMerchant))
			return approvedResult("late"), nil
		},
	}
	h, rec := newTestHandler(t, client)
	require.NoError(t, h.Form().SetAll(driverValues()))

	_, err := h.Submit(context.Background())
	assert.True(t, errors.Is(err, ErrSuperseded))

	_, ok := h.Result()
	assert.False(t, ok)
	assert.Empty(t, rec.Messages())
	assert.Equal(t, models.PartnerTypeMerchant, h.Form().PartnerType())
}

func TestHandler_CloseDropsLateResult(t *testing.T) {
	var h *Handler
	client := &fakeClient{
		submit: func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
			h.Close()
			return approvedResult("late"), nil
		},
	}
	h, _ = newTestHandler(t, client)
	require.NoError(t, h.Form().SetAll(driverValues()))

	_, err := h.Submit(context.Background())
	assert.True(t, errors.Is(err, ErrSuperseded))
	_, ok := h.Result()
	assert.False(t, ok)
}

func TestHandler_SetPartnerTypeClearsResult(t *testing.T) {
	client := &fakeClient{
		submit: func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
			return approvedResult("a-1"), nil
		},
	}
	h, _ := newTestHandler(t, client)
	require.NoError(t, h.Form().SetAll(driverValues()))
	_, err := h.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.SetPartnerType(models.PartnerTypeDeliveryPartner))
	_, ok := h.Result()
	assert.False(t, ok)
	assert.Empty(t, h.Form().Values())
}

func TestHandler_ExecuteWithPreflight(t *testing.T) {
	client := &fakeClient{
		validate: func(ctx context.Context, req *models.AssessmentRequest) (*models.FeatureValidation, error) {
			return &models.FeatureValidation{Valid: true, CoveragePercentage: 80}, nil
		},
		submit: func(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
			merchant, ok := req.Data.(*models.MerchantData)
			require.True(t, ok)
			assert.Equal(t, 200, merchant.TotalOrders)
			res := approvedResult("m-1")
			res.PartnerType = models.PartnerTypeMerchant
			return res, nil
		},
	}
	h, _ := newTestHandler(t, client)
	h.config.Preflight = true

	out, err := h.Execute(context.Background(), &Input{
		PartnerType: "Merchant",
		Values: map[string]string{
			"partner_name":            "Pizza Palace",
			"monthly_earning":         "35000",
			"yearly_earning":          "420000",
			"customer_rating":         "4.2",
			"active_days":             "28",
			"working_tenure_ingrab":   "18",
			"total_orders":            "200",
			"avg_ordervalue":          "175.5",
			"preparation_time":        "15",
			"menu_diversity":          "40",
			"consumer_retention_rate": "0.65",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", out.Result.AssessmentID)
	require.NotNil(t, out.Coverage)
	assert.Equal(t, 80.0, out.Coverage.CoveragePercentage)
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.validateCalls))
}

func TestHandler_ExecuteUnknownType(t *testing.T) {
	h, rec := newTestHandler(t, &fakeClient{})
	_, err := h.Execute(context.Background(), &Input{PartnerType: "courier"})
	assert.Equal(t, apperrors.ErrCodeInvalidPartnerType, apperrors.CodeOf(err))
	assert.Equal(t, 1, rec.Count(notify.LevelError))
}

// ==========================
// Rendering Tests
// ==========================

func TestRenderResult_Approved(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, approvedResult("a-1")))
	out := buf.String()

	assert.Contains(t, out, "Approved")
	assert.Contains(t, out, "₹500,000")
	assert.Contains(t, out, "12%")
	assert.Contains(t, out, "24 months")
	assert.Contains(t, out, "₹23,537")

	first := strings.Index(out, "Keep your rating above 4.5")
	second := strings.Index(out, "Work more peak hours")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
}

func TestRenderResult_RejectedShowsOnlyReason(t *testing.T) {
	res := approvedResult("r-1")
	amount := 100000.0
	res.LoanDecision = models.LoanDecision{Approved: false, MaxAmount: &amount, Reason: "NovaScore below 40"}

	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "Not Approved")
	assert.Contains(t, out, "NovaScore below 40")
	for _, hidden := range []string{"Max Amount", "Interest Rate", "Tenure", "Monthly EMI"} {
		assert.NotContains(t, out, hidden)
	}
}

func TestRenderForm(t *testing.T) {
	f := NewForm(nil, models.PartnerTypeDeliveryPartner)
	require.NoError(t, f.Set("partner_name", "Quick Delivery"))

	var buf bytes.Buffer
	require.NoError(t, RenderForm(&buf, f))
	out := buf.String()
	assert.Contains(t, out, "Delivery Partner Assessment")
	assert.Contains(t, out, "Quick Delivery")
	assert.Contains(t, out, "batch_delivery_ratio")
}

func TestRenderCoverage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCoverage(&buf, &models.FeatureValidation{
		Valid:                   false,
		CoveragePercentage:      60,
		MissingRequiredFeatures: []string{"active_days", "working_tenure_ingrab"},
	}))
	out := buf.String()
	assert.Contains(t, out, "Incomplete")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "active_days, working_tenure_ingrab")
}
