// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anujsoni3/NovaScore/internal/api"
	"github.com/anujsoni3/NovaScore/internal/api/apitest"
	"github.com/anujsoni3/NovaScore/internal/common/config"
	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/notify"
	"github.com/anujsoni3/NovaScore/internal/common/observability"
	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/assessment"
	"github.com/anujsoni3/NovaScore/internal/views/batch"
	"github.com/anujsoni3/NovaScore/internal/views/dashboard"
	"github.com/anujsoni3/NovaScore/internal/views/history"
	"github.com/anujsoni3/NovaScore/pkg/catalog"
)

// env is what the CLI wires once per run: one client shared by every view.
type env struct {
	srv      *apitest.Server
	cfg      *config.Config
	client   *api.Client
	catalog  *catalog.Catalog
	notifier *notify.Recorder
	obs      *observability.Observability
	log      logger.Logger
}

func newEnv(t *testing.T) *env {
	srv := apitest.NewServer(t)
	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = 5000

	log := logger.NewTestLogger(t)
	return &env{
		srv:      srv,
		cfg:      cfg,
		client:   api.NewClient(api.LoadConfig(cfg), log),
		catalog:  catalog.Default(),
		notifier: notify.NewRecorder(),
		obs:      observability.NewNoop(),
		log:      log,
	}
}

var partners = []struct {
	partnerType string
	values      map[string]string
}{
	{"driver", map[string]string{
		"partner_name": "John Doe", "monthly_earning": "25000", "yearly_earning": "300000",
		"customer_rating": "4.5", "active_days": "25", "working_tenure_ingrab": "12",
		"total_trips": "150", "vehicle_age": "3", "trip_distance": "8.5", "peak_hours_ratio": "0.7",
	}},
	{"merchant", map[string]string{
		"partner_name": "Pizza Palace", "monthly_earning": "35000", "yearly_earning": "420000",
		"customer_rating": "4.2", "active_days": "28", "working_tenure_ingrab": "18",
		"total_orders": "200", "avg_ordervalue": "450", "preparation_time": "15.5",
		"menu_diversity": "40", "consumer_retention_rate": "0.75",
	}},
	{"delivery_partner", map[string]string{
		"partner_name": "Slow Courier", "monthly_earning": "12000", "yearly_earning": "144000",
		"customer_rating": "2.1", "active_days": "10", "working_tenure_ingrab": "2",
		"complaint_rate": "12", "total_deliveries": "40", "avg_delivery_time": "48",
		"delivery_success_rate": "0.6", "batch_delivery_ratio": "0.1",
	}},
}

func TestFullE2E(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	t.Run("service health", func(t *testing.T) { testHealth(ctx, t, e) })
	t.Run("catalog matches service", func(t *testing.T) { testCatalog(ctx, t, e) })
	t.Run("single assessments", func(t *testing.T) { testAssessments(ctx, t, e) })
	t.Run("batch upload", func(t *testing.T) { testBatch(ctx, t, e) })
	t.Run("history", func(t *testing.T) { testHistory(ctx, t, e) })
	t.Run("dashboard", func(t *testing.T) { testDashboard(ctx, t, e) })
	t.Run("failures stay scoped", func(t *testing.T) { testFailureIsolation(ctx, t, e) })
}

// ==========================
// 1. Connectivity
// ==========================

func testHealth(ctx context.Context, t *testing.T, e *env) {
	status, err := e.client.CheckHealth(ctx)
	require.NoError(t, err)
	assert.True(t, status.Healthy())

	info, err := e.client.FetchModelInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, apitest.ModelName, info.ModelName)
	assert.Len(t, info.FeatureNames, info.FeatureCount)
}

func testCatalog(ctx context.Context, t *testing.T, e *env) {
	remote, err := e.client.FetchPartnerTypes(ctx)
	require.NoError(t, err)

	for _, pt := range models.PartnerTypes {
		_, ok := remote.Find(pt)
		assert.True(t, ok, "service lists %s", pt)
		_, ok = e.catalog.PartnerType(string(pt))
		assert.True(t, ok, "catalog describes %s", pt)
	}
}

// ==========================
// 2. Assessment view
// ==========================

func testAssessments(ctx context.Context, t *testing.T, e *env) {
	cfg := assessment.LoadConfig(e.cfg)
	cfg.Preflight = true
	h, err := assessment.NewHandler(cfg, e.client, e.catalog, e.notifier, e.obs, e.log)
	require.NoError(t, err)
	defer h.Close()

	for _, p := range partners {
		out, err := h.Execute(ctx, &assessment.Input{PartnerType: p.partnerType, Values: p.values})
		require.NoError(t, err, p.partnerType)
		require.NotNil(t, out.Coverage)
		assert.Equal(t, p.values["partner_name"], out.Result.PartnerName)

		var buf bytes.Buffer
		require.NoError(t, assessment.RenderResult(&buf, out.Result))
		if out.Result.LoanDecision.Approved {
			assert.Contains(t, buf.String(), "Max Amount")
		} else {
			assert.Contains(t, buf.String(), "Reason")
			assert.NotContains(t, buf.String(), "Monthly EMI")
		}
	}

	assert.Equal(t, len(partners), e.notifier.Count(notify.LevelSuccess))
	assert.Equal(t, len(partners), e.srv.Count("/api/assess-partner"))

	last := e.srv.Requests("/api/assess-partner")[2]
	assert.Contains(t, string(last.Body), `"complaint_rate":0.12`)
}

// ==========================
// 3. Batch view
// ==========================

func testBatch(ctx context.Context, t *testing.T, e *env) {
	dir := t.TempDir()
	path := filepath.Join(dir, batch.TemplateFilename)
	var tmpl bytes.Buffer
	require.NoError(t, batch.WriteTemplate(&tmpl))
	require.NoError(t, os.WriteFile(path, tmpl.Bytes(), 0o600))

	h := batch.NewHandler(batch.LoadConfig(e.cfg), e.client, e.notifier, e.obs, e.log)
	defer h.Close()

	out, err := h.Execute(ctx, &batch.Input{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Summary.TotalProcessed)
	assert.Equal(t, 100.0, out.Summary.SuccessRate)

	last, _ := e.notifier.Last()
	assert.Equal(t, "Successfully processed 3 assessments", last.Text)

	var exported bytes.Buffer
	require.NoError(t, h.ExportResults(&exported))
	parsed, err := batch.ParseRecords(&exported)
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	for i, r := range out.Result.Results {
		assert.Equal(t, r.PartnerName, parsed[i].PartnerName)
		assert.InDelta(t, r.NovaScore, parsed[i].NovaScore, 0.01)
		assert.Equal(t, r.LoanApproved, parsed[i].LoanApproved)
	}
}

// ==========================
// 4. History view
// ==========================

func testHistory(ctx context.Context, t *testing.T, e *env) {
	h := history.NewHandler(history.LoadConfig(e.cfg), e.client, e.notifier, e.obs, e.log)
	defer h.Close()

	out, err := h.Execute(ctx, &history.Input{Filter: history.Filter{Search: "pizza"}})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Loaded, "three single and three batch assessments")
	assert.Equal(t, 2, out.Shown)

	slow := h.Filtered(history.Filter{PartnerType: "delivery_partner", Search: "slow"})
	require.Len(t, slow, 1)
	assert.False(t, slow[0].LoanApproved)
	assert.Nil(t, slow[0].LoanAmount)

	var buf bytes.Buffer
	require.NoError(t, h.Export(&buf, history.Filter{PartnerType: "delivery_partner", Search: "slow"}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",Slow Courier,delivery_partner,42,Poor,No,0,")
}

// ==========================
// 5. Dashboard view
// ==========================

func testDashboard(ctx context.Context, t *testing.T, e *env) {
	h := dashboard.NewHandler(dashboard.LoadConfig(e.cfg), e.client, e.notifier, e.obs, e.log)
	defer h.Close()

	out, err := h.Execute(ctx, &dashboard.Input{})
	require.NoError(t, err)
	snap := out.Snapshot

	assert.Equal(t, 6, snap.Stats.TotalAssessments)
	assert.Equal(t, 6, snap.Derived.TodayAssessments)

	var total float64
	approved := 0
	for i := range snap.History {
		if snap.History[i].LoanApproved {
			approved++
			total += snap.History[i].Amount()
		}
	}
	assert.Equal(t, total, snap.Derived.TotalLoanValue)
	assert.InDelta(t, total/float64(approved), snap.Derived.AvgLoanAmount, 1e-6)

	require.NotEmpty(t, snap.Derived.PartnerPerformance)
	assert.Equal(t, models.PartnerTypeDriver, snap.Derived.PartnerPerformance[0].PartnerType)
	assert.Equal(t, 2, snap.Derived.PartnerPerformance[0].Total)
}

// ==========================
// 6. Failure isolation
// ==========================

func testFailureIsolation(ctx context.Context, t *testing.T, e *env) {
	h, err := assessment.NewHandler(assessment.LoadConfig(e.cfg), e.client, e.catalog, e.notifier, e.obs, e.log)
	require.NoError(t, err)
	defer h.Close()

	first, err := h.Execute(ctx, &assessment.Input{PartnerType: "driver", Values: partners[0].values})
	require.NoError(t, err)

	e.srv.Fail("/api/assess-partner", http.StatusInternalServerError, "Model not loaded")
	defer e.srv.Recover("/api/assess-partner")

	_, err = h.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryStatus, apperrors.GetErrorCategory(apperrors.CodeOf(err)))

	shown, ok := h.Result()
	require.True(t, ok)
	assert.Equal(t, first.Result.AssessmentID, shown.AssessmentID)

	last, _ := e.notifier.Last()
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Contains(t, last.Text, "Model not loaded")

	// other views keep working
	_, err = e.client.FetchHistory(ctx, api.WithLimit(1))
	require.NoError(t, err)
}
