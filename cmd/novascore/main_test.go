// cmd/novascore/main_test.go
package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anujsoni3/NovaScore/internal/api/apitest"
)

// ==========================
// Helpers
// ==========================

const testConfig = `app:
  name: novascore
  version: test
api:
  base_url: http://localhost:8000
  timeout: 5000
logging:
  level: error
  format: console
`

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, srv *apitest.Server, args ...string) result {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--api-url", srv.URL}, args...))
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func driverArgs() []string {
	return []string{
		"assess", "--type", "driver",
		"--set", "partner_name=John Doe",
		"--set", "monthly_earning=25000",
		"--set", "yearly_earning=300000",
		"--set", "customer_rating=4.5",
		"--set", "active_days=25",
		"--set", "working_tenure_ingrab=12",
		"--set", "complaint_rate=3",
		"--set", "total_trips=150",
		"--set", "vehicle_age=3",
		"--set", "trip_distance=8.5",
		"--set", "peak_hours_ratio=0.7",
	}
}

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// ==========================
// assess
// ==========================

func TestAssess_FromFlags(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, driverArgs()...)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "John Doe")
	assert.Contains(t, res.stdout, "Excellent")
	assert.Contains(t, res.stdout, "₹250,000")
	assert.Contains(t, res.stderr, "✔ Assessment completed successfully!")

	reqs := srv.Requests("/api/assess-partner")
	require.Len(t, reqs, 1)
	assert.Contains(t, string(reqs[0].Body), `"complaint_rate":0.03`)
}

func TestAssess_FromFileWithCheck(t *testing.T) {
	srv := apitest.NewServer(t)
	values := writeTemp(t, "merchant.yaml", []byte(`partner_name: Pizza Palace
monthly_earning: 35000
yearly_earning: 420000
customer_rating: 4.2
active_days: 28
working_tenure_ingrab: 18
total_orders: 200
avg_ordervalue: 450
preparation_time: 15.5
menu_diversity: 40
consumer_retention_rate: 0.75
`))

	res := run(t, srv, "assess", "--type", "merchant", "--file", values, "--check")
	require.NoError(t, res.err, res.stderr)

	assert.Equal(t, 1, srv.Count("/api/validate-features"))
	assert.Equal(t, 1, srv.Count("/api/assess-partner"))
	assert.Contains(t, res.stdout, "Feature Coverage")
	assert.Contains(t, res.stdout, "Pizza Palace")
}

func TestAssess_MissingFieldsNeverSent(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "assess", "--type", "driver", "--set", "partner_name=John Doe")
	require.Error(t, res.err)
	assert.Zero(t, srv.Count("/api/assess-partner"))
	assert.Contains(t, res.stderr, "✖")
}

func TestAssess_InvalidSet(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "assess", "--type", "driver", "--set", "oops")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "name=value")
}

func TestAssess_Form(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "assess", "--type", "delivery_partner", "--form", "--set", "partner_name=Quick Delivery")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "delivery_success_rate")
	assert.Contains(t, res.stdout, "Quick Delivery")
	assert.Zero(t, srv.Count("/api/assess-partner"))
}

// ==========================
// batch
// ==========================

func TestBatch_TemplateUploadInspect(t *testing.T) {
	srv := apitest.NewServer(t)
	dir := t.TempDir()
	template := filepath.Join(dir, "batch_assessment_template.csv")
	results := filepath.Join(dir, "results.csv")

	res := run(t, srv, "batch", "template", "-o", template)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Template saved")

	res = run(t, srv, "batch", "upload", template, "--export", results)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Processing Summary")
	assert.Contains(t, res.stdout, "100.0%")
	assert.Contains(t, res.stderr, "Successfully processed 3 assessments")

	exported, err := os.ReadFile(results)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(exported), "assessment_id,partner_name,nova_score,risk_category,loan_approved,loan_amount\n"))

	res = run(t, srv, "batch", "inspect", results)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Pizza Palace")
	assert.Contains(t, res.stdout, "Quick Delivery")
}

func TestBatch_TemplateToStdout(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "batch", "template", "-o", "-")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "partner_type,partner_name,"))
}

func TestBatch_UploadRejectsNonCSV(t *testing.T) {
	srv := apitest.NewServer(t)
	png := writeTemp(t, "logo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))

	res := run(t, srv, "batch", "upload", png)
	require.Error(t, res.err)
	assert.Zero(t, srv.Count("/api/batch-assess"))
	assert.Contains(t, res.stderr, "Please select a valid CSV file")
}

// ==========================
// history
// ==========================

func seed(srv *apitest.Server) {
	srv.Seed(map[string]interface{}{
		"id": "seed-driver", "partner_type": "driver", "partner_name": "John Doe", "nova_score": 78.4,
		"risk_category": "Good", "loan_approved": 1, "loan_amount": 500000, "monthly_earning": 25000,
		"working_tenure_ingrab": 12, "created_at": "2024-03-05 10:15:00",
	})
	srv.Seed(map[string]interface{}{
		"id": "seed-merchant", "partner_type": "merchant", "partner_name": "Pizza Palace", "nova_score": 42,
		"risk_category": "Poor", "loan_approved": 0, "loan_amount": nil, "created_at": "2024-11-20 08:00:00",
	})
}

func TestHistory(t *testing.T) {
	srv := apitest.NewServer(t)
	seed(srv)

	res := run(t, srv, "history", "--search", "john")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Showing 1 of 2 assessments")
	assert.Equal(t, "limit=100", srv.Requests("/api/assessment-history")[0].Query)

	res = run(t, srv, "history", "--type", "merchant", "--export", "-", "--limit", "10")
	require.NoError(t, res.err)
	assert.Equal(t, "ID,Partner Name,Type,NovaScore,Risk Category,Loan Approved,Amount,Date\n"+
		"seed-merchant,Pizza Palace,merchant,42,Poor,No,0,11/20/2024\n", res.stdout)
	assert.Equal(t, "limit=10", srv.Requests("/api/assessment-history")[1].Query)

	res = run(t, srv, "history", "--id", "seed-driver")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Partner Information")
	assert.Contains(t, res.stdout, "12 months")
}

func TestHistory_ExportFile(t *testing.T) {
	srv := apitest.NewServer(t)
	seed(srv)
	path := filepath.Join(t.TempDir(), "assessment_history.csv")

	res := run(t, srv, "history", "--export", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Exported 2 assessments")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)
}

func TestHistory_InvalidType(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "history", "--type", "boat")
	require.Error(t, res.err)
	assert.Zero(t, srv.Count("/api/assessment-history"))
}

func TestInvalidAPIURLFlag(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "--api-url", "ftp://files.example.com", "health")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "api.base_url must use http or https")
	assert.Zero(t, srv.Count("/api/health"))
}

// ==========================
// dashboard, partner-types, health
// ==========================

func TestDashboard(t *testing.T) {
	srv := apitest.NewServer(t)
	seed(srv)

	res := run(t, srv, "dashboard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Total Assessments")
	assert.Contains(t, res.stdout, "Risk Category Performance")
	assert.Contains(t, res.stdout, "₹5.0L")
	assert.Equal(t, "limit=100", srv.Requests("/api/assessment-history")[0].Query)
}

func TestDashboard_Failure(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Fail("/api/dashboard-stats", http.StatusInternalServerError, "Failed to get stats")

	res := run(t, srv, "dashboard")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Failed to get stats")
}

func TestPartnerTypes(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "partner-types")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "delivery_partner")
	assert.Equal(t, 1, srv.Count("/api/partner-types"))

	res = run(t, srv, "partner-types", "--fields")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "peak_hours_ratio")
	assert.Contains(t, res.stdout, "0..20 %")
	assert.Equal(t, 1, srv.Count("/api/partner-types"), "--fields stays local")
}

func TestHealth(t *testing.T) {
	srv := apitest.NewServer(t)

	res := run(t, srv, "health")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "healthy")
	assert.Contains(t, res.stdout, apitest.ModelName)
	assert.Equal(t, 1, srv.Count("/api/model-info"))
}

func TestMetricsServer(t *testing.T) {
	ts := httptest.NewServer(newMetricsServer(":0").Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "novascore_dashboard_stale_responses_total")
}
