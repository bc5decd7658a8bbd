// internal/api/apitest/server_test.go
package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anujsoni3/NovaScore/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		rating   float64
		score    float64
		risk     models.RiskCategory
		approved bool
	}{
		{5.5, 100, models.RiskExcellent, true},
		{4.0, 80, models.RiskExcellent, true},
		{3.5, 70, models.RiskGood, true},
		{2.5, 50, models.RiskFair, true},
		{2.0, 40, models.RiskPoor, false},
	}
	for _, tt := range tests {
		score, risk, approved := Score(map[string]interface{}{"customer_rating": tt.rating})
		assert.InDelta(t, tt.score, score, 1e-9, "rating %v", tt.rating)
		assert.Equal(t, tt.risk, risk, "rating %v", tt.rating)
		assert.Equal(t, tt.approved, approved, "rating %v", tt.rating)
	}
}

func TestServer_AssessAppendsHistory(t *testing.T) {
	srv := NewServer(t)

	body, _ := json.Marshal(map[string]interface{}{
		"partner_type": "driver",
		"partner_data": map[string]interface{}{"partner_name": "John Doe", "customer_rating": 4.5, "monthly_earning": 25000},
	})
	resp, err := http.Post(srv.URL+"/api/assess-partner", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/assessment-history?limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	var history models.HistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history.Assessments, 1)
	assert.Equal(t, "John Doe", history.Assessments[0].PartnerName)
	assert.Equal(t, 250000.0, history.Assessments[0].Amount())
	assert.Equal(t, 1, srv.Count("/api/assess-partner"))
}

func TestServer_Fail(t *testing.T) {
	srv := NewServer(t)
	srv.Fail("/api/dashboard-stats", http.StatusInternalServerError, "Failed to get stats")

	resp, err := http.Get(srv.URL + "/api/dashboard-stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	srv.Recover("/api/dashboard-stats")
	resp, err = http.Get(srv.URL + "/api/dashboard-stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
