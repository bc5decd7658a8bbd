// Package apitest runs an in-process stand-in for the NovaScore assessment
// service. It scores partners with a fixed rule so flows across views can be
// asserted end to end.
package apitest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/anujsoni3/NovaScore/internal/models"
)

const ModelName = "NovaScore XGBoost (test)"

// Request is one call the server received.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

type failure struct {
	status  int
	message string
}

// Server records every request and keeps submitted assessments so that
// history and dashboard stats reflect them.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	rows     []map[string]interface{}
	failures map[string]failure
	now      func() time.Time
}

// NewServer starts a server that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	s := &Server{
		failures: make(map[string]failure),
		now:      time.Now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assess-partner", s.handleAssess)
	mux.HandleFunc("/api/validate-features", s.handleValidate)
	mux.HandleFunc("/api/batch-assess", s.handleBatch)
	mux.HandleFunc("/api/dashboard-stats", s.handleStats)
	mux.HandleFunc("/api/assessment-history", s.handleHistory)
	mux.HandleFunc("/api/partner-types", s.handlePartnerTypes)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/model-info", s.handleModelInfo)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// Fail makes every call to path answer with status and {"error": message}.
func (s *Server) Fail(path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, message: message}
}

// Recover undoes Fail for path.
func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

// Requests returns the calls made to path, oldest first.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Count is the number of calls made to path.
func (s *Server) Count(path string) int {
	return len(s.Requests(path))
}

// Seed stores a row as if it had been assessed earlier.
func (s *Server) Seed(row map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		f, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if failing {
			writeJSON(w, f.status, map[string]string{"error": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Score applies the fixed rule: the customer rating scaled to 0..100.
func Score(partnerData map[string]interface{}) (float64, models.RiskCategory, bool) {
	score := cast.ToFloat64(partnerData["customer_rating"]) * 20
	if score > 100 {
		score = 100
	}
	var risk models.RiskCategory
	switch {
	case score >= 80:
		risk = models.RiskExcellent
	case score >= 65:
		risk = models.RiskGood
	case score >= 50:
		risk = models.RiskFair
	default:
		risk = models.RiskPoor
	}
	return score, risk, score >= 50
}

func (s *Server) assess(partnerType string, data map[string]interface{}) map[string]interface{} {
	score, risk, approved := Score(data)
	id := uuid.NewString()

	decision := map[string]interface{}{"approved": approved}
	var amount interface{}
	if approved {
		maxAmount := cast.ToFloat64(data["monthly_earning"]) * 10
		amount = maxAmount
		decision["max_amount"] = maxAmount
		decision["interest_rate"] = 12.5
		decision["tenure_months"] = 24
		decision["monthly_emi"] = maxAmount / 24
	} else {
		decision["reason"] = "NovaScore below approval threshold"
	}

	row := map[string]interface{}{
		"id":                    id,
		"partner_type":          partnerType,
		"partner_name":          data["partner_name"],
		"nova_score":            score,
		"risk_category":         string(risk),
		"loan_approved":         boolToInt(approved),
		"loan_amount":           amount,
		"monthly_earning":       data["monthly_earning"],
		"yearly_earning":        data["yearly_earning"],
		"customer_rating":       data["customer_rating"],
		"working_tenure_ingrab": data["working_tenure_ingrab"],
		"created_at":            s.now().Format("2006-01-02 15:04:05"),
	}
	s.mu.Lock()
	s.rows = append(s.rows, row)
	s.mu.Unlock()

	return map[string]interface{}{
		"assessment_id":   id,
		"partner_type":    partnerType,
		"partner_name":    data["partner_name"],
		"nova_score":      score,
		"risk_category":   string(risk),
		"loan_decision":   decision,
		"recommendations": []string{"Maintain your customer rating", "Keep complaint rate low"},
		"model_used":      ModelName,
		"timestamp":       s.now().Format(time.RFC3339),
	}
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartnerType string                 `json:"partner_type"`
		PartnerData map[string]interface{} `json:"partner_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if _, err := models.ParsePartnerType(req.PartnerType); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid partner_type"})
		return
	}
	writeJSON(w, http.StatusOK, s.assess(req.PartnerType, req.PartnerData))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartnerData map[string]interface{} `json:"partner_data"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	provided := make([]string, 0, len(req.PartnerData))
	for k := range req.PartnerData {
		provided = append(provided, k)
	}
	expected := []string{"monthly_earning", "yearly_earning", "customer_rating", "active_days", "working_tenure_ingrab"}
	var missing []string
	for _, name := range expected {
		if _, ok := req.PartnerData[name]; !ok {
			missing = append(missing, name)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":                     len(missing) == 0,
		"missing_required_features": missing,
		"provided_features":         provided,
		"expected_model_features":   expected,
		"coverage_percentage":       float64(len(expected)-len(missing)) / float64(len(expected)) * 100,
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil || len(rows) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid CSV"})
		return
	}
	header := rows[0]
	results := make([]map[string]interface{}, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		data := make(map[string]interface{}, len(header))
		for i, name := range header {
			if i < len(cells) {
				if f, err := strconv.ParseFloat(cells[i], 64); err == nil {
					data[name] = f
				} else {
					data[name] = cells[i]
				}
			}
		}
		pt := cast.ToString(data["partner_type"])
		if _, err := models.ParsePartnerType(pt); err != nil {
			continue
		}
		res := s.assess(pt, data)
		decision := res["loan_decision"].(map[string]interface{})
		results = append(results, map[string]interface{}{
			"assessment_id": res["assessment_id"],
			"partner_name":  res["partner_name"],
			"nova_score":    res["nova_score"],
			"risk_category": res["risk_category"],
			"loan_approved": decision["approved"],
			"loan_amount":   decision["max_amount"],
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         fmt.Sprintf("Successfully processed %d partners", len(results)),
		"total_processed": len(results),
		"total_rows":      len(rows) - 1,
		"results":         results,
		"model_used":      ModelName,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := append([]map[string]interface{}(nil), s.rows...)
	s.mu.Unlock()

	risk := map[string]int{}
	partners := map[string]int{}
	var approved int
	var scoreSum float64
	for _, row := range rows {
		risk[cast.ToString(row["risk_category"])]++
		partners[cast.ToString(row["partner_type"])]++
		scoreSum += cast.ToFloat64(row["nova_score"])
		if cast.ToInt(row["loan_approved"]) == 1 {
			approved++
		}
	}
	stats := map[string]interface{}{
		"total_assessments":    len(rows),
		"approval_rate":        0.0,
		"avg_nova_score":       0.0,
		"risk_distribution":    risk,
		"partner_distribution": partners,
		"daily_assessments":    []map[string]interface{}{{"date": s.now().Format("2006-01-02"), "count": len(rows)}},
		"model_info":           map[string]interface{}{"model_name": ModelName, "features_count": 5},
	}
	if len(rows) > 0 {
		stats["approval_rate"] = float64(approved) / float64(len(rows)) * 100
		stats["avg_nova_score"] = scoreSum / float64(len(rows))
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	s.mu.Lock()
	// newest first
	out := make([]map[string]interface{}, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	total := len(s.rows)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": out, "total": total})
}

func (s *Server) handlePartnerTypes(w http.ResponseWriter, r *http.Request) {
	types := make([]map[string]interface{}, 0, len(models.PartnerTypes))
	for _, pt := range models.PartnerTypes {
		types = append(types, map[string]interface{}{
			"id":              string(pt),
			"name":            pt.Label(),
			"description":     pt.Label() + " partners",
			"required_fields": []string{"partner_name", "monthly_earning", "customer_rating"},
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"partner_types": types})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"timestamp":       s.now().Format(time.RFC3339),
		"version":         "2.0.0",
		"model_status":    "loaded",
		"model_name":      ModelName,
		"test_prediction": 72.5,
	})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"model_name":    ModelName,
		"feature_count": 5,
		"feature_names": []string{"monthly_earning", "yearly_earning", "customer_rating", "active_days", "working_tenure_ingrab"},
		"status":        "loaded",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
