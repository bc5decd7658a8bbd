package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	apphttp "github.com/anujsoni3/NovaScore/internal/common/http"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/metrics"
	"github.com/anujsoni3/NovaScore/internal/models"
)

// Operation names used in logs, metrics and errors.
const (
	OpAssessPartner     = "assess_partner"
	OpBatchAssess       = "batch_assess"
	OpDashboardStats    = "dashboard_stats"
	OpAssessmentHistory = "assessment_history"
	OpPartnerTypes      = "partner_types"
	OpHealth            = "health"
	OpModelInfo         = "model_info"
	OpValidateFeatures  = "validate_features"
)

// Client is the single boundary between the views and the NovaScore API.
// Build one per process and pass it to every view that needs it. Each call is
// exactly one HTTP exchange: no retries, caching or in-flight dedup.
type Client struct {
	config *Config
	http   *apphttp.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger, opts ...apphttp.Option) *Client {
	if config == nil {
		config = LoadConfig(nil)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		config: config,
		http:   apphttp.NewClient(config.Timeout, opts...),
		logger: log.WithFields(map[string]interface{}{"component": "api", "baseURL": config.BaseURL}),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

func (c *Client) SubmitAssessment(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode assessment request: %w", err)
	}
	var out models.AssessmentResult
	if err := c.do(ctx, OpAssessPartner, http.MethodPost, "/api/assess-partner", nil, bytes.NewReader(body), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateFeatures(ctx context.Context, req *models.AssessmentRequest) (*models.FeatureValidation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode feature validation request: %w", err)
	}
	var out models.FeatureValidation
	if err := c.do(ctx, OpValidateFeatures, http.MethodPost, "/api/validate-features", nil, bytes.NewReader(body), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.do(ctx, OpDashboardStats, http.MethodGet, "/api/dashboard-stats", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoryOption customizes FetchHistory.
type HistoryOption func(*historyOptions)

type historyOptions struct {
	limit int
}

// WithLimit caps the number of rows returned. Values below 1 keep the default.
func WithLimit(limit int) HistoryOption {
	return func(o *historyOptions) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// HistoryLimit resolves the row cap opts ask for.
func HistoryLimit(opts ...HistoryOption) int {
	o := historyOptions{limit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o.limit
}

// FetchHistory requests the most recent assessments, 100 unless WithLimit says otherwise.
func (c *Client) FetchHistory(ctx context.Context, opts ...HistoryOption) (*models.HistoryResponse, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", HistoryLimit(opts...)))

	var out models.HistoryResponse
	if err := c.do(ctx, OpAssessmentHistory, http.MethodGet, "/api/assessment-history", query, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchPartnerTypes(ctx context.Context) (*models.PartnerTypeCatalog, error) {
	var out models.PartnerTypeCatalog
	if err := c.do(ctx, OpPartnerTypes, http.MethodGet, "/api/partner-types", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckHealth(ctx context.Context) (*models.HealthStatus, error) {
	var out models.HealthStatus
	if err := c.do(ctx, OpHealth, http.MethodGet, "/api/health", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchModelInfo(ctx context.Context) (*models.ModelDetails, error) {
	var out models.ModelDetails
	if err := c.do(ctx, OpModelInfo, http.MethodGet, "/api/model-info", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one exchange and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) (err error) {
	started := time.Now()
	metrics.RequestsInFlight.WithLabelValues(operation).Inc()
	defer func() {
		metrics.RequestsInFlight.WithLabelValues(operation).Dec()
		metrics.ObserveAPICall(operation, started, string(apperrors.CodeOf(err)))
	}()

	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return apperrors.NewNetworkFailureError(operation, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := c.logger.WithFields(map[string]interface{}{"operation": operation, "method": method, "path": path})
	log.Debug("calling NovaScore API", nil)

	resp, err := c.http.Do(req)
	if err != nil {
		stdErr := transportError(operation, err)
		log.Warn("NovaScore API unreachable", map[string]interface{}{
			"errorCode":  string(stdErr.Code),
			"error":      err.Error(),
			"durationMs": time.Since(started).Milliseconds(),
		})
		return stdErr
	}
	defer resp.Body.Close()

	fields := map[string]interface{}{
		"status":     resp.StatusCode,
		"durationMs": time.Since(started).Milliseconds(),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serviceMessage := readErrorBody(resp.Body)
		fields["serviceMessage"] = serviceMessage
		log.Warn("NovaScore API returned an error status", fields)
		return apperrors.NewUnexpectedStatusError(operation, resp.StatusCode, serviceMessage)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("NovaScore API response could not be decoded", fields)
		return apperrors.NewResponseDecodeFailedError(operation, err)
	}

	log.Info("NovaScore API call completed", fields)
	return nil
}

func transportError(operation string, err error) *apperrors.StandardError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewRequestTimeoutError(operation, err)
	}
	return apperrors.NewNetworkFailureError(operation, err)
}

// readErrorBody extracts the service's error text, falling back to the raw body.
func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body models.APIErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if text := body.Text(); text != "" {
			return text
		}
	}
	return string(bytes.TrimSpace(raw))
}
