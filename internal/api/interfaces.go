package api

import (
	"context"

	"github.com/anujsoni3/NovaScore/internal/models"
)

// Views depend on these narrow interfaces so tests can substitute fakes.

type AssessmentSubmitter interface {
	SubmitAssessment(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResult, error)
}

type FeatureValidator interface {
	ValidateFeatures(ctx context.Context, req *models.AssessmentRequest) (*models.FeatureValidation, error)
}

type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, file File) (*models.BatchResult, error)
}

type StatsFetcher interface {
	FetchDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type HistoryFetcher interface {
	FetchHistory(ctx context.Context, opts ...HistoryOption) (*models.HistoryResponse, error)
}

type CatalogFetcher interface {
	FetchPartnerTypes(ctx context.Context) (*models.PartnerTypeCatalog, error)
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) (*models.HealthStatus, error)
	FetchModelInfo(ctx context.Context) (*models.ModelDetails, error)
}

// Service is the full facade implemented by *Client.
type Service interface {
	AssessmentSubmitter
	FeatureValidator
	BatchSubmitter
	StatsFetcher
	HistoryFetcher
	CatalogFetcher
	HealthChecker
}

var _ Service = (*Client)(nil)
