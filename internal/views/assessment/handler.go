// internal/views/assessment/handler.go
package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anujsoni3/NovaScore/internal/api"
	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/notify"
	"github.com/anujsoni3/NovaScore/internal/common/observability"
	"github.com/anujsoni3/NovaScore/internal/common/validation"
	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/state"
	"github.com/anujsoni3/NovaScore/pkg/catalog"
)

const (
	ViewName = "assessment"

	successMessage = "Assessment completed successfully!"
)

// ErrSuperseded is returned when a result arrives after the form changed
// type or the view closed. The result is not shown.
var ErrSuperseded = errors.New("ASSESSMENT_SUPERSEDED")

// Client is what the view needs from the API facade.
type Client interface {
	api.AssessmentSubmitter
	api.FeatureValidator
}

type Handler struct {
	config    *Config
	client    Client
	form      *Form
	validator *validation.Validator
	result    *state.Store[*models.AssessmentResult]
	notifier  notify.Notifier
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, client Client, cat *catalog.Catalog, notifier notify.Notifier, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = LoadConfig(nil)
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	validator, err := validation.NewValidator(cat)
	if err != nil {
		return nil, fmt.Errorf("build partner validator: %w", err)
	}
	log = log.WithFields(map[string]interface{}{"view": ViewName})
	return &Handler{
		config:    config,
		client:    client,
		form:      NewForm(cat, models.PartnerTypeDriver),
		validator: validator,
		result:    state.New[*models.AssessmentResult](),
		notifier:  notifier,
		errors:    apperrors.NewErrorHandler(log, notifier),
		obs:       obs,
		logger:    log,
	}, nil
}

func (h *Handler) Form() *Form {
	return h.form
}

// SetPartnerType clears the form and the shown result, like picking a new
// type card does.
func (h *Handler) SetPartnerType(pt models.PartnerType) error {
	if err := h.form.SetType(pt); err != nil {
		return err
	}
	h.result.Reset()
	return nil
}

// Result returns the result currently shown, if any.
func (h *Handler) Result() (*models.AssessmentResult, bool) {
	return h.result.Get()
}

// Close drops any result still in flight.
func (h *Handler) Close() {
	h.result.Close()
}

// Payload builds and schema-checks the current form without sending it.
func (h *Handler) Payload() (*models.AssessmentRequest, error) {
	data, err := h.form.Build()
	if err != nil {
		return nil, err
	}
	res, err := h.validator.ValidatePartnerData(data)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return models.NewAssessmentRequest(data), nil
}

// Preflight reports how much of the model's feature set the current form covers.
func (h *Handler) Preflight(ctx context.Context) (*models.FeatureValidation, error) {
	started := time.Now()
	req, err := h.Payload()
	if err == nil {
		ctx, cancel := h.withTimeout(ctx)
		defer cancel()
		var fv *models.FeatureValidation
		fv, err = h.client.ValidateFeatures(ctx, req)
		if err == nil {
			h.obs.Track(ctx, ViewName, "preflight", started, nil)
			h.logger.Info("feature coverage checked", map[string]interface{}{
				"partnerType": req.PartnerType(),
				"valid":       fv.Valid,
				"coverage":    fv.CoveragePercentage,
			})
			return fv, nil
		}
	}
	h.obs.Track(ctx, ViewName, "preflight", started, err)
	return nil, h.errors.Handle(ViewName, "preflight", err)
}

// Submit sends the current form. Incomplete or invalid forms never reach the
// service. On failure the previously shown result stays in place.
func (h *Handler) Submit(ctx context.Context) (*models.AssessmentResult, error) {
	started := time.Now()
	res, err := h.submit(ctx)
	h.obs.Track(ctx, ViewName, "submit", started, err)

	switch {
	case errors.Is(err, ErrSuperseded):
		return nil, err
	case err != nil:
		return nil, h.errors.Handle(ViewName, "submit", err)
	}
	h.notifier.Success(successMessage)
	return res, nil
}

func (h *Handler) submit(ctx context.Context) (*models.AssessmentResult, error) {
	req, err := h.Payload()
	if err != nil {
		return nil, err
	}

	ticket := h.result.Begin()
	h.logger.Info("submitting assessment", map[string]interface{}{
		"partnerType": req.PartnerType(),
		"partnerName": req.Data.Common().PartnerName,
	})

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	res, err := h.client.SubmitAssessment(ctx, req)
	if err != nil {
		return nil, err
	}
	if !h.result.Commit(ticket, res) {
		h.logger.Debug("discarding superseded assessment result", map[string]interface{}{
			"assessmentId": res.AssessmentID,
		})
		return nil, fmt.Errorf("%w: %s", ErrSuperseded, res.AssessmentID)
	}

	h.logger.Info("assessment completed", map[string]interface{}{
		"assessmentId": res.AssessmentID,
		"novaScore":    res.NovaScore,
		"riskCategory": res.RiskCategory,
		"approved":     res.LoanDecision.Approved,
	})
	return res, nil
}

// Execute runs one complete submission: pick the type, fill the form, submit.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	pt, err := models.ParsePartnerType(input.PartnerType)
	if err != nil {
		return nil, h.errors.Handle(ViewName, "execute", err)
	}
	if err := h.SetPartnerType(pt); err != nil {
		return nil, h.errors.Handle(ViewName, "execute", err)
	}
	if err := h.form.SetAll(input.Values); err != nil {
		return nil, h.errors.Handle(ViewName, "execute", err)
	}

	out := &Output{}
	if h.config.Preflight {
		fv, err := h.Preflight(ctx)
		if err != nil {
			return nil, err
		}
		out.Coverage = fv
	}

	res, err := h.Submit(ctx)
	if err != nil {
		return nil, err
	}
	out.Result = res
	return out, nil
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.config.Timeout)
}
