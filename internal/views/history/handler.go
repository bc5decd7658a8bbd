// internal/views/history/handler.go
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/anujsoni3/NovaScore/internal/api"
	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/notify"
	"github.com/anujsoni3/NovaScore/internal/common/observability"
	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/state"
)

const ViewName = "history"

var (
	ErrSuperseded     = errors.New("HISTORY_SUPERSEDED")
	ErrRecordNotFound = errors.New("RECORD_NOT_FOUND")
)

type Handler struct {
	config   *Config
	client   api.HistoryFetcher
	records  *state.Store[[]models.AssessmentRecord]
	notifier notify.Notifier
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandler(config *Config, client api.HistoryFetcher, notifier notify.Notifier, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig(nil)
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	log = log.WithFields(map[string]interface{}{"view": ViewName})
	return &Handler{
		config:   config,
		client:   client,
		records:  state.New[[]models.AssessmentRecord](),
		notifier: notifier,
		errors:   apperrors.NewErrorHandler(log, notifier),
		obs:      obs,
		logger:   log,
	}
}

// Load fetches up to limit records, or the configured limit when limit < 1.
// A failed load keeps the records already shown.
func (h *Handler) Load(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	if limit < 1 {
		limit = h.config.Limit
	}
	started := time.Now()
	records, err := h.load(ctx, limit)
	h.obs.Track(ctx, ViewName, "load", started, err)

	switch {
	case errors.Is(err, ErrSuperseded):
		return nil, err
	case err != nil:
		return nil, h.errors.Handle(ViewName, "load", err)
	}
	return records, nil
}

func (h *Handler) load(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	ticket := h.records.Begin()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	res, err := h.client.FetchHistory(ctx, api.WithLimit(limit))
	if err != nil {
		return nil, err
	}
	records := res.Assessments
	if records == nil {
		records = []models.AssessmentRecord{}
	}
	if !h.records.Commit(ticket, records) {
		return nil, ErrSuperseded
	}
	h.logger.Info("history loaded", map[string]interface{}{
		"limit":   limit,
		"records": len(records),
		"total":   res.Total,
	})
	return records, nil
}

// Records returns everything loaded.
func (h *Handler) Records() []models.AssessmentRecord {
	records, _ := h.records.Get()
	return records
}

// Filtered returns the loaded records that match f.
func (h *Handler) Filtered(f Filter) []models.AssessmentRecord {
	return f.Apply(h.Records())
}

// Find returns the loaded record with the given id.
func (h *Handler) Find(id string) (models.AssessmentRecord, error) {
	for _, r := range h.Records() {
		if r.AssessmentID == id {
			return r, nil
		}
	}
	return models.AssessmentRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// Export writes the records matching f as CSV.
func (h *Handler) Export(w io.Writer, f Filter) error {
	rows := h.Filtered(f)
	if err := Export(w, rows); err != nil {
		return h.errors.Handle(ViewName, "export", fmt.Errorf("export history: %w", err))
	}
	h.logger.Info("history exported", map[string]interface{}{"rows": len(rows)})
	return nil
}

func (h *Handler) Close() {
	h.records.Close()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	loaded, err := h.Load(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	shown := input.Filter.Apply(loaded)
	return &Output{Records: shown, Shown: len(shown), Loaded: len(loaded)}, nil
}
