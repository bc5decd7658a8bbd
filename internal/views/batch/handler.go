// internal/views/batch/handler.go
package batch

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

const ViewName = "batch"

var (
	ErrSuperseded = errors.New("BATCH_SUPERSEDED")
	ErrNoResults  = errors.New("BATCH_NO_RESULTS")
)

type Handler struct {
	config   *Config
	client   api.BatchSubmitter
	result   *state.Store[*models.BatchResult]
	notifier notify.Notifier
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandler(config *Config, client api.BatchSubmitter, notifier notify.Notifier, obs *observability.Observability, log logger.Logger) *Handler {
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
		result:   state.New[*models.BatchResult](),
		notifier: notifier,
		errors:   apperrors.NewErrorHandler(log, notifier),
		obs:      obs,
		logger:   log,
	}
}

// Upload submits file. A file that is not CSV is rejected without a request.
// On failure the previous result stays shown.
func (h *Handler) Upload(ctx context.Context, file api.File) (*models.BatchResult, error) {
	started := time.Now()
	res, err := h.upload(ctx, file)
	h.obs.Track(ctx, ViewName, "upload", started, err)

	switch {
	case errors.Is(err, ErrSuperseded):
		return nil, err
	case err != nil:
		return nil, h.errors.Handle(ViewName, "upload", err)
	}
	h.notifier.Success(fmt.Sprintf("Successfully processed %d assessments", res.TotalProcessed))
	return res, nil
}

func (h *Handler) upload(ctx context.Context, file api.File) (*models.BatchResult, error) {
	if !file.IsCSV() {
		return nil, apperrors.NewInvalidMimeTypeError(file.Name, file.MediaType)
	}

	ticket := h.result.Begin()
	h.logger.Info("uploading batch file", map[string]interface{}{"filename": file.Name})

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	res, err := h.client.SubmitBatch(ctx, file)
	if err != nil {
		return nil, err
	}
	if !h.result.Commit(ticket, res) {
		return nil, fmt.Errorf("%w: %s", ErrSuperseded, file.Name)
	}

	summary := Summarize(res)
	h.logger.Info("batch processed", map[string]interface{}{
		"filename":       file.Name,
		"totalProcessed": res.TotalProcessed,
		"totalRows":      res.TotalRows,
		"approved":       summary.Approved,
		"rejected":       summary.Rejected,
	})
	return res, nil
}

// UploadPath reads, detects and uploads a file from disk.
func (h *Handler) UploadPath(ctx context.Context, path string) (*models.BatchResult, error) {
	file, err := OpenFile(path)
	if err != nil {
		return nil, h.errors.Handle(ViewName, "upload", err)
	}
	return h.Upload(ctx, file)
}

func (h *Handler) Result() (*models.BatchResult, bool) {
	return h.result.Get()
}

// Summary derives the figures of the shown result.
func (h *Handler) Summary() Summary {
	res, _ := h.result.Get()
	return Summarize(res)
}

// ExportResults writes the shown result as CSV.
func (h *Handler) ExportResults(w io.Writer) error {
	res, ok := h.result.Get()
	if !ok || res == nil {
		return ErrNoResults
	}
	if err := ExportResults(w, res.Results); err != nil {
		return fmt.Errorf("export batch results: %w", err)
	}
	h.logger.Info("batch results exported", map[string]interface{}{"rows": len(res.Results)})
	return nil
}

func (h *Handler) Close() {
	h.result.Close()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	res, err := h.UploadPath(ctx, input.Path)
	if err != nil {
		return nil, err
	}
	return &Output{Result: res, Summary: Summarize(res)}, nil
}
