// internal/views/dashboard/handler.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/anujsoni3/NovaScore/internal/api"
	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/metrics"
	"github.com/anujsoni3/NovaScore/internal/common/notify"
	"github.com/anujsoni3/NovaScore/internal/common/observability"
	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/state"
)

const ViewName = "dashboard"

var (
	ErrSuperseded      = errors.New("DASHBOARD_SUPERSEDED")
	ErrAlreadyPolling  = errors.New("DASHBOARD_ALREADY_POLLING")
	ErrInvalidInterval = errors.New("INVALID_REFRESH_INTERVAL")
)

type Client interface {
	api.StatsFetcher
	api.HistoryFetcher
}

// RefreshFunc receives the outcome of every scheduled refresh that was not
// discarded as stale.
type RefreshFunc func(*Snapshot, error)

type Handler struct {
	config   *Config
	client   Client
	snapshot *state.Store[*Snapshot]
	notifier notify.Notifier
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewHandler(config *Config, client Client, notifier notify.Notifier, obs *observability.Observability, log logger.Logger) *Handler {
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
		snapshot: state.New[*Snapshot](),
		notifier: notifier,
		errors:   apperrors.NewErrorHandler(log, notifier),
		obs:      obs,
		logger:   log,
		now:      time.Now,
	}
}

// Refresh fetches stats and history concurrently and applies both together.
// A failure leaves the previous snapshot in place. A response that arrives
// after a newer refresh was issued, after Close, or after ctx is done returns
// ErrSuperseded without notifying.
func (h *Handler) Refresh(ctx context.Context) (*Snapshot, error) {
	started := time.Now()
	snap, err := h.refresh(ctx)
	h.obs.Track(ctx, ViewName, "refresh", started, err)

	switch {
	case errors.Is(err, ErrSuperseded):
		if ctx.Err() == nil {
			metrics.DashboardStaleResponses.Inc()
		}
		h.logger.Debug("stale dashboard response discarded", nil)
		return nil, err
	case err != nil:
		metrics.DashboardRefreshes.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, h.errors.Handle(ViewName, "refresh", err)
	}
	metrics.DashboardRefreshes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return snap, nil
}

func (h *Handler) refresh(ctx context.Context) (*Snapshot, error) {
	ticket := h.snapshot.Begin()
	parent := ctx

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	var (
		stats   *models.DashboardStats
		history *models.HistoryResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = h.client.FetchDashboardStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = h.client.FetchHistory(gctx, api.WithLimit(h.config.HistoryLimit))
		return err
	})
	if err := g.Wait(); err != nil {
		if !h.snapshot.Current(ticket) {
			return nil, ErrSuperseded
		}
		// the caller left: Stop, or an abandoned one-off refresh
		if parent.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrSuperseded, parent.Err())
		}
		return nil, err
	}

	records := history.Assessments
	if records == nil {
		records = []models.AssessmentRecord{}
	}
	snap := &Snapshot{
		Stats:       stats,
		History:     records,
		Derived:     ComputeDerived(stats, records),
		RefreshedAt: h.now(),
	}
	if !h.snapshot.Commit(ticket, snap) {
		return nil, ErrSuperseded
	}
	h.logger.Info("dashboard refreshed", map[string]interface{}{
		"total_assessments": stats.TotalAssessments,
		"history":           len(records),
	})
	return snap, nil
}

// Snapshot returns the last applied refresh.
func (h *Handler) Snapshot() (*Snapshot, bool) {
	return h.snapshot.Get()
}

// Start schedules a refresh every configured interval until Stop or Close.
// Overlapping refreshes are not cancelled; the stale one is discarded.
func (h *Handler) Start(ctx context.Context, onRefresh RefreshFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cron != nil {
		return ErrAlreadyPolling
	}
	if h.config.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, h.config.Interval)
	}

	ctx, cancel := context.WithCancel(ctx)
	c := cron.New()
	spec := fmt.Sprintf("@every %s", h.config.Interval)
	if _, err := c.AddFunc(spec, func() {
		snap, err := h.Refresh(ctx)
		if errors.Is(err, ErrSuperseded) || onRefresh == nil {
			return
		}
		onRefresh(snap, err)
	}); err != nil {
		cancel()
		return fmt.Errorf("schedule dashboard refresh: %w", err)
	}
	c.Start()

	h.cron = c
	h.cancel = cancel
	h.logger.Info("dashboard polling started", map[string]interface{}{"interval": h.config.Interval.String()})
	return nil
}

// Stop halts polling and waits for running refreshes to return.
func (h *Handler) Stop() {
	h.mu.Lock()
	c, cancel := h.cron, h.cancel
	h.cron, h.cancel = nil, nil
	h.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	h.logger.Info("dashboard polling stopped", nil)
}

func (h *Handler) Close() {
	h.snapshot.Close()
	h.Stop()
}

func (h *Handler) Execute(ctx context.Context, _ *Input) (*Output, error) {
	snap, err := h.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return &Output{Snapshot: snap}, nil
}
