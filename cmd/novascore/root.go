// cmd/novascore/root.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anujsoni3/NovaScore/internal/api"
	"github.com/anujsoni3/NovaScore/internal/common/config"
	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	apphttp "github.com/anujsoni3/NovaScore/internal/common/http"
	"github.com/anujsoni3/NovaScore/internal/common/logger"
	"github.com/anujsoni3/NovaScore/internal/common/notify"
	"github.com/anujsoni3/NovaScore/internal/common/observability"
	"github.com/anujsoni3/NovaScore/pkg/catalog"
)

type rootOptions struct {
	configPath  string
	apiURL      string
	logLevel    string
	catalogPath string
	timeout     time.Duration
}

// app carries the dependencies built once per invocation. Every command
// shares the same api.Client.
type app struct {
	opts rootOptions

	cfg      *config.Config
	log      logger.Logger
	client   *api.Client
	catalog  *catalog.Catalog
	obs      *observability.Observability
	notifier notify.Notifier
	errors   *apperrors.ErrorHandler

	metricsOn bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "novascore",
		Short: "Assess gig-economy partners against the NovaScore API",
		Long: `novascore drives the NovaScore assessment service from a terminal.

Available commands:
  assess        - Score one partner from form values
  batch         - Download the CSV template, upload a batch, inspect results
  history       - Search and export past assessments
  dashboard     - Show portfolio statistics, optionally refreshing on a schedule
  partner-types - List partner types and their form fields
  health        - Check the service and its model`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.obs.Shutdown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.configPath, "config", "c", "", "Config file (default: configs/config.yaml)")
	flags.StringVar(&a.opts.apiURL, "api-url", "", "NovaScore API base URL (overrides api.base_url)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.opts.catalogPath, "catalog", "", "Partner field catalog JSON (default: built-in)")
	flags.DurationVar(&a.opts.timeout, "timeout", 0, "Per-request timeout (overrides api.timeout)")

	root.AddCommand(
		newAssessCmd(a),
		newBatchCmd(a),
		newHistoryCmd(a),
		newDashboardCmd(a),
		newPartnerTypesCmd(a),
		newHealthCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.opts.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(a.opts.apiURL, "/")
	}
	if a.opts.timeout > 0 {
		cfg.API.Timeout = int(a.opts.timeout / time.Millisecond)
	}
	if a.opts.logLevel != "" {
		cfg.Logging.Level = a.opts.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log, err := logger.NewStructured(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	cat := catalog.Default()
	if a.opts.catalogPath != "" {
		if cat, err = catalog.Load(a.opts.catalogPath); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.log = log.WithFields(map[string]interface{}{"command": cmd.Name()})
	a.catalog = cat
	a.notifier = notify.NewWriterNotifier(cmd.ErrOrStderr())
	a.errors = apperrors.NewErrorHandler(a.log, a.notifier)
	a.client = api.NewClient(api.LoadConfig(cfg), a.log, apphttp.WithUserAgent(userAgent(cfg)))
	a.obs = observability.NewNoop()
	if cfg.Metrics.Enabled {
		a.enableMetrics()
	}

	a.log.Debug("configuration loaded", map[string]interface{}{
		"baseUrl":     cfg.API.BaseURL,
		"timeoutMs":   cfg.API.Timeout,
		"environment": cfg.App.Environment,
	})
	return nil
}

// enableMetrics routes view operations to the prometheus registry served on
// /metrics. Calling it again is a no-op.
func (a *app) enableMetrics() {
	if a.metricsOn {
		return
	}
	a.obs = observability.New(a.cfg.App.Name, nil, a.log)
	a.metricsOn = true
}

// fail reports err the way the views do, so main does not print it again.
func (a *app) fail(operation string, err error) error {
	if err == nil {
		return nil
	}
	return a.errors.Handle("cli", operation, err)
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.opts.configPath != "" {
		return config.LoadFromFile(a.opts.configPath)
	}
	return config.Load()
}

func userAgent(cfg *config.Config) string {
	return fmt.Sprintf("%s-cli/%s", cfg.App.Name, cfg.App.Version)
}
