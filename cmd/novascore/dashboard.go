// cmd/novascore/dashboard.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/anujsoni3/NovaScore/internal/views/dashboard"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		watch       bool
		metricsAddr string
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show portfolio statistics",
		Long: `Fetch dashboard statistics and recent history together and print the
derived portfolio metrics. With --watch the dashboard refreshes on the
configured interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := dashboard.LoadConfig(a.cfg)
			if interval > 0 {
				cfg.Interval = interval
			}
			if metricsAddr == "" && a.cfg.Metrics.Enabled {
				metricsAddr = a.cfg.Metrics.Address
			}
			if metricsAddr != "" {
				a.enableMetrics()
			}

			h := dashboard.NewHandler(cfg, a.client, a.notifier, a.obs, a.log)
			defer h.Close()

			// scheduled refreshes may overlap
			var mu sync.Mutex
			show := func(snap *dashboard.Snapshot) error {
				mu.Lock()
				defer mu.Unlock()
				return dashboard.RenderSnapshot(cmd.OutOrStdout(), snap)
			}

			snap, err := h.Refresh(cmd.Context())
			if !watch {
				if err != nil {
					return err
				}
				return show(snap)
			}
			// a failed first refresh still starts the loop
			if err == nil {
				if err := show(snap); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv := newMetricsServer(metricsAddr)
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.log.Error("metrics server failed", map[string]interface{}{"address": metricsAddr, "error": err.Error()})
					}
				}()
				defer shutdownServer(srv)
				a.log.Info("serving metrics", map[string]interface{}{"address": metricsAddr})
			}

			if err := h.Start(ctx, func(snap *dashboard.Snapshot, err error) {
				if err != nil {
					return
				}
				if err := show(snap); err != nil {
					a.log.Warn("render dashboard failed", map[string]interface{}{"error": err.Error()})
				}
			}); err != nil {
				return err
			}
			a.notifier.Info(fmt.Sprintf("Refreshing every %s, press Ctrl+C to stop", cfg.Interval))

			<-ctx.Done()
			h.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep refreshing until interrupted")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address while watching")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (overrides dashboard.refresh_interval)")
	return cmd
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
