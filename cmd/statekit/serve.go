package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/statekit-dev/statekit/internal/config"
	"github.com/statekit-dev/statekit/pkg/atom"
	"github.com/statekit-dev/statekit/pkg/bridge"
	"github.com/statekit-dev/statekit/pkg/fetchers"
	"github.com/statekit-dev/statekit/pkg/load"
	"github.com/statekit-dev/statekit/pkg/metrics"
)

func serveCmd() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server",
		Long: `Serve publishes demo atoms over WebSocket:

  clock    — wall clock, updated every second
  counter  — monotonically increasing tick count
  combined — tuple of the two, via Combine
  fetch    — load-controller state for fetch_url, when configured`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(cfg config.Config) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(log)

	clock := atom.New(time.Now().Format(time.RFC3339))
	counter := atom.New(0)
	combined := atom.Combine(clock, counter)

	srv := bridge.NewServer(bridge.WithLogger(log))
	srv.Publish("clock", clock)
	srv.Publish("counter", counter)
	srv.Publish("combined", combined)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				clock.Set(t.Format(time.RFC3339))
				counter.Set(counter.Get() + 1)
			case <-ctx.Done():
				return
			}
		}
	}()

	if cfg.FetchURL != "" {
		startFetcher(ctx, cfg.FetchURL, srv, log)
	}

	r := chi.NewRouter()
	r.Mount("/", srv.Handler())
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("serving atoms", "addr", cfg.Addr, "metrics", cfg.Metrics)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// startFetcher refreshes fetch_url through a load controller every 30s and
// publishes the controller state, so supersession and metrics are visible in
// the demo.
func startFetcher(ctx context.Context, url string, srv *bridge.Server, log *slog.Logger) {
	collector := metrics.NewCollector()
	ctrl := load.NewController[[]byte](
		load.WithCollector(collector),
		load.WithTracer("statekit-demo"),
	)

	status := atom.New("idle")
	srv.Publish("fetch", status)

	ctrl.StateAtom().Sub(func(next, _ load.State[[]byte]) atom.Cleanup {
		switch {
		case next.Loading:
			status.Set("loading")
		case next.Err != nil:
			log.Warn("fetch failed", "url", url, "error", next.Err)
			status.Set("error: " + next.Err.Error())
		case next.HasData:
			status.Set(string(next.Data))
		}
		return nil
	})

	fetch := fetchers.HTTP(nil, url)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		ctrl.Go(fetch)
		for {
			select {
			case <-ticker.C:
				ctrl.Go(fetch)
			case <-ctx.Done():
				ctrl.Close()
				return
			}
		}
	}()
}
