package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/internal/telemetry"
	"github.com/marmos91/cachefs/internal/transport/rpc"
	"github.com/marmos91/cachefs/pkg/config"
	"github.com/marmos91/cachefs/pkg/lockserver"
)

var lockServerCmd = &cobra.Command{
	Use:   "lockserver",
	Short: "Run the distributed lock server",
	RunE:  runLockServer,
}

func runLockServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if err := initLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetryConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	registry := prometheus.NewRegistry()
	var metrics *lockserver.Metrics
	if cfg.Metrics.Enabled {
		metrics = lockserver.NewMetrics(registry)
		stopMetrics := serveMetrics(cfg.Metrics.Port, registry)
		defer stopMetrics()
	}

	srv := lockserver.NewServer(rpc.Dialer{}, metrics)
	srv.Start()
	defer srv.Stop()

	transportSrv, err := rpc.Listen(cfg.LockServer.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.LockServer.ListenAddr, err)
	}
	defer transportSrv.Close()
	if err := transportSrv.RegisterLockServer(srv); err != nil {
		return fmt.Errorf("registering lock server: %w", err)
	}

	logger.Info("lockserver: listening", logger.ClientAddr(transportSrv.Addr()))

	serveDone := make(chan error, 1)
	go func() { serveDone <- transportSrv.Serve() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("lockserver: shutdown signal received")
		cancel()
		transportSrv.Close()
		<-serveDone
	case err := <-serveDone:
		signal.Stop(sigChan)
		if err != nil {
			return fmt.Errorf("lock server stopped: %w", err)
		}
	}
	return nil
}

// serveMetrics starts a Prometheus HTTP exporter on port and returns a
// function that shuts it down.
func serveMetrics(port int, registry *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", logger.Err(err))
		}
	}()

	return func() {
		_ = httpSrv.Close()
	}
}

func initLogger(cfg *config.Config) error {
	return logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "cachefs",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
}
