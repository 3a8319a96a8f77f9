package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/internal/telemetry"
	"github.com/marmos91/cachefs/internal/transport/rpc"
	"github.com/marmos91/cachefs/pkg/config"
	"github.com/marmos91/cachefs/pkg/extent"
)

var extentCmd = &cobra.Command{
	Use:   "extent",
	Short: "Run the extent (keyed blob) service",
	RunE:  runExtent,
}

func runExtent(cmd *cobra.Command, args []string) error {
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

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		stopMetrics := serveMetrics(cfg.Metrics.Port, registry)
		defer stopMetrics()
	}

	svc := extent.NewService()

	transportSrv, err := rpc.Listen(cfg.Extent.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Extent.ListenAddr, err)
	}
	defer transportSrv.Close()
	if err := transportSrv.RegisterExtent(svc); err != nil {
		return fmt.Errorf("registering extent service: %w", err)
	}

	logger.Info("extent: listening", logger.ClientAddr(transportSrv.Addr()))

	serveDone := make(chan error, 1)
	go func() { serveDone <- transportSrv.Serve() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("extent: shutdown signal received")
		cancel()
		transportSrv.Close()
		<-serveDone
	case err := <-serveDone:
		signal.Stop(sigChan)
		if err != nil {
			return fmt.Errorf("extent service stopped: %w", err)
		}
	}
	return nil
}
