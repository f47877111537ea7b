package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sigco3111/core-quant/internal/api"
	"github.com/sigco3111/core-quant/internal/api/handler"
	"github.com/sigco3111/core-quant/internal/backtest"
	"github.com/sigco3111/core-quant/internal/collector"
	"github.com/sigco3111/core-quant/internal/collector/yahoo"
	"github.com/sigco3111/core-quant/internal/config"
	"github.com/sigco3111/core-quant/internal/logger"
	"github.com/sigco3111/core-quant/internal/metrics"
	"github.com/sigco3111/core-quant/internal/storage/archive"
	"github.com/sigco3111/core-quant/internal/storage/document"
	"github.com/sigco3111/core-quant/internal/strategy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the strategy API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	// Strategy document store
	var store strategy.Store
	switch cfg.Storage.Strategies.Type {
	case "badger":
		badgerStore, err := document.OpenBadger(document.BadgerConfig{Path: cfg.Storage.Strategies.Path})
		if err != nil {
			return fmt.Errorf("opening strategy store: %w", err)
		}
		defer badgerStore.Close()
		store = badgerStore
	default:
		store = document.NewMemoryStore()
	}

	// Cold storage for backtest reports
	var arch archive.Storage
	switch cfg.Storage.Archive.Type {
	case "s3":
		arch, err = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Storage.Archive.S3.Bucket,
			Endpoint:  cfg.Storage.Archive.S3.Endpoint,
			Region:    cfg.Storage.Archive.S3.Region,
			AccessKey: cfg.Storage.Archive.S3.AccessKey,
			SecretKey: cfg.Storage.Archive.S3.SecretKey,
			Prefix:    cfg.Storage.Archive.S3.Prefix,
		})
	default:
		arch, err = archive.NewLocalFS(cfg.Storage.Archive.Path)
	}
	if err != nil {
		return fmt.Errorf("creating archive storage: %w", err)
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	service := strategy.NewService(store, log)
	engine := backtest.New(log)
	provider := yahoo.New(collector.Config{
		BaseURL: cfg.Collector.BaseURL,
		APIKey:  cfg.Collector.APIKey,
		Timeout: cfg.Collector.Timeout,
	})

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, api.Deps{
		Strategies: handler.NewStrategyHandler(service, reg),
		Backtests:  handler.NewBacktestHandler(service, engine, cfg.Backtest.Workers, provider, arch, reg, log),
		Metrics:    reg,
	}, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
		return config.Defaults(), nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
