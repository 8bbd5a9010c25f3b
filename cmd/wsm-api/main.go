package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/api"
	"github.com/lzjever/wsm/internal/backendclient"
	"github.com/lzjever/wsm/internal/gateway"
	"github.com/lzjever/wsm/internal/installer"
	"github.com/lzjever/wsm/internal/kvstore"
	"github.com/lzjever/wsm/internal/lifecycle"
	"github.com/lzjever/wsm/internal/observability"
	"github.com/lzjever/wsm/internal/query"
	"github.com/lzjever/wsm/internal/repository"
	"github.com/lzjever/wsm/internal/scanner"
	"github.com/lzjever/wsm/internal/worker"
)

func main() {
	var cfg api.Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, _ := observability.NewLogger("wsm-api", cfg.LogLevel)
	defer log.Sync()

	// Replace global logger
	zap.ReplaceGlobals(log)

	reg := prometheus.DefaultRegisterer
	observability.RegisterAll(reg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv, err := kvstore.Open(cfg.LocalDBPath, log)
	if err != nil {
		log.Fatal("local store open failed", zap.Error(err))
	}
	defer kv.Close()

	repo := repository.New()
	local := gateway.NewLocal(repo, kv, cfg.UserID, log.Named("local"))

	var primary gateway.Backend
	if cfg.BackendAddr != "" {
		client, err := backendclient.New(cfg.BackendAddr)
		if err != nil {
			log.Fatal("backend client failed", zap.Error(err))
		}
		defer client.Close()
		primary = gateway.NewRemote(client, cfg.BackendTimeout)
		log.Info("remote backend configured", zap.String("addr", cfg.BackendAddr))
	} else {
		log.Info("no remote backend configured, running on the local store")
	}

	gw := gateway.NewFallback(primary, local, log.Named("gateway"))
	manager := lifecycle.New(repo, gw, local, log.Named("lifecycle"))
	if n, err := manager.Load(ctx); err != nil {
		log.Warn("initial workspace load failed", zap.Error(err))
	} else {
		log.Info("workspaces loaded", zap.Int("count", n))
	}

	pipeline := installer.DefaultPipeline()
	if cfg.PipelineFile != "" {
		if pipeline, err = installer.LoadPipeline(cfg.PipelineFile); err != nil {
			log.Fatal("pipeline load failed", zap.String("path", cfg.PipelineFile), zap.Error(err))
		}
	}
	if cfg.TimeScale > 0 && cfg.TimeScale != 1 {
		pipeline = pipeline.Scaled(cfg.TimeScale)
	}
	orch, err := installer.New(manager, pipeline, installer.Config{
		TickInterval: cfg.TickInterval,
		StepTimeout:  cfg.StepTimeout,
	}, log.Named("installer"))
	if err != nil {
		log.Fatal("installer init failed",
			zap.Float64("time_scale", cfg.TimeScale),
			zap.Duration("step_timeout", cfg.StepTimeout),
			zap.Error(err))
	}

	apiHandler := api.NewAPI(api.Deps{
		Manager:   manager,
		Installer: orch,
		Query:     query.New(repo),
		Scanner:   scanner.New(),
		Ready:     kv.Ping,
	}, log)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      apiHandler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	go func() {
		log.Info("metrics server starting", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Info("API server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server failed", zap.Error(err))
		}
	}()

	refresher := worker.New(manager, worker.Config{Interval: cfg.RefreshInterval}, log.Named("refresh"))
	go refresher.Run(ctx)

	<-ctx.Done()
	log.Info("shutting down API server")

	if orch.Cancel() {
		log.Info("in-flight installation cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("API server stopped")
}
