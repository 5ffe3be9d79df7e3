package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pendulolabs/pendulo/internal/adapters/http/api"
	app "github.com/pendulolabs/pendulo/internal/app"
	"github.com/pendulolabs/pendulo/internal/config"
	"github.com/pendulolabs/pendulo/internal/domain/normalize"
	"github.com/pendulolabs/pendulo/internal/domain/scoring"
	"github.com/pendulolabs/pendulo/pkg/logger"
	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 60 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	normalizer := normalize.New(
		normalize.WithBounds(cfg.PisoPositivo, cfg.CapMin),
		normalize.WithDominanceFactor(cfg.DominanceFactor),
		normalize.WithPlatformWeights(map[string]float64{
			"facebook":  cfg.WeightFacebook,
			"twitter":   cfg.WeightTwitter,
			"instagram": cfg.WeightInstagram,
			"tiktok":    cfg.WeightTikTok,
		}),
	)
	scorer := scoring.New(scoring.WithWeights(scoring.Weights{
		Presenca:     cfg.WeightPresenca,
		Popularidade: cfg.WeightPopularidade,
		Atividade:    cfg.WeightAtividade,
		Engajamento:  cfg.WeightEngajamento,
		Difusao:      cfg.WeightDifusao,
	}))

	svc := app.New(
		app.WithLogger(log),
		app.WithDataRoot(cfg.DataRoot),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithNormalizer(normalizer),
		app.WithScorer(scorer),
		app.WithClientPlayers(cfg.ClientPlayers),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = svc.Stop(context.Background())
	}()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, api.WithCacheMaxAge(cfg.CacheMaxAgeSecs))
	apiServer.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater refreshes process-level gauges on a timer.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
