package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/infopulse/recommender/internal/adapters/http/api"
	"github.com/infopulse/recommender/internal/adapters/upstream"
	app "github.com/infopulse/recommender/internal/app"
	"github.com/infopulse/recommender/internal/config"
	"github.com/infopulse/recommender/internal/domain/expand"
	"github.com/infopulse/recommender/internal/domain/profile"
	"github.com/infopulse/recommender/internal/domain/scoring"
	"github.com/infopulse/recommender/pkg/logger"
	"github.com/infopulse/recommender/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second

	hoursPerDay = 24
	corsMaxAge  = 300
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	source := upstream.New(
		cfg.ArticleSourceURL,
		cfg.InteractionSourceURL,
		cfg.ReadingTimeSourceURL,
		upstream.WithTimeout(time.Duration(cfg.UpstreamTimeoutMS)*time.Millisecond),
		upstream.WithLogger(log.Named("upstream")),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithSource(source),
		app.WithCatalogTTL(time.Duration(cfg.CatalogTTLSeconds)*time.Second),
		app.WithLimits(cfg.DefaultLimit, cfg.MaxLimit),
		app.WithScoringOptions(
			scoring.WithWeights(cfg.TopicWeight, cfg.RecencyWeight, cfg.LengthWeight, cfg.DiversityWeight),
			scoring.WithRecencyWindow(time.Duration(cfg.RecencyWindowDays)*hoursPerDay*time.Hour),
		),
		app.WithExpandOptions(
			expand.WithSeedCount(cfg.ExpansionSeedCount),
			expand.WithPerSeedCount(cfg.ExpansionPerSeed),
			expand.WithMinSimilarity(cfg.SimilarityThreshold),
		),
		app.WithProfileOptions(
			profile.WithTopTopics(cfg.PreferredTopicCount),
			profile.WithConcurrency(cfg.FetchConcurrency),
		),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxLimit)
	apiServer.Register(ctx, mux)

	handler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         corsMaxAge,
	})(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startServiceMetricsUpdater periodically publishes cache gauges from service
// stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if size, ok := stats["catalogSize"].(int); ok {
		metrics.UpdateCatalogSize(size)
	}
	if cached, ok := stats["cachedProfiles"].(int); ok {
		metrics.UpdateProfileCacheSize(cached)
	}
}
