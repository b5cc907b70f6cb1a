// Package main is the entry point for the API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Edmund-Gan/mycosmetic2/internal/api"
	"github.com/Edmund-Gan/mycosmetic2/internal/company"
	"github.com/Edmund-Gan/mycosmetic2/internal/config"
	"github.com/Edmund-Gan/mycosmetic2/internal/health"
	"github.com/Edmund-Gan/mycosmetic2/internal/middleware"
	"github.com/Edmund-Gan/mycosmetic2/internal/product"
	"github.com/Edmund-Gan/mycosmetic2/internal/score"
	"github.com/Edmund-Gan/mycosmetic2/internal/search"
	"github.com/Edmund-Gan/mycosmetic2/internal/tracing"
)

const serviceName = "mycosmetic-api"

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("MyCosmetic API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "summary", cfg.LogSummary())

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancelPing()
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	cancelPing()

	// Redis is optional; without it the rate limiter keeps in-memory state
	var redisClient *redis.Client
	var rateLimitStore middleware.RateLimitStore = middleware.NewInMemoryRateLimitStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient)
	}

	tracingProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporterType,
		OTLPEndpoint: cfg.TracingOTLPEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Metrics registry with per-package collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics := middleware.NewMetrics()
	searchMetrics := search.NewMetrics()
	scoreMetrics := score.NewMetrics()
	if rs, ok := rateLimitStore.(*middleware.RedisRateLimitStore); ok {
		rs.WithMetrics(httpMetrics)
	}
	for _, register := range []func(prometheus.Registerer) error{
		httpMetrics.Register,
		searchMetrics.Register,
		scoreMetrics.Register,
	} {
		if err := register(registry); err != nil {
			logger.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
	}

	// Repositories and domain services
	products := product.NewPostgresRepository(db)
	companies := company.NewPostgresRepository(db)
	formatter := product.NewFormatter(cfg.CacheCapacity)
	compiler := score.NewCompiler(companies, cfg.CacheCapacity, score.Caps{
		RecentActivity: cfg.BonusCapRecentActivity,
		BrandTenure:    cfg.BonusCapBrandTenure,
	}, scoreMetrics)

	var redisChecker api.HealthChecker
	if redisClient != nil {
		redisChecker = health.NewRedisChecker(redisClient)
	}

	mux := api.Routes(api.Handlers{
		Search:    api.NewSearchHandlers(products, search.DefaultSynonymTable(), formatter, searchMetrics, cfg.MinQueryLength, cfg.SuggestionLimit),
		Product:   api.NewProductHandlers(products, formatter, cfg.AlternativesLimit),
		Substance: api.NewSubstanceHandlers(products),
		Brand:     api.NewBrandHandlers(companies, compiler),
		Health: api.NewHealthHandlers(api.HealthHandlersConfig{
			DBChecker:    health.NewDBChecker(db),
			RedisChecker: redisChecker,
		}),
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Tighter limit on the search endpoints, global limit on everything
	searchLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.SearchRateLimitPerMin,
		WindowDuration:    time.Minute,
	}
	globalLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.GlobalRateLimitPerMin,
		WindowDuration:    time.Minute,
	}

	searchLimiter := middleware.RateLimiter(rateLimitStore, searchLimit, middleware.IPKeyFunc(), httpMetrics)
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/search" || r.URL.Path == "/api/suggestions" {
			searchLimiter(mux).ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		MaxAge:         300,
	})(handler)
	handler = middleware.RateLimiter(rateLimitStore, globalLimit, middleware.IPKeyFunc(), httpMetrics)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing(serviceName)(handler)
	}
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := tracingProvider.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down tracing", "error", err)
	}

	logger.Info("server stopped")
}
