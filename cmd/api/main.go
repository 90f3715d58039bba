package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pitchlane/interview-platform/cmd/mainconfig"
	"github.com/pitchlane/interview-platform/internal/api/router"
	appconfig "github.com/pitchlane/interview-platform/internal/config"
	"github.com/pitchlane/interview-platform/internal/interview"
	"github.com/pitchlane/interview-platform/internal/observability/metrics"
	"github.com/pitchlane/interview-platform/pkg/logging"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting interview-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_store", cfg.SessionStoreBackend,
	)

	ctx := context.Background()

	store, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}

	sink, err := buildReportSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize report sink", "error", err)
		os.Exit(1)
	}

	heuristics, err := interview.LoadHeuristics(cfg.HeuristicsPath)
	if err != nil {
		logger.Error("failed to load heuristics", "error", err, "path", cfg.HeuristicsPath)
		os.Exit(1)
	}

	interviewMetrics := metrics.NewInterviewMetrics(nil)

	service := interview.NewService(interview.ServiceConfig{
		Store:        store,
		Sink:         sink,
		Analyzer:     interview.NewAnalyzer(heuristics),
		Logger:       logger,
		Metrics:      interviewMetrics,
		StoreTimeout: cfg.StoreTimeout,
		SinkTimeout:  cfg.SinkTimeout,
	})
	interviewHandler := interview.NewHandler(service, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		InterviewHandler:   interviewHandler,
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildSessionStore selects the session store backend from configuration.
func buildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (interview.SessionStore, error) {
	switch cfg.SessionStoreBackend {
	case "", "memory":
		logger.Warn("using in-memory session store; sessions are lost on restart")
		return interview.NewMemoryStore(), nil

	case "dynamodb":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return interview.NewDynamoStore(client, cfg.SessionsTable, cfg.SessionTTL, logger), nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres session store")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return interview.NewPostgresStore(pool, logger), nil

	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required for the redis session store")
		}
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		return interview.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL), nil

	default:
		return nil, fmt.Errorf("unknown session store backend %q", cfg.SessionStoreBackend)
	}
}

// buildReportSink wires the S3 sink when a bucket is configured, otherwise an
// in-memory sink for local development.
func buildReportSink(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (interview.ReportSink, error) {
	if cfg.ReportsBucket == "" {
		logger.Warn("REPORTS_BUCKET not set; reports are kept in memory only")
		return interview.NewMemorySink(), nil
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpointOverride != "" {
			o.UsePathStyle = true
		}
	})
	return interview.NewS3Sink(client, cfg.ReportsBucket, logger), nil
}
