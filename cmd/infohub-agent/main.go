package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/geotaxlab/infohub-agent/internal/config"
	"github.com/geotaxlab/infohub-agent/internal/db"
	dbRedis "github.com/geotaxlab/infohub-agent/internal/db/redis"
	logpkg "github.com/geotaxlab/infohub-agent/internal/logger"
	"github.com/geotaxlab/infohub-agent/internal/metrics"
	"github.com/geotaxlab/infohub-agent/internal/repository/searchcache"
	chiTransport "github.com/geotaxlab/infohub-agent/internal/transport/chi"
	"github.com/geotaxlab/infohub-agent/internal/transport/groq"
	"github.com/geotaxlab/infohub-agent/internal/transport/infohub"
	answeruc "github.com/geotaxlab/infohub-agent/internal/usecase/answer"
	"github.com/geotaxlab/infohub-agent/internal/usecase/contextpack"
	healthuc "github.com/geotaxlab/infohub-agent/internal/usecase/health"
	"github.com/geotaxlab/infohub-agent/internal/usecase/query"
	"github.com/geotaxlab/infohub-agent/internal/usecase/retrieval"
	"github.com/geotaxlab/infohub-agent/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting infohub-agent API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("infohub_base_url", cfg.InfoHub.BaseURL),
		zap.String("groq_model", cfg.Groq.Model),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Optional cache store for search responses
	var store db.Store
	if cfg.CacheEnabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Transport clients
	infohubClient := infohub.NewClient(&infohub.Config{
		BaseURL:  cfg.InfoHub.BaseURL,
		Language: cfg.InfoHub.Language,
		Timeout:  time.Duration(cfg.InfoHub.TimeoutSec) * time.Second,
		Logger:   logger,
	})

	groqClient := groq.NewClient(&groq.Config{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Model:   cfg.Groq.Model,
		Timeout: time.Duration(cfg.Groq.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Searcher chain: InfoHub -> cached (when a store is configured)
	var searcher retrieval.Searcher = infohubClient
	if store != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		searcher = searchcache.New(infohubClient, store, ttl, logger)
	}

	// Use case services
	processor := query.NewProcessor(cfg.Query.StopWords, cfg.Query.Abbreviations)
	scorer := retrieval.NewScorer(cfg.Query.Abbreviations)
	retriever := retrieval.New(searcher, scorer, cfg.InfoHub.SearchTopK, cfg.Pipeline.RerankTopK, logger)
	packer := contextpack.New(cfg.Pipeline.MaxContextChars, cfg.Pipeline.DescriptionClamp)
	answerSvc := answeruc.New(processor, retriever, packer, groqClient, cfg.Groq.MaxRetries, logger)

	// Health service: cache ping is optional, pass nil interface when disabled
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, groqClient)

	// Create chi server
	server := chiTransport.NewServer(answerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
