package main

import (
	"context"
	"database/sql"
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

	"github.com/ridgeline-cloud/chunkdex/internal/config"
	dbredis "github.com/ridgeline-cloud/chunkdex/internal/db/redis"
	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	logpkg "github.com/ridgeline-cloud/chunkdex/internal/logger"
	"github.com/ridgeline-cloud/chunkdex/internal/metrics"
	collectionrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/collection"
	documentrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/document"
	"github.com/ridgeline-cloud/chunkdex/internal/repository/embcache"
	searchrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/search"
	chiTransport "github.com/ridgeline-cloud/chunkdex/internal/transport/chi"
	openaiEmb "github.com/ridgeline-cloud/chunkdex/internal/transport/openai"
	collectionuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/collection"
	healthuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/health"
	ingestuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/ingest"
	searchuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/search"
	"github.com/ridgeline-cloud/chunkdex/internal/version"
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

	logger.Info("Starting chunkdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_path", cfg.Storage.Path),
	)

	conn, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()

	ctx := context.Background()
	readiness := time.Duration(cfg.Storage.ReadinessTimeout) * time.Second
	if err := sqlite.WaitForReady(ctx, conn, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	// Build embedder chain — composition root
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	var cache *dbredis.Store
	if cfg.Cache.Enabled {
		cache, err = dbredis.NewStore(dbredis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache", zap.Error(err))
		}
		defer cache.Close()
		embedder = embcache.New(base, cache, metrics.EmbeddingCacheTotal, logger)
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Create repositories
	collRepo := collectionrepo.New(conn, logger)
	docRepo := documentrepo.New(conn)
	searchRepo := searchrepo.New(conn, logger)

	// Create use case services
	collSvc := collectionuc.New(collRepo)
	ingestSvc := ingestuc.New(docRepo, collRepo, embedder, logger)
	searchSvc := searchuc.New(searchRepo, collRepo, embedder)

	var cachePinger healthuc.DBPinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(&sqlPinger{conn: conn}, cachePinger, base)

	// Create chi server
	server := chiTransport.NewServer(collSvc, ingestSvc, searchSvc, healthSvc, cfg.Ingest.MaxBatchSize, logger)

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

// sqlPinger adapts *sql.DB to the health check contract.
type sqlPinger struct {
	conn *sql.DB
}

func (p *sqlPinger) Ping(ctx context.Context) error {
	if err := p.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
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
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
