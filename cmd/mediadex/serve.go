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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mediadex/mediadex/internal/config"
	logpkg "github.com/mediadex/mediadex/internal/logger"
	"github.com/mediadex/mediadex/internal/metrics"
	"github.com/mediadex/mediadex/internal/remote"
	"github.com/mediadex/mediadex/internal/store/sqlite"
	chiTransport "github.com/mediadex/mediadex/internal/transport/chi"
	actoruc "github.com/mediadex/mediadex/internal/usecase/actor"
	healthuc "github.com/mediadex/mediadex/internal/usecase/health"
	imageuc "github.com/mediadex/mediadex/internal/usecase/image"
	movieuc "github.com/mediadex/mediadex/internal/usecase/movie"
	sceneuc "github.com/mediadex/mediadex/internal/usecase/scene"
	studiouc "github.com/mediadex/mediadex/internal/usecase/studio"
	"github.com/mediadex/mediadex/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the search indexes and serve the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mediadex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("remote_url", cfg.Remote.URL),
	)

	store, err := sqlite.NewStore(cfg.Store.DataDir)
	if err != nil {
		logger.Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Opened catalog store", zap.String("path", store.Path()))

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Build entity search services — composition root
	scenes := sceneuc.New(store.SceneStore(), logger).
		WithPageSize(cfg.Index.PageSize).
		WithSliceSize(cfg.Index.SliceSize)
	actors := actoruc.New(store.ActorStore(), logger).
		WithPageSize(cfg.Index.PageSize).
		WithSliceSize(cfg.Index.SliceSize)
	movies := movieuc.New(store.MovieStore(), logger).
		WithPageSize(cfg.Index.PageSize).
		WithSliceSize(cfg.Index.SliceSize)
	studios := studiouc.New(store.StudioStore(), logger).
		WithPageSize(cfg.Index.PageSize).
		WithSliceSize(cfg.Index.SliceSize)
	images := imageuc.New(store.ImageStore(), logger).
		WithPageSize(cfg.Index.PageSize).
		WithSliceSize(cfg.Index.ImageSliceSize)

	if cfg.Remote.URL != "" {
		client := remote.NewClient(cfg.Remote.URL, logger).
			WithParallelism(cfg.Index.Parallelism)
		scenes.WithRemote(client.Index(scenes.IndexName()))
		actors.WithRemote(client.Index(actors.IndexName()))
		movies.WithRemote(client.Index(movies.IndexName()))
		studios.WithRemote(client.Index(studios.IndexName()))
		images.WithRemote(client.Index(images.IndexName()))
		logger.Info("Delegating search to remote engine", zap.String("url", cfg.Remote.URL))
	}

	// Build every index before accepting traffic.
	ctx := context.Background()
	start := time.Now()
	builders := []interface {
		BuildIndex(ctx context.Context) (int, error)
		IndexName() string
	}{scenes, actors, movies, studios, images}
	for _, b := range builders {
		if _, err := b.BuildIndex(ctx); err != nil {
			logger.Fatal("Failed to build index",
				zap.String("index", b.IndexName()), zap.Error(err))
		}
	}
	logger.Info("All indexes built", zap.Duration("took", time.Since(start)))

	healthSvc := healthuc.New(store, scenes, actors, movies, studios, images)

	server := chiTransport.NewServer(scenes, actors, movies, studios, images, healthSvc, logger)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
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
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
