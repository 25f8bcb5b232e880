package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/config"
	dbRedis "github.com/kailas-cloud/agentjobs/internal/db/redis"
	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/request"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
	logpkg "github.com/kailas-cloud/agentjobs/internal/logger"
	"github.com/kailas-cloud/agentjobs/internal/metrics"
	jobrepo "github.com/kailas-cloud/agentjobs/internal/repository/job"
	sessionrepo "github.com/kailas-cloud/agentjobs/internal/repository/session"
	"github.com/kailas-cloud/agentjobs/internal/textindex"
	chiTransport "github.com/kailas-cloud/agentjobs/internal/transport/chi"
	openaiExt "github.com/kailas-cloud/agentjobs/internal/transport/openai"
	corpusuc "github.com/kailas-cloud/agentjobs/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/agentjobs/internal/usecase/health"
	matchuc "github.com/kailas-cloud/agentjobs/internal/usecase/match"
	searchuc "github.com/kailas-cloud/agentjobs/internal/usecase/search"
	statsuc "github.com/kailas-cloud/agentjobs/internal/usecase/stats"
	"github.com/kailas-cloud/agentjobs/internal/version"
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

	logger.Info("Starting agentjobs API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("skill_extractor", cfg.Skills.Extractor),
	)

	// valkey and redis speak the same KV commands; one rueidis store serves both.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	jobs := jobrepo.New(store, cfg.Storage.KeyPrefix)
	sessions := sessionrepo.New(store, cfg.Storage.KeyPrefix, cfg.SessionTTL())

	if cfg.Corpus.SeedFile != "" {
		n, err := corpusuc.Seed(ctx, jobs, cfg.Corpus.SeedFile)
		if err != nil {
			logger.Fatal("Failed to seed job corpus", zap.String("file", cfg.Corpus.SeedFile), zap.Error(err))
		}
		if n > 0 {
			logger.Info("Seeded job corpus", zap.Int("jobs", n), zap.String("file", cfg.Corpus.SeedFile))
		}
	}

	holder := corpus.NewHolder()
	corpusSvc := corpusuc.New(jobs, holder)
	if _, err := corpusSvc.Refresh(ctx); err != nil {
		// Requests answer 503 until a scheduled refresh succeeds.
		logger.Error("Initial corpus load failed", zap.Error(err))
	}

	scheduler := corpusuc.NewScheduler(corpusSvc, cfg.Corpus.RefreshCron, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to schedule corpus refresh", zap.Error(err))
	}
	defer scheduler.Stop()

	extractor, extractorHealth := buildExtractor(&cfg, logger)

	searchSvc := searchuc.New(holder, textindex.New())
	matchSvc := matchuc.New(holder, extractor, sessions, matchuc.WithLimits(matchuc.Limits{
		DefaultLimit: cfg.Matching.DefaultLimit,
		MaxLimit:     cfg.Matching.MaxLimit,
	}))
	statsSvc := statsuc.New(holder)
	healthSvc := healthuc.New(store, holder, extractorHealth)

	server := chiTransport.NewServer(searchSvc, matchSvc, statsSvc, healthSvc, logger,
		chiTransport.WithPaging(request.Paging{
			DefaultLimit: cfg.Search.DefaultPageSize,
			MaxLimit:     cfg.Search.MaxPageSize,
		}),
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(jsonRecoverer(logger))
	r.Use(metrics.Middleware())
	r.Use(chiTransport.APIKeyMiddleware(cfg.Auth.APIKeys))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildExtractor assembles the skill extractor chain: OpenAI -> dictionary fallback -> Instrumented.
// The health checker is nil unless a remote extractor is configured.
func buildExtractor(cfg *config.Config, logger *zap.Logger) (matchuc.SkillExtractor, healthuc.ExtractorChecker) {
	dict := skill.NewDictionary()
	if cfg.Skills.Extractor != config.ExtractorOpenAI {
		return matchuc.NewInstrumentedExtractor(dict, config.ExtractorDictionary, nil, logger), nil
	}

	remote := openaiExt.NewSkillExtractor(&openaiExt.Config{
		APIKey:   cfg.Skills.OpenAI.APIKey,
		BaseURL:  cfg.Skills.OpenAI.BaseURL,
		Model:    cfg.Skills.OpenAI.Model,
		User:     version.String(),
		Provider: cfg.Skills.OpenAI.Provider,
		Logger:   logger,
	})
	logger.Info("LLM skill extractor enabled",
		zap.String("provider", cfg.Skills.OpenAI.Provider),
		zap.String("model", cfg.Skills.OpenAI.Model),
	)
	return matchuc.NewInstrumentedExtractor(remote, config.ExtractorOpenAI, dict, logger), remote
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
						panic(rvr)
					}
					logpkg.FromContext(r.Context()).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
