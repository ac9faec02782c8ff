// Package main is the entrypoint for the taskledger API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/taskledger/taskledger/internal/config"
	"github.com/taskledger/taskledger/internal/handler"
	"github.com/taskledger/taskledger/internal/metrics"
	"github.com/taskledger/taskledger/internal/middleware"
	"github.com/taskledger/taskledger/internal/ratelimit"
	"github.com/taskledger/taskledger/internal/repository"
	"github.com/taskledger/taskledger/internal/server"
	"github.com/taskledger/taskledger/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize database
	dbURL := cfg.Database.ConnString()
	repo, err := repository.New(ctx, dbURL, repository.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, dbURL, cfg.Database.Password)),
			slog.String("database_url", redactURL(dbURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
		"sslmode", cfg.Database.SSLMode,
	)

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema",
			slog.String("error", sanitizeError(err, dbURL, cfg.Database.Password)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("schema ready")

	// Optional rate limiting
	var (
		redisClient *redis.Client
		limiter     middleware.Limiter
	)
	if cfg.RateLimitActive() {
		redisClient, err = ratelimit.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		l, err := ratelimit.New(redisClient, cfg.RateLimitRPS, cfg.RateLimitBurst)
		if err != nil {
			logger.Error("invalid rate limit settings", "error", err)
			_ = redisClient.Close()
			repo.Close()
			os.Exit(1)
		}
		limiter = l
		logger.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	} else if cfg.RateLimitEnabled {
		logger.Warn("rate limiting disabled: REDIS_URL is not set")
	}

	// Metrics
	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		metricsHandler = prom.Handler()
	}

	r := setupRouter(routes{
		base:     handler.New(web.Index(), web.OpenAPI()),
		health:   handler.NewHealthHandler(repo, logger),
		users:    handler.NewUserHandler(repo, recorder, logger),
		tasks:    handler.NewTaskHandler(repo, recorder, logger),
		recorder: recorder,
		metrics:  metricsHandler,
		limiter:  limiter,
	}, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Hooks run newest first: Redis, then the pool.
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	if redisClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routes bundles what setupRouter mounts. metrics and limiter may be nil.
type routes struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	users    *handler.UserHandler
	tasks    *handler.TaskHandler
	recorder metrics.Recorder
	metrics  http.Handler
	limiter  middleware.Limiter
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(rt routes, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics(rt.recorder))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/", rt.base.Index)
	r.Get("/openapi.yaml", rt.base.OpenAPI)
	r.Get("/health", rt.health.Health)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SecureHeaders(cfg.IsDevelopment()))
		if rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, logger))
		}

		r.Route("/users", func(r chi.Router) {
			r.Get("/", rt.users.List)
			r.Post("/", rt.users.Create)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", rt.tasks.List)
			r.Post("/", rt.tasks.Create)
			r.Put("/{id}", rt.tasks.Update)
			r.Delete("/{id}", rt.tasks.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(rt.base.NotFound)
	r.MethodNotAllowed(rt.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
