package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/forgespace/idea-analyzer/internal/application/analyzer"
	"github.com/forgespace/idea-analyzer/internal/application/history"
	"github.com/forgespace/idea-analyzer/internal/config"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
	"github.com/forgespace/idea-analyzer/internal/infra/ai/breaker"
	"github.com/forgespace/idea-analyzer/internal/infra/ai/openai"
	"github.com/forgespace/idea-analyzer/internal/infra/cache"
	"github.com/forgespace/idea-analyzer/internal/infra/db/memory"
	mysqlp "github.com/forgespace/idea-analyzer/internal/infra/db/mysql"
	pgp "github.com/forgespace/idea-analyzer/internal/infra/db/postgres"
	"github.com/forgespace/idea-analyzer/internal/infra/httpserver"
	minioStore "github.com/forgespace/idea-analyzer/internal/infra/storage"
	"github.com/forgespace/idea-analyzer/internal/logger"
	"github.com/forgespace/idea-analyzer/internal/metrics"
	"github.com/forgespace/idea-analyzer/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	checks := map[string]middleware.HealthChecker{}
	collector := metrics.NewCollector()

	// repository
	var repo ideas.AnalysisRepository
	switch cfg.Database.Driver {
	case "mysql", "postgres":
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		checks["database"] = &middleware.DatabaseHealthChecker{DB: db}
		if cfg.Database.Driver == "mysql" {
			repo = mysqlp.NewAnalysisRepository(db)
		} else {
			repo = pgp.NewAnalysisRepository(db)
		}
	default:
		repo = memory.NewAnalysisRepository()
	}

	hist := &history.Service{Repo: repo, Clock: history.SystemClock{}, Log: zlog.Named("history")}

	// report archive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		hist.Archive = store
		checks["storage"] = store
	}

	svc := analyzer.NewService(nil, zlog.Named("analyzer"))
	svc.Metrics = collector
	svc.Timeout = cfg.AI.Timeout
	svc.CacheTTL = cfg.Cache.TTL
	if cfg.AI.APIKey != "" {
		bcfg := breaker.DefaultConfig()
		if b := cfg.AI.Breaker; b.MaxRequests > 0 {
			bcfg.MaxRequests = b.MaxRequests
		}
		if b := cfg.AI.Breaker; b.Interval > 0 {
			bcfg.Interval = b.Interval
		}
		if b := cfg.AI.Breaker; b.Timeout > 0 {
			bcfg.Timeout = b.Timeout
		}
		if b := cfg.AI.Breaker; b.FailureThreshold > 0 {
			bcfg.FailureThreshold = b.FailureThreshold
		}
		if b := cfg.AI.Breaker; b.MinRequests > 0 {
			bcfg.MinRequests = b.MinRequests
		}
		client := openai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.MaxTokens)
		cb := breaker.New(client, bcfg, zlog.Named("breaker"))
		svc.Client = cb
		checks["ai"] = cb
	} else {
		zlog.Warn("no AI credential configured, serving heuristic analyses only")
	}

	if cfg.Redis.Enabled {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog.Named("cache"))
		defer rc.Close()
		svc.Cache = rc
		checks["redis"] = rc
	} else {
		svc.Cache = cache.NewMemoryCache()
	}

	api := httpserver.NewRouter(httpserver.Options{
		Analyzer:    svc,
		History:     hist,
		Metrics:     collector,
		Health:      checks,
		APIKeys:     cfg.Auth.APIKeys,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Log:         zlog.Named("http"),
	})

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Analysis-Strategy", "X-Analysis-Id", "X-Request-Id"},
		MaxAge:         300,
	}))
	mux.Mount("/", api)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("server listening",
			zap.String("addr", addr),
			zap.String("database", cfg.Database.Driver),
			zap.Bool("ai", svc.AIConfigured()),
			zap.Bool("redis", cfg.Redis.Enabled),
			zap.Bool("minio", cfg.Minio.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.Driver == "mysql" {
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		return db, nil
	}
	db, err := pgp.Connect(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	return db, nil
}
