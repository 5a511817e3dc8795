package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/safe-space/internal/application"
	appauth "github.com/bryanwahyu/safe-space/internal/application/auth"
	appcommunity "github.com/bryanwahyu/safe-space/internal/application/community"
	appdashboard "github.com/bryanwahyu/safe-space/internal/application/dashboard"
	appresources "github.com/bryanwahyu/safe-space/internal/application/resources"
	appscans "github.com/bryanwahyu/safe-space/internal/application/scans"
	"github.com/bryanwahyu/safe-space/internal/config"
	"github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/users"
	openaiClient "github.com/bryanwahyu/safe-space/internal/infra/ai/openai"
	infraauth "github.com/bryanwahyu/safe-space/internal/infra/auth"
	"github.com/bryanwahyu/safe-space/internal/infra/db/memory"
	"github.com/bryanwahyu/safe-space/internal/infra/db/migrations"
	mysqlp "github.com/bryanwahyu/safe-space/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/safe-space/internal/infra/db/postgres"
	"github.com/bryanwahyu/safe-space/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/safe-space/internal/infra/storage"
	"github.com/bryanwahyu/safe-space/internal/logging"
	"github.com/bryanwahyu/safe-space/internal/middleware"
)

type repos struct {
	db        *sql.DB
	users     users.Repository
	scans     scans.Repository
	posts     community.Repository
	resources resources.Repository
}

func openRepos(ctx context.Context, cfg *config.Config) (*repos, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN(), mysqlp.Pool{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		if err := migrations.Migrate(ctx, db, "mysql"); err != nil {
			db.Close()
			return nil, err
		}
		return &repos{
			db:        db,
			users:     mysqlp.NewUserRepository(db),
			scans:     mysqlp.NewScanRepository(db),
			posts:     mysqlp.NewPostRepository(db),
			resources: mysqlp.NewResourceRepository(db),
		}, nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN(), pgp.Pool{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		if err := migrations.Migrate(ctx, db, "postgres"); err != nil {
			db.Close()
			return nil, err
		}
		return &repos{
			db:        db,
			users:     pgp.NewUserRepository(db),
			scans:     pgp.NewScanRepository(db),
			posts:     pgp.NewPostRepository(db),
			resources: pgp.NewResourceRepository(db),
		}, nil
	default:
		return &repos{
			users:     memory.NewUserRepository(),
			scans:     memory.NewScanRepository(),
			posts:     memory.NewPostRepository(),
			resources: memory.NewResourceRepository(),
		}, nil
	}
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format).With("service", "safe-space", "env", cfg.Server.Env)

	ctx := context.Background()
	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	store, err := openRepos(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
	}
	health := map[string]middleware.HealthChecker{}
	if store.db != nil {
		defer store.db.Close()
		health["database"] = &middleware.DatabaseHealthChecker{DB: store.db}
	}
	log.Info(ctx, "database ready", "driver", cfg.Database.Driver)

	clock := application.SystemClock{}

	scanSvc := &appscans.Service{
		Repo:      store.scans,
		Evaluator: scans.NewEvaluator(),
		Clock:     clock,
		Log:       log.With("component", "scans"),
	}

	// init minio (optional)
	if cfg.Minio.Endpoint != "" {
		artifacts, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		scanSvc.Artifacts = artifacts
		health["storage"] = middleware.CheckFunc(artifacts.Ping)
		log.Info(ctx, "history export enabled", "bucket", cfg.Minio.BucketName)
	}

	// init openai (optional)
	if cfg.OpenAI.APIKey != "" {
		scanSvc.Explainer = openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		log.Info(ctx, "url explanations enabled", "model", cfg.OpenAI.Model)
	}

	authSvc := &appauth.Service{
		Users:  store.users,
		Hasher: infraauth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens: infraauth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Clock:  clock,
		Log:    log.With("component", "auth"),
	}

	limits := httpserver.Limiters{
		API:  middleware.NewRateLimiter(cfg.RateLimit.API.Capacity, cfg.RateLimit.API.RefillPerMinute, "too many requests from this IP, please try again later"),
		Auth: middleware.NewRateLimiter(cfg.RateLimit.Auth.Capacity, cfg.RateLimit.Auth.RefillPerMinute, "too many login attempts, please try again later"),
		Scan: middleware.NewRateLimiter(cfg.RateLimit.Scan.Capacity, cfg.RateLimit.Scan.RefillPerMinute, "too many scan requests, please slow down"),
	}
	defer limits.API.Stop()
	defer limits.Auth.Stop()
	defer limits.Scan.Stop()

	handler := httpserver.NewRouter(httpserver.Deps{
		Auth:        authSvc,
		Scans:       scanSvc,
		Community:   &appcommunity.Service{Repo: store.posts, Clock: clock, Log: log.With("component", "community")},
		Resources:   &appresources.Service{Repo: store.resources, Clock: clock, Log: log.With("component", "resources")},
		Dashboard:   &appdashboard.Service{Scans: store.scans, Posts: store.posts},
		Log:         log,
		Metrics:     middleware.NewMetrics(),
		Limits:      limits,
		CORSOrigins: cfg.Server.CORSOrigins,
		Health:      health,
		Started:     time.Now(),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	log.Info(ctx, "shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx2)
}
