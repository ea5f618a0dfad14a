package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/inventory/internal/httpserver"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/search"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/config"
	pkgdb "github.com/Skotchmaster/inventory/pkg/db"
	"github.com/Skotchmaster/inventory/pkg/events"
	"github.com/Skotchmaster/inventory/pkg/hash"
	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/inventory/pkg/middleware/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	if err := repo.Migrate(db); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	var publisher service.EventPublisher
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(ctx, cfg.KafkaBrokers[0], events.TopicUserEvents, events.TopicProductEvents); err != nil {
			logger.Warn("kafka_topics_not_ensured", "error", err)
		}
		producer, err = events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_producer_failed", "error", err)
			os.Exit(1)
		}
		publisher = producer
	} else {
		logger.Info("kafka_disabled")
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		client, err := search.NewClient(ctx, search.ClientConfig{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
		})
		if err != nil {
			logger.Error("es_connect_failed", "error", err)
			os.Exit(1)
		}
		ix := search.NewIndex(client, cfg.ESIndex)
		if err := ix.Ensure(ctx); err != nil {
			logger.Error("es_index_failed", "index", cfg.ESIndex, "error", err)
			os.Exit(1)
		}
		index = ix
	} else {
		logger.Info("search_disabled")
	}

	store := &repo.GormRepo{DB: db}
	tokenSvc := tokens.NewService([]byte(cfg.JWTSecret))

	users := &service.UserService{Repo: store, Hasher: hash.Hasher{}, Tokens: tokenSvc, Events: publisher}
	products := &service.ProductService{Repo: store, Tokens: tokenSvc, Events: publisher, Index: index}

	if cfg.Admin.Enabled() {
		_, created, err := users.EnsureAdmin(ctx, transport.CreateUserRequest{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			logger.Error("admin_seed_failed", "error", err, "problems", service.Problems(err))
			os.Exit(1)
		}
		logger.Info("admin_seeded", "created", created)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
		middleware.BodyLimit("1M"),
		loggingmw.RequestLogger(logger),
	)

	httpserver.Register(e, &httpserver.Deps{
		DB:       db,
		Guard:    auth.NewGuard(tokenSvc),
		Auth:     &httpserver.AuthHTTP{Users: users},
		Users:    &httpserver.UserHTTP{Svc: users},
		Products: &httpserver.ProductHTTP{Svc: products},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
