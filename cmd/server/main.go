package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/ratelimit"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/storage"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	store := repo.New(gdb)

	publisher := events.New(cfg.KafkaBrokers)

	var limiter ratelimit.Limiter = ratelimit.Nop{}
	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, cfg.LoginAttemptsPerMinute, time.Minute)
	}

	catalog := &service.CatalogService{Repo: store, Events: publisher}
	esClient, err := search.New(ctx, cfg.Search)
	if err != nil {
		logger.Warn("search unavailable, using database search", "error", err)
	} else if esClient != nil {
		catalog.Search = esClient
	}

	uploads := &handlers.UploadHTTP{Bucket: cfg.Storage.Bucket}
	if s := storage.New(cfg.Storage); s != nil {
		uploads.Storage = s
	} else {
		logger.Warn("storage not configured, uploads are disabled")
	}

	gateway := payment.New(cfg.Razorpay)
	if !gateway.Enabled() {
		logger.Warn("razorpay not configured, only mock payments are available")
	}

	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AdminEmails:   cfg.AdminEmails,
		Limiter:       limiter,
		Events:        publisher,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		DB:   store,
		Auth: authmw.NewAutoRefreshMiddleware(cfg.JWTSecret, authSvc),
		CSRF: csrf.DefaultConfig(),

		AuthHandler:     &handlers.AuthHTTP{Svc: authSvc},
		CatalogHandler:  &handlers.CatalogHTTP{Svc: catalog},
		CartHandler:     &handlers.CartHTTP{Svc: &service.CartService{Repo: store, Events: publisher}},
		CheckoutHandler: &handlers.CheckoutHTTP{Svc: checkout.New(checkout.NewStore(store), gateway, publisher)},
		OrderHandler:    &handlers.OrderHTTP{Svc: &service.OrderService{Repo: store, Events: publisher}},
		UploadHandler:   uploads,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if p, ok := publisher.(*events.Producer); ok {
		if err := p.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
