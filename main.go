package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Phirakan/go-inventory/config"
	"github.com/Phirakan/go-inventory/handlers"
	"github.com/Phirakan/go-inventory/initializers"
	"github.com/Phirakan/go-inventory/middleware"
	"github.com/Phirakan/go-inventory/routes"
	"github.com/Phirakan/go-inventory/seed"
	"github.com/Phirakan/go-inventory/store"
	"github.com/Phirakan/go-inventory/telemetry"
	"github.com/Phirakan/go-inventory/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(cfg.TraceStdout, os.Stdout)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	// Initialize database
	db, err := initializers.ConnectToDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := initializers.ConnectRedis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rdb.Close()

	h := &handlers.Handler{
		DB:          db,
		Catalog:     store.NewCatalog(db),
		Accounts:    store.NewAccounts(db),
		Sales:       store.NewSaleProcessor(db, logger),
		Ledger:      store.NewSales(db),
		Analytics:   store.NewAnalytics(db, cfg.TopSellersLimit, cfg.RestockThreshold),
		Tokens:      utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Revocations: store.NewRedisRevocationList(rdb),
		Log:         logger,
	}

	if cfg.SeedFile != "" {
		f, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := seed.Apply(ctx, f, h.Accounts, h.Catalog, logger); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORSMiddleware())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
