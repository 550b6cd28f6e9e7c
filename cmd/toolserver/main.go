// Command toolserver hosts the viability, weather, flight and matcher tools
// behind the capability registry protocol consumed by the API gateway.
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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"organmatch/internal/config"
	"organmatch/internal/platform/objectstore"
	"organmatch/internal/platform/weatherapi"
	"organmatch/internal/store"
	"organmatch/internal/toolhost"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tables toolhost.TableScanner
	if ts, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logger.Warn("table store unavailable, matcher tool disabled", "error", err)
	} else {
		defer ts.Close()
		if err := ts.Migrate(cfg.MigrationsPath); err != nil {
			logger.Error("migrations failed", "error", err)
		}
		tables = ts
	}

	var objects toolhost.ObjectStore
	if awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion)); err != nil {
		logger.Warn("aws config unavailable, flight tool disabled", "error", err)
	} else {
		objects = objectstore.New(awsCfg, objectstore.Options{Endpoint: cfg.S3Endpoint, PathStyle: cfg.S3PathStyle})
	}

	host := toolhost.New(tables, objects, cfg.FlightBucket, cfg.FlightKey,
		weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherTimeout), logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	toolhost.RegisterRoutes(r, host)

	srv := &http.Server{
		Addr:              ":" + cfg.ToolServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("tool server starting", "port", cfg.ToolServerPort, "tools", len(host.Manifest().Capabilities))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("tool server stopped", "error", err)
		os.Exit(1)
	}
}
