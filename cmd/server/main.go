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

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"organmatch/internal/agent"
	"organmatch/internal/catalog"
	"organmatch/internal/config"
	"organmatch/internal/gateway"
	"organmatch/internal/httpapi"
	"organmatch/internal/metrics"
	"organmatch/internal/platform/bedrock"
	"organmatch/internal/platform/objectstore"
	"organmatch/internal/platform/telegram"
	"organmatch/internal/platform/weatherapi"
	"organmatch/internal/report"
	"organmatch/internal/store"
	"organmatch/internal/transport"
)

const serviceName = "OrganMatch API"

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

	// 1. Infrastructure
	tables, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("table store unavailable, catalog endpoints will fail", "driver", cfg.DBDriver, "error", err)
	} else {
		defer tables.Close()
		if err := tables.Migrate(cfg.MigrationsPath); err != nil {
			logger.Error("migrations failed", "error", err)
		} else {
			logger.Info("migrations applied", "driver", cfg.DBDriver)
		}
	}

	var awsCfg *aws.Config
	if loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion)); err != nil {
		logger.Warn("aws config unavailable, using local fallbacks", "error", err)
	} else {
		awsCfg = &loaded
	}

	// 2. Clients
	rec := metrics.New()

	var managed agent.ManagedAgent
	var model agent.ModelRuntime
	if awsCfg != nil {
		if cfg.AgentConfigured() {
			managed = bedrock.NewAgentClient(*awsCfg, cfg.AgentID, cfg.AgentAliasID)
		}
		if cfg.ModelID != "" {
			model = bedrock.NewModelClient(*awsCfg, cfg.ModelID)
		}
	}
	agentInvoker := agent.NewInvoker(managed, model, logger, rec)

	var registry gateway.Registry
	if cfg.GatewayURL != "" {
		registry = gateway.NewHTTPRegistry(cfg.GatewayURL)
	}
	tools := gateway.NewInvoker(ctx, registry, logger, rec)
	logger.Info("gateway tools loaded", "count", tools.ToolCount())

	var objects transport.ObjectStore
	if awsCfg != nil {
		objects = objectstore.New(*awsCfg, objectstore.Options{Endpoint: cfg.S3Endpoint, PathStyle: cfg.S3PathStyle})
	}
	weather := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherTimeout)

	var sender report.Sender
	if cfg.TelegramBotToken != "" {
		sender = telegram.NewClient(cfg.TelegramBotToken)
	}
	if cfg.CoordinatorChatID == 0 {
		logger.Warn("COORDINATOR_CHAT_ID is not set, decision reports will not be delivered")
	}

	// 3. Services
	decisions := transport.NewService(agentInvoker, logger, rec)
	planner := transport.NewPlanner(objects, cfg.FlightBucket, cfg.FlightKey, weather, tools)
	reports := report.NewService(sender, cfg.CoordinatorChatID, cfg.ReportFontPath, logger)
	catalogSvc := catalog.NewService(tables)

	// 4. Router
	limiter := httpapi.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Sweep(3 * time.Minute)
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httpapi.CORS)

	r.Handle("/metrics", rec.Handler())
	r.Route("/api", func(r chi.Router) {
		transport.RegisterRoutes(r, transport.NewHandler(decisions, planner, reports, logger), limiter.Middleware)
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Get("/health", httpapi.Health(serviceName, agentInvoker.Configured, tools.ToolCount))
			gateway.RegisterRoutes(r, gateway.NewHandler(tools))
			agent.RegisterRoutes(r, agent.NewHandler(agentInvoker))
			catalog.RegisterRoutes(r, catalog.NewHandler(catalogSvc))
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", "port", cfg.Port, "agent_configured", agentInvoker.Configured())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
