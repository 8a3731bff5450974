package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"docstore/internal/app"
	"docstore/internal/config"
	handlers "docstore/internal/http/handler"
	"docstore/internal/http/middleware"
	"docstore/internal/logger"
	"docstore/internal/otel"
	"docstore/internal/state"
)

// @title Document Store API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	// One store and one repository per key for the whole process.
	a, err := app.New(ctx, cfg, log, state.LogSurface{Log: log.Named("notification")})
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer a.Close()

	if err := a.Load(ctx); err != nil {
		log.Fatal("failed to load collections", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	srv := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
	})

	// Register global middleware
	srv.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	srv.Use(middleware.RequestID())
	srv.Use(middleware.Logger(log.Named("http")))
	srv.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(srv, a.Store, a.Documents, a.DocumentTypes, reg)

	srv.Get("/swagger/*", handlers.Swagger(cfg.AppHost))

	go func() {
		<-ctx.Done()
		if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Warn("server shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("backend", cfg.Storage.Backend))
	if err := srv.Listen(addr); err != nil {
		log.Error("failed to start server", zap.Error(err))
	}
}
