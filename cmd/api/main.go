package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"workcompliance/internal/app"
	"workcompliance/internal/config"
	handlers "workcompliance/internal/http/handler"
	"workcompliance/internal/http/middleware"
	applogger "workcompliance/internal/logger"
	"workcompliance/internal/otel"
	"workcompliance/internal/service"
)

// @title       Worker Compliance API
// @version     1.0
// @description Document compliance of workers, sites and the whole fleet, computed on demand.
// @BasePath    /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	deps, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open backends", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("register http metrics", zap.Error(err))
	}
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		logger.Fatal("register compliance metrics", zap.Error(err))
	}

	svc := deps.Service(cfg.Compliance, logger, metrics)

	srv := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// otelfiber first so RequestID can tag the server span
	srv.Use(otelfiber.Middleware())
	srv.Use(middleware.RequestID())
	srv.Use(middleware.Logger(logger))
	srv.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(srv, deps.DB, svc)
	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	srv.Get("/swagger/*", swaggerHandler(cfg.AppHost))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("http server started", zap.String("component", "http"), zap.String("addr", addr))
		if err := srv.Listen(addr); err != nil {
			logger.Error("http server stopped", zap.String("component", "http"), zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", zap.String("component", "http"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := deps.Close(); err != nil {
		logger.Error("close backends", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("flush traces", zap.Error(err))
	}
	logger.Info("server stopped")
}
