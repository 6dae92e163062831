package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myregistry/adapters/myredis"
	"myregistry/domain"
	"myregistry/handlers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting MyRegistry service")

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"redis_addr", config.Redis.Addr,
		"healthy_timeout", config.Registry.HealthyTimeout,
		"delete_timeout", config.Registry.DeleteTimeout,
		"sweep_interval", config.Registry.SweepInterval,
	)

	// Create snapshot cache (Redis)
	var cache interfaces.Cache[domain.ServiceSnapshot]
	{
		redisClient, err := myredis.NewRedisUniversalClient(config.Redis.Addr)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to create Redis client", "err", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			level.Error(logger).Log("msg", "Failed to connect to Redis", "err", err)
			os.Exit(1)
		}
		level.Info(logger).Log("msg", "Connected to Redis")

		marshal := func(s domain.ServiceSnapshot) ([]byte, error) { return json.Marshal(s) }
		unmarshal := func(b []byte) (domain.ServiceSnapshot, error) {
			var s domain.ServiceSnapshot
			err := json.Unmarshal(b, &s)
			return s, err
		}
		cache = myredis.NewCache[domain.ServiceSnapshot](redisClient, "snapshot", marshal, unmarshal)
	}

	// Create registry, snapshot layer and health tracker
	registry := service.NewRegistry(config.Registry, logger)
	defer registry.Close()

	snapshotter := service.NewSnapshotter(cache, logger)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := snapshotter.Restore(ctx, registry); err != nil {
			level.Error(logger).Log("msg", "Failed to restore snapshots", "err", err)
			os.Exit(1)
		}
	}
	registry.AddChangeSink(snapshotter)

	trackerCtx, trackerCancel := context.WithCancel(context.Background())
	defer trackerCancel()
	tracker := service.NewHealthTracker(registry, logger)
	go func() {
		if err := tracker.Run(trackerCtx); err != nil {
			level.Error(logger).Log("msg", "Health tracker stopped", "err", err)
		}
	}()

	// Create HTTPServer
	var httpServer handlers.ServerInterface
	{
		httpServer = handlers.NewHTTPServer(registry, registry.Subscriptions(), logger)
	}

	// Create HTTP server (Echo)
	var e *echo.Echo
	{
		e = echo.New()
		e.HideBanner = true
		service.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, httpServer)
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	level.Info(logger).Log("msg", "Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}

	trackerCancel()
	level.Info(logger).Log("msg", "Server stopped")
}
