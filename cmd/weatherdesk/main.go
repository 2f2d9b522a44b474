package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/weatherdesk/weatherdesk/internal/api/http"
	"github.com/weatherdesk/weatherdesk/internal/config"
	"github.com/weatherdesk/weatherdesk/internal/dashboard"
	"github.com/weatherdesk/weatherdesk/internal/scheduler"
	"github.com/weatherdesk/weatherdesk/internal/store"
	"github.com/weatherdesk/weatherdesk/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Single store handle for the whole process; opened here, closed at
	// shutdown.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("failed to create database directory: %v", err)
		}
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("ERROR: closing store: %v", err)
		}
	}()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}

	current := providers.NewOpenWeatherProvider(httpClient, cfg.WeatherAPIKey, cfg.OpenWeatherBaseURL)
	forecast := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIComKey, cfg.WeatherAPIComBaseURL)

	service := dashboard.NewService(st, current, forecast, cfg.ForecastDays)

	// Optional auto-refresh; a per-city cycle can spend the full timeout on
	// each forecast attempt, so give it generous headroom.
	cycleTimeout := cfg.RequestTimeout*4 + 10*time.Second
	sched := scheduler.New(cfg.RefreshCities, cfg.RefreshInterval, cycleTimeout, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherdesk",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherdesk",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
