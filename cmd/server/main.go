package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/api"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/cache"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/config"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/history"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/narrative"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.TomTomAPIKey == "" {
		log.Println("TOMTOM_API_KEY not set, traffic readings will be simulated")
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("OPENWEATHER_API_KEY not set, weather readings will be simulated")
	}

	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("History store error: %v", err)
	}
	defer store.Close()

	areaNames := make([]string, len(cfg.Areas))
	for i, area := range cfg.Areas {
		areaNames[i] = area.Name
	}
	if err := store.SeedDefaultBaselines(context.Background(), areaNames); err != nil {
		log.Printf("Seeding default baselines failed: %v", err)
	}

	readingCache := cache.New()

	insights := services.NewInsightService(cfg, readingCache, store, store)
	refresh := services.NewRefreshService(insights, cfg.RefreshInterval)

	var enhancer narrative.Enhancer
	if cfg.OpenAIAPIKey != "" {
		enhancer = narrative.NewEnhancer(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set, narrative briefings disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readingCache.StartPruneLoop(ctx, cfg.CacheTTL)
	refresh.Start(ctx)
	defer refresh.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Traffic Congestion Agent v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	api.SetupRoutes(app, api.NewHandler(cfg, insights, enhancer, readingCache))

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}
