package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/intima/internal/cache"
	"github.com/example/intima/internal/config"
	"github.com/example/intima/internal/database"
	"github.com/example/intima/internal/events"
	"github.com/example/intima/internal/handlers"
	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/routes"
	"github.com/example/intima/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	db := database.Connect(cfg.DatabaseURL, log)

	if created, err := database.EnsureAdmin(db, cfg.AdminPhone, cfg.AdminPassword); err != nil {
		log.Error("[Database] admin seed failed: %v", err)
	} else if created {
		log.Info("[Database] admin account %s created", cfg.AdminPhone)
	}

	productCache, err := cache.New(cfg.RedisURL, cfg.ProductCacheTTL, log)
	if err != nil {
		log.Fatal("[Cache] %v", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := productCache.Ping(pingCtx); err != nil {
		log.Error("[Cache] redis unreachable, continuing without cache: %v", err)
		_ = productCache.Close()
		productCache, _ = cache.New("", cfg.ProductCacheTTL, log)
	}
	cancel()
	defer productCache.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	defer publisher.Close()

	app := fiber.New(fiber.Config{
		AppName:      "Intima Backend",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Register(app, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Cache:    productCache,
		Events:   publisher,
		Telegram: services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown: %v", err)
		}
	}()

	log.Info("Starting server on :%s (cache=%t, events=%t)", cfg.AppPort, productCache.Enabled(), publisher.Enabled())
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal("fiber.Listen error: %v", err)
	}
}
