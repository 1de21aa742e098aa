// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"time"

	"gigdesk/internal/config"
	applogger "gigdesk/internal/logger"
	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/routes"
	"gigdesk/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()
	applogger.Init(config.GetEnv("LOG_LEVEL", "info"), config.IsProduction())
	log := applogger.L()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize databases: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	log.Info("connected to database")

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnf("failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Warnf("failed to close redis connection: %v", err)
			}
		}
	}()

	// Fee structure: defaults with env overrides for the main knobs
	fees := models.DefaultFeeStructure
	fees.PlatformCommission = config.GetFloatEnv("PLATFORM_COMMISSION", fees.PlatformCommission)
	fees.MinimumWithdrawal = config.GetFloatEnv("MINIMUM_WITHDRAWAL", fees.MinimumWithdrawal)
	fees.JobPostingFee = config.GetFloatEnv("JOB_POSTING_FEE", fees.JobPostingFee)

	settlementDelay, err := time.ParseDuration(config.GetEnv("SETTLEMENT_DELAY", "2s"))
	if err != nil {
		settlementDelay = 0 // ledger falls back to its default
	}

	ledgerSvc, err := ledger.New(context.Background(),
		repositories.NewLedgerStore(repositories.DB), fees, ledger.Config{SettlementDelay: settlementDelay})
	if err != nil {
		log.Fatalf("failed to initialize fee ledger: %v", err)
	}

	ledgerSvc.Subscribe(func() {
		log.Debug("ledger state changed")
	})

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Throttle account creation and login attempts per client IP
	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(429).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, repositories.DB, ledgerSvc)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
