// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"gigdesk/internal/handlers"
	"gigdesk/internal/middleware"
	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/services/application"
	"gigdesk/internal/services/auth"
	"gigdesk/internal/services/billing"
	"gigdesk/internal/services/card"
	"gigdesk/internal/services/job"
	"gigdesk/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. The ledger service is
// constructed at startup and injected; everything else is wired here.
func SetupRoutes(app *fiber.App, db *gorm.DB, ledgerSvc *ledger.Service) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	cardRepo := repositories.NewCardRepository(db)

	// Services
	authService := auth.NewService(userRepo)
	cardService := card.NewService(cardRepo)
	billingService := billing.NewService(userRepo, cardService, ledgerSvc)
	jobService := job.NewService(jobRepo, ledgerSvc, repositories.CacheService)
	appService := application.NewService(appRepo, jobRepo, userRepo, ledgerSvc)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	jobHandler := handlers.NewJobHandler(jobService)
	appHandler := handlers.NewApplicationHandler(appService)
	earningsHandler := handlers.NewEarningsHandler(ledgerSvc)
	billingHandler := handlers.NewBillingHandler(cardService, billingService)
	adminHandler := handlers.NewAdminHandler(ledgerSvc, userRepo)

	// Public routes
	app.Get("/health", handlers.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to GigDesk API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/fees", earningsHandler.GetFees)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password",
		middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	setupBillingRoutes(protected, billingHandler)
	setupJobRoutes(protected, jobHandler, appHandler)
	setupEarningsRoutes(protected, earningsHandler)
	setupAdminRoutes(app, authMiddleware, adminHandler)
}

func setupBillingRoutes(router fiber.Router, h *handlers.BillingHandler) {
	billing := router.Group("/billing", middleware.HasPermission(models.PermissionBillingWrite))

	billing.Post("/cards", h.LinkCard)
	billing.Get("/cards", h.ListCards)
	billing.Delete("/cards/:id", h.RemoveCard)
	billing.Post("/activate", h.ActivateAccount)
	billing.Post("/renew", h.RenewSubscription)
}

func setupJobRoutes(router fiber.Router, jobHandler *handlers.JobHandler, appHandler *handlers.ApplicationHandler) {
	jobs := router.Group("/jobs")

	jobs.Get("/", middleware.HasPermission(models.PermissionJobRead), jobHandler.ListJobs)
	jobs.Get("/mine", middleware.HasPermission(models.PermissionJobPost), jobHandler.ListMyJobs)
	jobs.Post("/quote", middleware.HasPermission(models.PermissionJobPost), jobHandler.QuotePosting)
	jobs.Post("/", middleware.HasPermission(models.PermissionJobPost), jobHandler.PostJob)
	jobs.Get("/:id", middleware.HasPermission(models.PermissionJobRead), jobHandler.GetJob)
	jobs.Post("/:id/close", middleware.HasPermission(models.PermissionJobPost), jobHandler.CloseJob)

	// Applications hang off jobs for workers, off /applications for management
	jobs.Post("/:id/apply", middleware.HasPermission(models.PermissionJobApply), appHandler.Apply)
	jobs.Get("/:id/applications", middleware.HasPermission(models.PermissionApplicationMgr), appHandler.ListForJob)

	apps := router.Group("/applications")
	apps.Get("/mine", middleware.HasPermission(models.PermissionJobApply), appHandler.ListMine)
	apps.Post("/:id/accept", middleware.HasPermission(models.PermissionApplicationMgr), appHandler.Accept)
	apps.Post("/:id/reject", middleware.HasPermission(models.PermissionApplicationMgr), appHandler.Reject)
	apps.Post("/:id/complete", middleware.HasPermission(models.PermissionApplicationMgr), appHandler.Complete)
}

func setupEarningsRoutes(router fiber.Router, h *handlers.EarningsHandler) {
	earnings := router.Group("/earnings")

	earnings.Get("/", middleware.HasPermission(models.PermissionEarningsRead), h.GetMyEarnings)
	earnings.Get("/transactions", middleware.HasPermission(models.PermissionEarningsRead), h.GetMyTransactions)
	earnings.Get("/transactions/:id", middleware.HasPermission(models.PermissionEarningsRead), h.GetTransaction)
	earnings.Get("/withdraw/quote", middleware.HasPermission(models.PermissionWithdraw), h.QuoteWithdrawal)
	earnings.Post("/withdraw", middleware.HasPermission(models.PermissionWithdraw), h.Withdraw)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, h *handlers.AdminHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminOnly)

	admin.Get("/revenue", middleware.HasPermission(models.PermissionReadAdmin), h.GetRevenue)
	admin.Get("/transactions", middleware.HasPermission(models.PermissionReadAdmin), h.GetAllTransactions)
	admin.Get("/transactions/export", middleware.HasPermission(models.PermissionReadAdmin), h.ExportTransactionsCSV)
	admin.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), h.GetUsers)
	admin.Get("/users/:id/earnings", middleware.HasPermission(models.PermissionReadAdmin), h.GetUserEarnings)
}
