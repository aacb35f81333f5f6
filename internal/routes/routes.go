// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"paypsp/internal/config"
	"paypsp/internal/handlers"
	"paypsp/internal/middleware"
	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/services/apikey"
	"paypsp/internal/services/auth"
	"paypsp/internal/services/compliance"
	"paypsp/internal/services/merchant"
	"paypsp/internal/services/mfa"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	merchantRepo := repositories.NewMerchantRepository(repositories.DB)
	kycRepo := repositories.NewKYCRepository(repositories.DB)
	keyRepo := repositories.NewAPIKeyRepository(repositories.DB)

	// Initialize services
	issuer := config.GetEnv("MFA_ISSUER", "PayPSP")
	mfaService := mfa.NewService(userRepo, issuer)
	authService := auth.NewService(userRepo, merchantRepo, mfaService, repositories.CacheService)
	merchantService := merchant.NewService(merchantRepo)
	complianceService := compliance.NewService(kycRepo, merchantRepo)
	apikeyService := apikey.NewService(keyRepo, merchantRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	mfaHandler := handlers.NewMFAHandler(mfaService)
	merchantHandler := handlers.NewMerchantHandler(merchantService)
	kycHandler := handlers.NewKYCHandler(complianceService)
	apikeyHandler := handlers.NewAPIKeyHandler(apikeyService)
	adminHandler := handlers.NewAdminHandler(userRepo, merchantService, complianceService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to PayPSP API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.Register)
	api.Post("/verify-email", authHandler.VerifyEmail)
	api.Post("/login", authHandler.Login)
	api.Post("/login/verify-2fa", authHandler.VerifyTwoFactor)
	api.Post("/refresh", authHandler.RefreshToken)

	// Create middleware instance
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Protected routes with auth middleware
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	// Two-factor management
	twofa := protected.Group("/2fa")
	twofa.Get("/", mfaHandler.Status)
	twofa.Post("/setup", mfaHandler.Setup)
	twofa.Post("/enable", mfaHandler.Enable)
	twofa.Post("/disable", mfaHandler.Disable)
	twofa.Post("/backup-codes", mfaHandler.RegenerateBackupCodes)

	// Merchant profile
	m := protected.Group("/merchant", middleware.HasPermission(models.PermissionMerchantRead))
	m.Get("/profile", merchantHandler.GetProfile)
	m.Put("/profile", middleware.HasPermission(models.PermissionMerchantWrite), merchantHandler.UpdateProfile)

	// KYC verification
	kyc := m.Group("/kyc", middleware.HasPermission(models.PermissionKYCRead))
	kyc.Get("/", kycHandler.Status)
	kyc.Post("/", middleware.HasPermission(models.PermissionKYCWrite), kycHandler.Initiate)
	kyc.Post("/cancel", middleware.HasPermission(models.PermissionKYCWrite), kycHandler.Cancel)

	// API keys
	keys := m.Group("/api-keys", middleware.HasPermission(models.PermissionAPIKeyRead))
	keys.Get("/", apikeyHandler.List)
	keys.Post("/", middleware.HasPermission(models.PermissionAPIKeyWrite), apikeyHandler.Create)
	keys.Delete("/:id", middleware.HasPermission(models.PermissionAPIKeyWrite), apikeyHandler.Revoke)

	// Staff console
	admin := api.Group("/admin", authMiddleware.Handler, middleware.StaffOnly)
	admin.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListUsers)
	admin.Get("/merchants", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListMerchants)
	admin.Get("/kyc", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListKYCJobs)
	admin.Post("/kyc/:id/decision", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.DecideKYC)
	admin.Get("/cache-stats", handlers.CacheStats)
}
