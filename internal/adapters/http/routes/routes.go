package routes

import (
	"loanflow-backend/internal/adapters/http/handlers"
	"loanflow-backend/internal/adapters/http/middleware"
	"loanflow-backend/internal/adapters/notification"
	"loanflow-backend/internal/adapters/persistence/repositories"
	"loanflow-backend/internal/config"
	"loanflow-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the reminder
// service so the caller controls its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *zap.Logger) *services.ReminderService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	roleMenuRepo := repositories.NewRoleMenuRepository(db)
	productRepo := repositories.NewLoanProductRepository(db)
	loanRepo := repositories.NewLoanApplicationRepository(db)
	historyRepo := repositories.NewLoanHistoryRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Outbound notification channels
	pushChannel := notification.NewWebhookPushChannel(cfg.Push)
	mailer := notification.NewSMTPMailer(cfg.Mail)

	var push services.PushChannel
	if pushChannel.IsEnabled() {
		push = pushChannel
	}
	var disbursementMailer services.DisbursementMailer
	if mailer.IsEnabled() {
		disbursementMailer = mailer
	}

	// Services
	dispatcher := services.NewNotificationDispatcher(notificationRepo, userRepo, push, disbursementMailer, logger)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, roleRepo, cfg, logger)
	workflowService := services.NewLoanWorkflowService(loanRepo, historyRepo, productRepo, dispatcher, logger)
	authzService := services.NewMenuAuthorizationService(menuRepo, roleMenuRepo, logger)
	rbacService := services.NewRBACService(userRepo, roleRepo, menuRepo, roleMenuRepo, logger)
	productService := services.NewProductService(productRepo, logger)
	inboxService := services.NewInboxService(notificationRepo)
	reminderService := services.NewReminderService(loanRepo, dispatcher, cfg.Reminder.CronSpec, logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	loanHandler := handlers.NewLoanHandler(workflowService)
	adminHandler := handlers.NewAdminHandler(rbacService)
	productHandler := handlers.NewProductHandler(productService)
	notificationHandler := handlers.NewNotificationHandler(inboxService)

	// Health check
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)

	// Everything below requires authentication and passes the dynamic menu
	// guard, which consults the role-menu grants for claimed paths.
	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	protected.Use(middleware.MenuGuard(authzService))

	// Loan workflow routes
	loanRoutes := protected.Group("/loans")
	loanRoutes.Post("/", loanHandler.Submit)
	loanRoutes.Get("/my", loanHandler.MyLoans)
	loanRoutes.Get("/queue", middleware.StaffOnly(), loanHandler.Queue)
	loanRoutes.Get("/reports/activity", middleware.StaffOnly(), loanHandler.ActivityReport)
	loanRoutes.Get("/:id", loanHandler.Get)
	loanRoutes.Get("/:id/history", loanHandler.History)
	loanRoutes.Get("/:id/allowed-actions", loanHandler.AllowedActions)
	loanRoutes.Post("/:id/actions", middleware.StaffOnly(), loanHandler.PerformAction)
	loanRoutes.Post("/:id/payment", middleware.RoleMiddleware("BACK_OFFICE", "ADMIN"), loanHandler.CompletePayment)

	// Loan product routes (reads for everyone, writes for admin)
	productRoutes := protected.Group("/products")
	productRoutes.Get("/", middleware.MasterDataCache(), productHandler.List)
	productRoutes.Get("/:id", middleware.MasterDataCache(), productHandler.Get)
	productRoutes.Post("/", middleware.AdminOnly(), productHandler.Create)
	productRoutes.Put("/:id", middleware.AdminOnly(), productHandler.Update)

	// Notification inbox routes
	notificationRoutes := protected.Group("/notifications")
	notificationRoutes.Get("/", notificationHandler.List)
	notificationRoutes.Post("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.Post("/:id/read", notificationHandler.MarkRead)

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/roles", adminHandler.ListRoles)
	adminRoutes.Get("/roles/:id/menus", adminHandler.ListGrants)
	adminRoutes.Post("/roles/:id/menus/:menuId", adminHandler.GrantMenu)
	adminRoutes.Delete("/roles/:id/menus/:menuId", adminHandler.RevokeMenu)
	adminRoutes.Get("/menus", adminHandler.ListMenus)
	adminRoutes.Post("/menus", adminHandler.CreateMenu)
	adminRoutes.Put("/menus/:id", adminHandler.UpdateMenu)
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Post("/users/:id/roles", adminHandler.AssignRole)
	adminRoutes.Delete("/users/:id/roles", adminHandler.RemoveRole)

	return reminderService
}
