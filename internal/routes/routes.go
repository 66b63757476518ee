package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/intima/internal/cache"
	"github.com/example/intima/internal/config"
	"github.com/example/intima/internal/events"
	"github.com/example/intima/internal/handlers"
	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/middleware"
	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/services"
)

// Deps are the shared collaborators handlers are built from.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *logger.Logger
	Cache    *cache.ProductCache
	Events   *events.Publisher
	Telegram *services.TelegramService
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Deps) {
	cfg := deps.Config
	defaults := handlers.StoreDefaults{
		StoreName:        "Intima",
		WhatsAppNumber:   cfg.WhatsAppNumber,
		Currency:         services.DefaultCurrency,
		Greeting:         services.DefaultGreeting,
		PlaceholderImage: cfg.PlaceholderImage,
	}

	authHandler := handlers.NewAuthHandler(deps.DB, cfg)
	catalogHandler := handlers.NewCatalogHandler(deps.DB)
	productHandler := handlers.NewProductHandler(deps.DB, deps.Cache, deps.Events, deps.Log, cfg.PlaceholderImage)
	checkoutHandler := handlers.NewCheckoutHandler(deps.DB, deps.Telegram, deps.Events, deps.Log, defaults)
	marketingHandler := handlers.NewMarketingHandler(deps.DB)
	settingsHandler := handlers.NewSettingsHandler(deps.DB, defaults)
	adminHandler := handlers.NewAdminHandler(deps.DB, cfg.LowStockThreshold)

	authenticated := middleware.AuthMiddleware(cfg.JWTSecret)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Post("/", authenticated, staff, catalogHandler.CreateCategory)
	categories.Put("/:id", authenticated, staff, catalogHandler.UpdateCategory)
	categories.Delete("/:id", authenticated, staff, catalogHandler.DeleteCategory)

	// Products
	products := api.Group("/products")
	productHandler.RegisterProductRoutes(products, authenticated, staff)

	// Marketing resources
	api.Get("/banner", marketingHandler.ListBanners)
	api.Post("/banner", authenticated, staff, marketingHandler.CreateBanner)
	api.Put("/banner/:id", authenticated, staff, marketingHandler.UpdateBanner)
	api.Delete("/banner/:id", authenticated, staff, marketingHandler.DeleteBanner)

	api.Get("/popups/active", marketingHandler.ActivePopups)
	api.Get("/popups", authenticated, staff, marketingHandler.ListPopups)
	api.Post("/popups", authenticated, staff, marketingHandler.CreatePopup)
	api.Put("/popups/:id", authenticated, staff, marketingHandler.UpdatePopup)
	api.Delete("/popups/:id", authenticated, staff, marketingHandler.DeletePopup)

	// Store settings
	api.Get("/settings", settingsHandler.GetSettings)
	api.Put("/settings", authenticated, adminOnly, settingsHandler.UpdateSettings)

	// Checkout
	api.Post("/checkout", checkoutHandler.Checkout)

	// Back office
	admin := api.Group("/admin", authenticated, staff)
	admin.Get("/dashboard", adminHandler.DashboardStats)
	admin.Get("/products", productHandler.ListAllProducts)
	admin.Get("/products/:id", productHandler.GetAnyProduct)
	admin.Post("/combinations/preview", adminHandler.PreviewCombinations)
	admin.Get("/utils/slug", adminHandler.SlugFor)
	admin.Get("/utils/color-value", adminHandler.ColorValueFor)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Get("/orders/recent", adminHandler.RecentOrders)
	admin.Get("/orders/:id", adminHandler.GetOrder)
	admin.Patch("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/users", adminOnly, adminHandler.ListUsers)
	admin.Post("/users", adminOnly, authHandler.CreateUser)
}
