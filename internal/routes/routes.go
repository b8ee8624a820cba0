package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/config"
	"github.com/example/junkgems/internal/handlers"
	"github.com/example/junkgems/internal/middleware"
	"github.com/example/junkgems/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ledger := services.NewLedger(db)
	settlement := services.NewSettlement(db, ledger)
	streak := services.NewStreak(db, ledger)

	authHandler := handlers.NewAuthHandler(db, cfg)
	materialHandler := handlers.NewMaterialHandler(db, ledger)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, settlement)
	gemsHandler := handlers.NewGemsHandler(ledger, streak)
	profileHandler := handlers.NewProfileHandler(db)
	messageHandler := handlers.NewMessageHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	requireAuth := middleware.AuthMiddleware(cfg)

	// Auth routes
	app.Post("/signup", authHandler.Signup)
	app.Post("/login", authHandler.Login)

	// Material donation listings
	materials := app.Group("/materials")
	materials.Get("/", materialHandler.ListMaterials)
	materials.Post("/", requireAuth, materialHandler.CreateMaterial)
	materials.Get("/:id", materialHandler.GetMaterial)
	materials.Post("/:id/claim", requireAuth, materialHandler.ClaimMaterial)

	// Upcycled products
	products := app.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", requireAuth, productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)

	// Protected API routes
	api := app.Group("/api", requireAuth)

	api.Post("/orders", orderHandler.CreateOrder)
	api.Get("/orders", orderHandler.ListOrders)
	api.Get("/orders/:id", orderHandler.GetOrder)

	api.Get("/users/:userId/gems", gemsHandler.GetUserGems)
	api.Post("/daily-login-reward", gemsHandler.ClaimDailyReward)

	api.Get("/profile", profileHandler.GetProfile)
	api.Put("/profile", profileHandler.UpdateProfile)

	api.Get("/conversations", messageHandler.ListConversations)
	api.Post("/conversations", messageHandler.CreateConversation)
	api.Get("/conversations/:id/messages", messageHandler.ListMessages)
	api.Post("/conversations/:id/messages", messageHandler.SendMessage)

	admin := api.Group("/admin")
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Get("/orders", adminHandler.ListAllOrders)
}
