package main

import (
	"log"
	"strings"

	"siparis-backend/internal/admin"
	"siparis-backend/internal/audit"
	"siparis-backend/internal/auth"
	"siparis-backend/internal/catalog"
	"siparis-backend/internal/config"
	"siparis-backend/internal/database"
	"siparis-backend/internal/giftcard"
	"siparis-backend/internal/loyalty"
	"siparis-backend/internal/models"
	"siparis-backend/internal/order"
	"siparis-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public sipariş akışı (rate limit reverse proxy'de)
	api.Post("/orders", order.CreateOrderHandler())
	api.Get("/orders/track", order.TrackOrderHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Restoran yönetimi
	adminRoutes.Post("/restaurants", admin.CreateRestaurantHandler())
	adminRoutes.Get("/restaurants", admin.ListRestaurantsHandler())
	adminRoutes.Get("/restaurants/:id", admin.GetRestaurantHandler())
	adminRoutes.Put("/restaurants/:id", admin.UpdateRestaurantHandler())
	adminRoutes.Post("/restaurants/:id/staff", admin.CreateStaffHandler())
	adminRoutes.Get("/restaurants/:id/staff", admin.ListStaffHandler())

	// Personel (tenant kapsamlı) route'lar
	staff := protected.Group("")
	staff.Use(auth.RequireRole(models.RoleOwner, models.RoleStaff))

	// Sipariş yaşam döngüsü
	staff.Get("/orders", order.ListOrdersHandler())
	staff.Patch("/orders/status", order.UpdateStatusHandler())
	staff.Get("/orders/poll", order.PollOrdersHandler())

	// Masa doluluk
	staff.Get("/tables", tables.ListTablesHandler())
	staff.Post("/tables", tables.CreateTableHandler())
	staff.Patch("/tables/:id/status", tables.UpdateTableStatusHandler())

	// Stok
	staff.Get("/products", catalog.ListProductsHandler())
	staff.Get("/products/low-stock", catalog.LowStockHandler())
	staff.Post("/products/:id/restock", catalog.RestockHandler())
	staff.Patch("/products/:id/stock", catalog.AdjustStockHandler())

	// Hediye kartları
	staff.Get("/gift-cards/lookup", giftcard.LookupGiftCardHandler())

	// Sadakat
	staff.Get("/loyalty-customers", loyalty.ListCustomersHandler())

	// Owner'a özel işlemler
	owner := protected.Group("")
	owner.Use(auth.RequireRole(models.RoleOwner))

	owner.Post("/promotions", order.CreatePromotionHandler())
	owner.Get("/promotions", order.ListPromotionsHandler())
	owner.Patch("/promotions/:id/deactivate", order.DeactivatePromotionHandler())

	owner.Post("/gift-cards", giftcard.CreateGiftCardHandler())
	owner.Get("/gift-cards", giftcard.ListGiftCardsHandler())
	owner.Post("/gift-cards/:id/cancel", giftcard.CancelGiftCardHandler())

	owner.Post("/loyalty-customers/:id/bonus", loyalty.AddBonusHandler())
	owner.Post("/loyalty-customers/:id/redeem", loyalty.RedeemPointsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
