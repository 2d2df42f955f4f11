package main

import (
	"log"
	"strings"

	"magaza-backend/internal/admin"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/auth"
	"magaza-backend/internal/catalog"
	"magaza-backend/internal/config"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"
	"magaza-backend/internal/purchase"
	"magaza-backend/internal/sales"
	"magaza-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	saleSvc := sales.NewService(sales.NewGormStore(database.DB))

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

	// CORS origins'i virgülle ayrılmış string'den temizleyerek geçir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şube yönetimi
	adminRoutes.Post("/stores", admin.CreateStoreHandler())
	adminRoutes.Get("/stores", admin.ListStoresHandler())
	adminRoutes.Put("/stores/:id", admin.UpdateStoreHandler())
	adminRoutes.Post("/stores/:id/users", admin.CreateStoreUserHandler())
	adminRoutes.Get("/stores/:id/users", admin.ListStoreUsersHandler())

	// Ürün ve nitelik tanımları
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())
	adminRoutes.Post("/colors", catalog.CreateColorHandler())
	adminRoutes.Delete("/colors/:id", catalog.DeleteColorHandler())
	adminRoutes.Post("/dimensions", catalog.CreateDimensionHandler())
	adminRoutes.Delete("/dimensions/:id", catalog.DeleteDimensionHandler())
	adminRoutes.Post("/cushions", catalog.CreateCushionHandler())
	adminRoutes.Delete("/cushions/:id", catalog.DeleteCushionHandler())

	// Ortak (auth gerektiren) route'lar

	// Katalog listeleri
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/colors", catalog.ListColorsHandler())
	protected.Get("/dimensions", catalog.ListDimensionsHandler())
	protected.Get("/cushions", catalog.ListCushionsHandler())

	// Satışlar
	protected.Post("/sales", sales.CreateSaleHandler(saleSvc))
	protected.Get("/sales", sales.ListSalesHandler(saleSvc))
	protected.Get("/sales/export", sales.ExportSalesHandler(saleSvc))
	protected.Get("/sales/:id", sales.GetSaleHandler(saleSvc))
	protected.Put("/sales/:id", sales.UpdateSaleHandler(saleSvc))
	protected.Put("/sales/:id/items/:index/delivery", sales.UpdateDeliveryStatusHandler(saleSvc))
	protected.Post("/sales/:id/cancel", sales.CancelSaleHandler(saleSvc))
	protected.Delete("/sales/:id", sales.DeleteSaleHandler(saleSvc))

	// Siparişler (merkezden tedarik takibi)
	protected.Get("/purchases", purchase.ListPurchasesHandler())
	protected.Get("/purchases/:id", purchase.GetPurchaseHandler())
	protected.Put("/purchases/:id/items/:itemId/status", purchase.UpdatePurchaseItemStatusHandler())

	// Varyant stok durumu
	protected.Get("/stocks", stock.ListVariantStocksHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
