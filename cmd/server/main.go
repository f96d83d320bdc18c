package main

import (
	"log"
	"strings"

	"costdash-backend/internal/categories"
	"costdash-backend/internal/config"
	"costdash-backend/internal/dashboard"
	"costdash-backend/internal/database"
	"costdash-backend/internal/materials"
	"costdash-backend/internal/procedures"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}

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

	app.Use(logger.New())

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Malzemeler
	api.Get("/materials", materials.ListMaterialsHandler(db))
	api.Get("/materials/suppliers", materials.ListSuppliersHandler(db))
	api.Get("/materials/stats", materials.MaterialStatsHandler(db))
	api.Get("/materials/export", materials.ExportMaterialsHandler(db))
	api.Get("/materials/import-template", materials.MaterialTemplateHandler())
	api.Post("/materials/import", materials.ImportMaterialsHandler(db))
	api.Get("/materials/:id", materials.GetMaterialHandler(db))
	api.Post("/materials", materials.CreateMaterialHandler(db))
	api.Put("/materials/:id", materials.UpdateMaterialHandler(db))
	api.Delete("/materials/:id", materials.DeleteMaterialHandler(db))

	// Kategoriler
	api.Get("/categories", categories.ListCategoriesHandler(db))
	api.Post("/categories", categories.CreateCategoryHandler(db))
	api.Put("/categories/:id", categories.UpdateCategoryHandler(db))
	api.Delete("/categories/:id", categories.DeleteCategoryHandler(db))

	// İşlemler
	api.Get("/procedures", procedures.ListProceduresHandler(db))
	api.Get("/procedures/export", procedures.ExportProceduresHandler(db))
	api.Get("/procedures/import-template", procedures.ProcedureTemplateHandler())
	api.Post("/procedures/import", procedures.ImportProceduresHandler(db))
	api.Get("/procedures/:id", procedures.GetProcedureHandler(db))
	api.Post("/procedures", procedures.CreateProcedureHandler(db))
	api.Put("/procedures/:id", procedures.UpdateProcedureHandler(db))
	api.Delete("/procedures/:id", procedures.DeleteProcedureHandler(db))
	api.Post("/procedures/:id/recalculate", procedures.RecalculateProcedureHandler(db))

	// Dashboard
	api.Get("/dashboard/stats", dashboard.StatsHandler(db))
	api.Get("/dashboard/category-stats", dashboard.CategoryStatsHandler(db))
	api.Get("/dashboard/margin-distribution", dashboard.MarginDistributionHandler(db))
	api.Get("/dashboard/low-margin", dashboard.LowMarginProceduresHandler(db))
	api.Get("/dashboard/top-procedures", dashboard.TopProceduresHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
