package dashboard

import (
	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Tüm dashboard uçları anlık görüntü üzerinden sıfırdan hesaplar;
// artımlı sayaç tutulmaz.

// GET /api/dashboard/stats
func StatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materialCount, categoryCount int64
		if err := db.Model(&models.Material{}).Count(&materialCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme sayısı alınamadı")
		}
		if err := db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori sayısı alınamadı")
		}

		var procs []models.Procedure
		if err := db.Find(&procs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		return c.JSON(ComputeStats(materialCount, categoryCount, procs))
	}
}

// GET /api/dashboard/category-stats
func CategoryStatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := db.Order("display_order asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler okunamadı")
		}

		var procs []models.Procedure
		if err := db.Find(&procs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		return c.JSON(ComputeCategoryStats(categories, procs))
	}
}

// GET /api/dashboard/margin-distribution
func MarginDistributionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var procs []models.Procedure
		if err := db.Find(&procs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		return c.JSON(ComputeDistribution(procs))
	}
}

// GET /api/dashboard/low-margin (marj yüzdesi %30 altı, artan, ilk 10)
func LowMarginProceduresHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var procs []models.Procedure
		err := db.Preload("Category").
			Where("margin_percentage < ?", 30).
			Order("margin_percentage asc").
			Limit(10).
			Find(&procs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		return c.JSON(procs)
	}
}

// GET /api/dashboard/top-procedures (fiyata göre ilk 10)
func TopProceduresHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var procs []models.Procedure
		err := db.Preload("Category").
			Order("customer_price desc").
			Limit(10).
			Find(&procs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		return c.JSON(procs)
	}
}
