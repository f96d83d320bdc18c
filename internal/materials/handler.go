package materials

import (
	"strconv"
	"strings"

	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMaterialRequest struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Supplier    string  `json:"supplier"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
}

type UpdateMaterialRequest struct {
	Name        *string  `json:"name"`
	Cost        *float64 `json:"cost"`
	Supplier    *string  `json:"supplier"`
	Description *string  `json:"description"`
	Unit        *string  `json:"unit"`
}

type MaterialStatsResponse struct {
	TotalCount    int64   `json:"total_count"`
	SupplierCount int     `json:"supplier_count"`
	AvgCost       float64 `json:"avg_cost"`
	MinCost       float64 `json:"min_cost"`
	MaxCost       float64 `json:"max_cost"`
}

// Sıralanabilir kolon whitelist'i; dışındakiler created_at'e düşer.
var sortColumns = map[string]string{
	"name":       "name",
	"cost":       "cost",
	"supplier":   "supplier",
	"created_at": "created_at",
}

// GET /api/materials?search=&supplier=&unit=&cost_min=&cost_max=&sort_by=&sort_order=
func ListMaterialsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Material{})

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(supplier) LIKE ?", pattern, pattern)
		}
		if supplier := strings.TrimSpace(c.Query("supplier")); supplier != "" {
			dbq = dbq.Where("supplier = ?", supplier)
		}
		if unit := strings.TrimSpace(c.Query("unit")); unit != "" {
			dbq = dbq.Where("unit = ?", unit)
		}
		if v := c.Query("cost_min"); v != "" {
			if min, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("cost >= ?", min)
			}
		}
		if v := c.Query("cost_max"); v != "" {
			if max, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("cost <= ?", max)
			}
		}

		col, ok := sortColumns[c.Query("sort_by")]
		if !ok {
			col = "created_at"
		}
		order := "desc"
		if c.Query("sort_order") == "asc" {
			order = "asc"
		}

		var materials []models.Material
		if err := dbq.Order(col + " " + order).Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		return c.JSON(materials)
	}
}

// GET /api/materials/:id
func GetMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}
		return c.JSON(m)
	}
}

// POST /api/materials
func CreateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı zorunlu")
		}
		if body.Cost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Maliyet negatif olamaz")
		}
		if body.Unit == "" {
			body.Unit = "ea"
		}

		var existing models.Material
		if err := db.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir malzeme zaten var")
		}

		m := models.Material{
			Name:        body.Name,
			Cost:        body.Cost,
			Supplier:    strings.TrimSpace(body.Supplier),
			Description: strings.TrimSpace(body.Description),
			Unit:        body.Unit,
		}

		if err := db.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// PUT /api/materials/:id
//
// Maliyet değişikliği mevcut işlemlerin türetilmiş alanlarını kendiliğinden
// güncellemez; snapshot'lar bir sonraki recalculate çağrısında tazelenir.
func UpdateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		var body UpdateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı boş olamaz")
			}
			m.Name = name
		}
		if body.Cost != nil {
			if *body.Cost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Maliyet negatif olamaz")
			}
			m.Cost = *body.Cost
		}
		if body.Supplier != nil {
			m.Supplier = strings.TrimSpace(*body.Supplier)
		}
		if body.Description != nil {
			m.Description = strings.TrimSpace(*body.Description)
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Birim boş olamaz")
			}
			m.Unit = unit
		}

		if err := db.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		return c.JSON(m)
	}
}

// DELETE /api/materials/:id
func DeleteMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := db.Delete(&models.Material{}, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/materials/suppliers (tekrarsız, boş olmayan, sıralı)
func ListSuppliersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []string
		err := db.Model(&models.Material{}).
			Where("supplier IS NOT NULL AND supplier != ''").
			Distinct("supplier").
			Order("supplier asc").
			Pluck("supplier", &suppliers).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}

		return c.JSON(suppliers)
	}
}

// GET /api/materials/stats
func MaterialStatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := db.Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme istatistikleri alınamadı")
		}

		res := MaterialStatsResponse{TotalCount: int64(len(materials))}

		supplierSet := make(map[string]struct{})
		for i, m := range materials {
			if m.Supplier != "" {
				supplierSet[m.Supplier] = struct{}{}
			}
			res.AvgCost += m.Cost
			if i == 0 || m.Cost < res.MinCost {
				res.MinCost = m.Cost
			}
			if m.Cost > res.MaxCost {
				res.MaxCost = m.Cost
			}
		}
		res.SupplierCount = len(supplierSet)
		if len(materials) > 0 {
			res.AvgCost /= float64(len(materials))
		}

		return c.JSON(res)
	}
}
