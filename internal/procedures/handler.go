package procedures

import (
	"strconv"
	"strings"

	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MaterialLineRequest struct {
	MaterialID uint    `json:"material_id"`
	Quantity   float64 `json:"quantity"`
}

type CreateProcedureRequest struct {
	Name          string                `json:"name"`
	CategoryID    uint                  `json:"category_id"`
	CustomerPrice float64               `json:"customer_price"`
	Description   string                `json:"description"`
	Materials     []MaterialLineRequest `json:"materials"`
}

// Güncelleme de malzeme listesinin tamamını değiştirir; kısmi satır
// düzenleme yok (orijinal form da tüm listeyi gönderir).
type UpdateProcedureRequest struct {
	Name          *string               `json:"name"`
	CategoryID    *uint                 `json:"category_id"`
	CustomerPrice *float64              `json:"customer_price"`
	Description   *string               `json:"description"`
	Materials     []MaterialLineRequest `json:"materials"`
}

var sortColumns = map[string]string{
	"name":              "name",
	"customer_price":    "customer_price",
	"margin":            "margin",
	"margin_percentage": "margin_percentage",
	"created_at":        "created_at",
}

func validateLines(lines []MaterialLineRequest) error {
	for _, l := range lines {
		if l.MaterialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme seçimi geçersiz")
		}
		if l.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme miktarı 0'dan büyük olmalı")
		}
	}
	return nil
}

// replaceLines işlemin mevcut malzeme satırlarını siler ve yenilerini
// yazar. cost_per_unit 0 başlar; Recalculate tazeler.
func replaceLines(tx *gorm.DB, procedureID uint, lines []MaterialLineRequest) error {
	if err := tx.Where("procedure_id = ?", procedureID).Delete(&models.ProcedureMaterial{}).Error; err != nil {
		return err
	}
	for _, l := range lines {
		pm := models.ProcedureMaterial{
			ProcedureID: procedureID,
			MaterialID:  l.MaterialID,
			Quantity:    l.Quantity,
		}
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
	}
	return nil
}

func loadProcedure(db *gorm.DB, id uint) (*models.Procedure, error) {
	var proc models.Procedure
	err := db.Preload("Category").
		Preload("ProcedureMaterials.Material").
		First(&proc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proc, nil
}

// GET /api/procedures?search=&category_id=&margin_min=&margin_max=&price_min=&price_max=&sort_by=&sort_order=
func ListProceduresHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Procedure{}).
			Preload("Category").
			Preload("ProcedureMaterials.Material")

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		if v := c.Query("category_id"); v != "" {
			dbq = dbq.Where("category_id = ?", v)
		}
		if v := c.Query("margin_min"); v != "" {
			if min, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("margin >= ?", min)
			}
		}
		if v := c.Query("margin_max"); v != "" {
			if max, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("margin <= ?", max)
			}
		}
		if v := c.Query("price_min"); v != "" {
			if min, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("customer_price >= ?", min)
			}
		}
		if v := c.Query("price_max"); v != "" {
			if max, err := strconv.ParseFloat(v, 64); err == nil {
				dbq = dbq.Where("customer_price <= ?", max)
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

		var procs []models.Procedure
		if err := dbq.Order(col + " " + order).Find(&procs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		return c.JSON(procs)
	}
}

// GET /api/procedures/:id
func GetProcedureHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		proc, err := loadProcedure(db, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}
		return c.JSON(proc)
	}
}

// POST /api/procedures
//
// İşlem kaydı + malzeme bağlantıları + yeniden hesaplama tek
// transaction'da koşar: bağlantı yazımı patlarsa işlem kaydı da geri
// alınır, yarım kayıt kalmaz.
func CreateProcedureHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProcedureRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İşlem adı zorunlu")
		}
		if body.CustomerPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri fiyatı negatif olamaz")
		}
		if err := validateLines(body.Materials); err != nil {
			return err
		}

		if body.CategoryID != 0 {
			var cat models.Category
			if err := db.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
		}

		proc := models.Procedure{
			Name:          body.Name,
			CategoryID:    body.CategoryID,
			CustomerPrice: body.CustomerPrice,
			Description:   strings.TrimSpace(body.Description),
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&proc).Error; err != nil {
				return err
			}
			if err := replaceLines(tx, proc.ID, body.Materials); err != nil {
				return err
			}
			return Recalculate(tx, proc.ID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem oluşturulamadı")
		}

		created, err := loadProcedure(db, proc.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem okunamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// PUT /api/procedures/:id
func UpdateProcedureHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var proc models.Procedure
		if err := db.First(&proc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		var body UpdateProcedureRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İşlem adı boş olamaz")
			}
			proc.Name = name
		}
		if body.CategoryID != nil {
			if *body.CategoryID != 0 {
				var cat models.Category
				if err := db.First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
				}
			}
			proc.CategoryID = *body.CategoryID
		}
		if body.CustomerPrice != nil {
			if *body.CustomerPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Müşteri fiyatı negatif olamaz")
			}
			proc.CustomerPrice = *body.CustomerPrice
		}
		if body.Description != nil {
			proc.Description = strings.TrimSpace(*body.Description)
		}
		if err := validateLines(body.Materials); err != nil {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&proc).Error; err != nil {
				return err
			}
			if body.Materials != nil {
				if err := replaceLines(tx, proc.ID, body.Materials); err != nil {
					return err
				}
			}
			// Fiyat değişmiş olabilir; malzeme listesi değişmese de tazele
			return Recalculate(tx, proc.ID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem güncellenemedi")
		}

		updated, err := loadProcedure(db, proc.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem okunamadı")
		}
		return c.JSON(updated)
	}
}

// DELETE /api/procedures/:id (malzeme satırları da silinir)
func DeleteProcedureHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("procedure_id = ?", id).Delete(&models.ProcedureMaterial{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Procedure{}, "id = ?", id).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/procedures/:id/recalculate
//
// Malzeme fiyatı düzenlendikten sonra türetilmiş alanları elle
// tazelemek için.
func RecalculateProcedureHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var proc models.Procedure
		if err := db.First(&proc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			return Recalculate(tx, uint(id))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yeniden hesaplama başarısız")
		}

		updated, err := loadProcedure(db, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem okunamadı")
		}
		return c.JSON(updated)
	}
}
