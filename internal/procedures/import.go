package procedures

import (
	"fmt"
	"log"
	"strings"

	"costdash-backend/internal/importer"
	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// İşlem yükleme dosyasının kolonları. Malzeme kolonları 재료1..재료5.
const (
	colCategory = "분류"
	colName     = "시술명"
	colPrice    = "고객가"

	materialColumnCount = 5
)

// Bilinen kategori takma adları (serbest metin -> kanonik kategori adı).
var categoryAliases = map[string]string{
	"7월이벤트": "7월이벤트",
	"고정":    "고정",
	"보톡스":   "보톡스",
	"필러":    "필러",
	"리프팅":   "리프팅",
	"위고비":   "위고비",
}

// resolveCategory serbest metin kategori adını kayıtlı kategoriye
// çevirir: önce tam eşleşme, sonra iki yönlü substring, en son takma
// ad tablosu.
func resolveCategory(categories []models.Category, name string) *models.Category {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i]
		}
	}
	for i := range categories {
		if strings.Contains(name, categories[i].Name) || strings.Contains(categories[i].Name, name) {
			return &categories[i]
		}
	}
	if canonical, ok := categoryAliases[name]; ok {
		for i := range categories {
			if categories[i].Name == canonical {
				return &categories[i]
			}
		}
	}
	return nil
}

// resolveMaterial malzeme adını büyük/küçük harf duyarsız iki yönlü
// substring eşleşmesiyle çözer.
func resolveMaterial(materials []models.Material, name string) *models.Material {
	lower := strings.ToLower(name)
	for i := range materials {
		mLower := strings.ToLower(materials[i].Name)
		if strings.Contains(mLower, lower) || strings.Contains(lower, mLower) {
			return &materials[i]
		}
	}
	return nil
}

// POST /api/procedures/import (multipart, "file" alanı, CSV veya XLSX)
//
// Satırlar bağımsız işlenir. Çözülemeyen kategori veya geçersiz fiyat
// satır hatasıdır; çözülemeyen malzeme adı sadece uyarıdır, satır yine
// de yüklenir. Çözülen malzemeler bağlantı satırı olarak yazılır ve
// marj hesaplanır; tamamı ayrıca açıklamaya not düşülür.
func ImportProceduresHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenmedi")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer file.Close()

		headers, rows, err := importer.ParseUpload(fileHeader.Filename, file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		idx := importer.HeaderIndex(headers)
		for _, col := range []string{colCategory, colName, colPrice} {
			if _, ok := idx[col]; !ok {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("'%s' kolonu bulunamadı", col))
			}
		}

		// Çözümleme için kategori ve malzeme listeleri bir kez okunur
		var categories []models.Category
		if err := db.Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler okunamadı")
		}
		var materials []models.Material
		if err := db.Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler okunamadı")
		}

		var report importer.Report

		for i, row := range rows {
			rowNum := i + 1
			name := importer.Cell(row, idx, colName)
			categoryName := importer.Cell(row, idx, colCategory)
			priceStr := importer.Cell(row, idx, colPrice)

			rr := importer.RowReport{Row: rowNum, Name: name}

			if name == "" {
				rr.Errors = append(rr.Errors, "işlem adı eksik")
			}
			if categoryName == "" {
				rr.Errors = append(rr.Errors, "kategori eksik")
			}

			var cat *models.Category
			if categoryName != "" {
				if cat = resolveCategory(categories, categoryName); cat == nil {
					rr.Errors = append(rr.Errors, fmt.Sprintf("kategori çözülemedi: %q", categoryName))
				}
			}

			price, perr := importer.ParsePrice(priceStr)
			if perr != nil {
				rr.Errors = append(rr.Errors, fmt.Sprintf("geçersiz müşteri fiyatı: %q", priceStr))
			} else if price <= 0 {
				rr.Errors = append(rr.Errors, "müşteri fiyatı 0'dan büyük olmalı")
			}

			if len(rr.Errors) > 0 {
				rr.Status = importer.StatusError
				report.Add(rr)
				continue
			}

			// Aynı isim + kategoriyle kayıtlı işlem tekrar yüklenmez
			var existing models.Procedure
			if db.Where("name = ? AND category_id = ?", name, cat.ID).First(&existing).Error == nil {
				rr.Status = importer.StatusSkipped
				rr.Warnings = append(rr.Warnings, "bu isimde bir işlem bu kategoride zaten var")
				report.Add(rr)
				continue
			}

			// Malzeme kolonları: çözülemeyenler uyarı, satırı düşürmez
			var materialNames []string
			var lines []models.ProcedureMaterial
			for n := 1; n <= materialColumnCount; n++ {
				materialName := importer.Cell(row, idx, fmt.Sprintf("재료%d", n))
				if materialName == "" {
					continue
				}
				materialNames = append(materialNames, materialName)

				if m := resolveMaterial(materials, materialName); m != nil {
					lines = append(lines, models.ProcedureMaterial{
						MaterialID: m.ID,
						Quantity:   1,
					})
				} else {
					rr.Warnings = append(rr.Warnings, fmt.Sprintf("malzeme bulunamadı: %q", materialName))
				}
			}

			proc := models.Procedure{
				Name:          name,
				CategoryID:    cat.ID,
				CustomerPrice: price,
			}
			if len(materialNames) > 0 {
				proc.Description = "사용 재료: " + strings.Join(materialNames, ", ")
			}

			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&proc).Error; err != nil {
					return err
				}
				for j := range lines {
					lines[j].ProcedureID = proc.ID
					if err := tx.Create(&lines[j]).Error; err != nil {
						return err
					}
				}
				return Recalculate(tx, proc.ID)
			})
			if err != nil {
				// Tek satırın hatası batch'i düşürmez
				log.Printf("İşlem import insert hatası (satır %d, %s): %v", rowNum, name, err)
				rr.Status = importer.StatusError
				rr.Errors = append(rr.Errors, "kayıt oluşturulamadı")
				report.Add(rr)
				continue
			}

			rr.Status = importer.StatusImported
			report.Add(rr)
		}

		log.Printf("İşlem import tamamlandı: %d imported, %d skipped, %d errors",
			report.Imported, report.Skipped, report.Errors)

		return c.JSON(report)
	}
}

// GET /api/procedures/import-template
func ProcedureTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows := [][]string{
			{colCategory, colName, colPrice, "재료1", "재료2", "재료3", "재료4", "재료5"},
			{"보톡스", "이마 보톡스 50유닛", "150000", "보톡스 50유닛", "", "", "", ""},
			{"필러", "레스틸렌 1cc", "400000", "레스틸렌 1cc", "", "", "", ""},
		}

		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(row, ","))
			b.WriteString("\n")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="procedure_template.csv"`)
		return c.SendString(b.String())
	}
}
