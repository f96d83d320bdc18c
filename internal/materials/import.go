package materials

import (
	"fmt"
	"log"
	"strings"

	"costdash-backend/internal/importer"
	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Malzeme yükleme dosyasının kolonları.
const (
	colMaterialName = "재료이름"
	colMaterialCost = "원가"
)

// POST /api/materials/import (multipart, "file" alanı, CSV veya XLSX)
//
// Her satır bağımsız işlenir: geçersiz satır hata olarak raporlanır,
// diğer satırları engellemez. İsmi zaten kayıtlı olan satırlar duplicate
// olarak atlanır; tüm satırlar duplicate ise tek bir hata döner.
func ImportMaterialsHandler(db *gorm.DB) fiber.Handler {
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
		if _, ok := idx[colMaterialName]; !ok {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("'%s' kolonu bulunamadı", colMaterialName))
		}
		if _, ok := idx[colMaterialCost]; !ok {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("'%s' kolonu bulunamadı", colMaterialCost))
		}

		var report importer.Report
		seen := make(map[string]bool) // dosya içi tekrarlar da duplicate

		for i, row := range rows {
			rowNum := i + 1
			name := importer.Cell(row, idx, colMaterialName)
			costStr := importer.Cell(row, idx, colMaterialCost)

			rr := importer.RowReport{Row: rowNum, Name: name}

			if name == "" {
				rr.Errors = append(rr.Errors, "malzeme adı eksik")
			}

			cost, perr := importer.ParsePrice(costStr)
			if perr != nil {
				rr.Errors = append(rr.Errors, fmt.Sprintf("geçersiz maliyet: %q", costStr))
			} else if cost < 0 {
				rr.Errors = append(rr.Errors, "maliyet negatif olamaz")
			}

			if len(rr.Errors) > 0 {
				rr.Status = importer.StatusError
				report.Add(rr)
				continue
			}

			// Mevcut kayıtlarla tam isim eşleşmesi duplicate sayılır
			var existing models.Material
			if seen[name] || db.Where("name = ?", name).First(&existing).Error == nil {
				rr.Status = importer.StatusSkipped
				rr.Warnings = append(rr.Warnings, "bu isimde bir malzeme zaten var")
				report.Add(rr)
				continue
			}
			seen[name] = true

			m := models.Material{
				Name: name,
				Cost: cost,
				Unit: "ea",
			}
			if supplier := importer.Cell(row, idx, "공급업체"); supplier != "" {
				m.Supplier = supplier
			}
			if unit := importer.Cell(row, idx, "단위"); unit != "" {
				m.Unit = unit
			}

			if err := db.Create(&m).Error; err != nil {
				// Tek satırın insert hatası batch'i düşürmez
				log.Printf("Malzeme import insert hatası (satır %d, %s): %v", rowNum, name, err)
				rr.Status = importer.StatusError
				rr.Errors = append(rr.Errors, "kayıt oluşturulamadı")
				report.Add(rr)
				continue
			}

			rr.Status = importer.StatusImported
			report.Add(rr)
		}

		// Yüklenen her isim zaten kayıtlıysa tek hata döner
		if report.Imported == 0 && report.Skipped > 0 && report.Errors == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tüm malzemeler zaten mevcut")
		}

		log.Printf("Malzeme import tamamlandı: %d imported, %d skipped, %d errors",
			report.Imported, report.Skipped, report.Errors)

		return c.JSON(report)
	}
}

// GET /api/materials/import-template
func MaterialTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows := [][]string{
			{colMaterialName, colMaterialCost},
			{"보톡스 50유닛", "55000"},
			{"레스틸렌 1cc", "90000"},
		}

		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(row, ","))
			b.WriteString("\n")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="material_template.csv"`)
		return c.SendString(b.String())
	}
}
