package materials

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var exportHeaders = []string{colMaterialName, colMaterialCost, "공급업체", "단위"}

func exportRows(materials []models.Material) [][]string {
	rows := make([][]string, 0, len(materials)+1)
	rows = append(rows, exportHeaders)
	for _, m := range materials {
		rows = append(rows, []string{
			m.Name,
			strconv.FormatFloat(m.Cost, 'f', -1, 64),
			m.Supplier,
			m.Unit,
		})
	}
	return rows
}

// GET /api/materials/export?format=csv|xlsx
func ExportMaterialsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := db.Order("name asc").Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler okunamadı")
		}

		rows := exportRows(materials)

		if c.Query("format") == "xlsx" {
			data, err := buildXLSX("재료", rows)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
			}
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="materials.xlsx"`)
			return c.Send(data)
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "CSV oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="materials.csv"`)
		return c.Send(buf.Bytes())
	}
}

// buildXLSX satırları tek sayfalık bir XLSX dosyasına yazar.
func buildXLSX(sheet string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheet)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("satır yazılamadı: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
