package procedures

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var exportHeaders = []string{
	colCategory, colName, colPrice,
	"재료원가", "마진", "마진율(%)", "사용재료", "등록일",
}

func exportRows(procs []models.Procedure) [][]string {
	rows := make([][]string, 0, len(procs)+1)
	rows = append(rows, exportHeaders)

	for _, p := range procs {
		categoryName := "미분류"
		if p.Category != nil {
			categoryName = p.Category.Name
		}

		var usedMaterials []string
		for _, pm := range p.ProcedureMaterials {
			if pm.Material == nil {
				continue
			}
			usedMaterials = append(usedMaterials, fmt.Sprintf("%s(%g)", pm.Material.Name, pm.Quantity))
		}

		rows = append(rows, []string{
			categoryName,
			p.Name,
			strconv.FormatFloat(p.CustomerPrice, 'f', -1, 64),
			strconv.FormatFloat(p.MaterialCost, 'f', -1, 64),
			strconv.FormatFloat(p.Margin, 'f', -1, 64),
			strconv.FormatFloat(p.MarginPercentage, 'f', 2, 64),
			strings.Join(usedMaterials, ", "),
			p.CreatedAt.Format("2006-01-02"),
		})
	}

	return rows
}

// GET /api/procedures/export?format=csv|xlsx
func ExportProceduresHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var procs []models.Procedure
		err := db.Preload("Category").
			Preload("ProcedureMaterials.Material").
			Order("created_at desc").
			Find(&procs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		rows := exportRows(procs)

		if c.Query("format") == "xlsx" {
			data, err := buildXLSX("시술", rows)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
			}
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="procedures.xlsx"`)
			return c.Send(data)
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "CSV oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="procedures.csv"`)
		return c.Send(buf.Bytes())
	}
}

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
