package procedures

import (
	"fmt"

	"costdash-backend/internal/margin"
	"costdash-backend/internal/models"

	"gorm.io/gorm"
)

// Recalculate bir işlemin türetilmiş maliyet alanlarını yeniden hesaplar:
//
//  1. işlemin malzeme satırlarını güncel malzeme kayıtlarıyla okur,
//  2. her satırın cost_per_unit snapshot'ını güncel maliyetle tazeler
//     (silinmiş/bulunamayan malzeme 0 sayılır, hesap devam eder),
//  3. marjı hesaplayıp material_cost / margin / margin_percentage yazar.
//
// Çağıranın transaction'ı içinde çalışır; hata durumunda türetilmiş
// alanlara kısmi yazma olmaz, rollback transaction'a kalır. Araya
// değişiklik girmeden ikinci kez çağrılması aynı değerleri üretir.
func Recalculate(tx *gorm.DB, procedureID uint) error {
	var proc models.Procedure
	if err := tx.First(&proc, "id = ?", procedureID).Error; err != nil {
		return fmt.Errorf("işlem okunamadı: %w", err)
	}

	var links []models.ProcedureMaterial
	if err := tx.Preload("Material").Where("procedure_id = ?", procedureID).Find(&links).Error; err != nil {
		return fmt.Errorf("malzeme satırları okunamadı: %w", err)
	}

	lines := make([]margin.Line, 0, len(links))
	for i := range links {
		var cost float64
		if links[i].Material != nil {
			cost = links[i].Material.Cost
		}

		if links[i].CostPerUnit != cost {
			err := tx.Model(&models.ProcedureMaterial{}).
				Where("id = ?", links[i].ID).
				Update("cost_per_unit", cost).Error
			if err != nil {
				return fmt.Errorf("cost_per_unit güncellenemedi: %w", err)
			}
		}

		lines = append(lines, margin.Line{Cost: cost, Quantity: links[i].Quantity})
	}

	res := margin.Calculate(proc.CustomerPrice, lines)

	err := tx.Model(&models.Procedure{}).
		Where("id = ?", procedureID).
		Updates(map[string]interface{}{
			"material_cost":     res.MaterialCost,
			"margin":            res.Margin,
			"margin_percentage": res.MarginPercentage,
		}).Error
	if err != nil {
		return fmt.Errorf("türetilmiş alanlar yazılamadı: %w", err)
	}

	return nil
}
