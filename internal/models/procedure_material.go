package models

import "time"

// ProcedureMaterial: bir işleme bağlı malzeme satırı. Bağımsız yaşam
// döngüsü yok; işlemin malzeme listesiyle birlikte oluşturulur/silinir.
type ProcedureMaterial struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ProcedureID uint    `gorm:"not null;index" json:"procedure_id"`
	MaterialID  uint    `gorm:"not null;index" json:"material_id"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	// CostPerUnit, son yeniden hesaplama anındaki malzeme fiyatının
	// snapshot'ı. Malzeme fiyatı değişince canlı güncellenmez; bir
	// sonraki Recalculate çağrısında tazelenir.
	CostPerUnit float64   `gorm:"not null;default:0" json:"cost_per_unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}
