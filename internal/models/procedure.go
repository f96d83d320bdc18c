package models

import "time"

type Procedure struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"size:150;not null;index" json:"name"`
	CategoryID    uint    `gorm:"index" json:"category_id"`
	CustomerPrice float64 `gorm:"not null;default:0" json:"customer_price"`
	// Türetilmiş alanlar: her malzeme listesi / fiyat değişiminden sonra
	// Recalculate yazar, client'tan asla alınmaz.
	MaterialCost     float64   `gorm:"not null;default:0" json:"material_cost"`
	Margin           float64   `gorm:"not null;default:0" json:"margin"`
	MarginPercentage float64   `gorm:"not null;default:0" json:"margin_percentage"`
	Description      string    `gorm:"size:1000" json:"description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Category           *Category           `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ProcedureMaterials []ProcedureMaterial `gorm:"foreignKey:ProcedureID;constraint:OnDelete:CASCADE" json:"procedure_materials,omitempty"`
}
