package models

import "time"

type Material struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Cost        float64   `gorm:"not null;default:0" json:"cost"`
	Supplier    string    `gorm:"size:100" json:"supplier,omitempty"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	Unit        string    `gorm:"size:20;not null;default:'ea'" json:"unit"` // ea, cc, vial vs.
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
