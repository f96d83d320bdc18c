package models

import "time"

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;unique" json:"name"`
	Description  string    `gorm:"size:500" json:"description,omitempty"`
	Color        string    `gorm:"size:20;not null;default:'#6366f1'" json:"color"`
	DisplayOrder int       `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
