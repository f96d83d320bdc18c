package database

import (
	"fmt"

	"costdash-backend/internal/config"
	"costdash-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open veritabanına bağlanır ve şemayı migrate eder. Dönen *gorm.DB
// main'de oluşturulup handler'lara enjekte edilir; paket seviyesinde
// global client yok.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate tüm entity'ler için AutoMigrate çalıştırır. Testlerdeki
// in-memory veritabanları da aynı şemayı buradan kurar.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Material{},
		&models.Procedure{},
		&models.ProcedureMaterial{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}
