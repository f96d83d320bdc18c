package config

import (
	"log"
	"os"

	"github.com/subosito/gotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string
}

func Load() *Config {
	// Lokal geliştirme için .env (varsa). Production gerçek env kullanır.
	_ = gotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Bağlantı bilgisi gömülü fallback olmadan dışarıdan gelmek zorunda.
	if cfg.DatabaseDSN == "" {
		log.Fatal("[FATAL] DATABASE_DSN environment değişkeni tanımlanmamış!")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
