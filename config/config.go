package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration read from the environment.
type Config struct {
	Port               string
	AppEnv             string
	DatabaseDSN        string
	JWTSecret          string
	JWTTokenLife       string
	RefreshTokenSecret string
	RefreshTokenLife   string
	KhaltiSecretKey    string
	KhaltiEnv          string
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPass           string
	MailFrom           string
	RedisAddr          string
	AdminEmail         string
	AdminPassword      string
	UploadDir          string
}

// Load reads .env (when present) and builds the Config. In production the
// variables are expected to be set directly.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using system environment variables")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		DatabaseDSN:        getEnv("DB_DSN", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTokenLife:       getEnv("JWT_TOKEN_LIFE", "24h"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenLife:   getEnv("REFRESH_TOKEN_LIFE", "168h"),
		KhaltiSecretKey:    getEnv("KHALTI_SECRET_KEY", ""),
		KhaltiEnv:          getEnv("KHALTI_ENV", "sandbox"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@neatify.app"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "Uploads"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
