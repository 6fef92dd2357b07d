package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	AppPort string
	BaseURL string

	DBDriver string // "sqlite" or "mysql"
	DBPath   string // sqlite file
	DBDSN    string // mysql dsn

	JWTSecret     string
	JWTExpiration int // seconds

	AdminUsername     string
	AdminPasswordHash string

	GeminiAPIKey string
)

// Load reads the .env file (if present) and initializes configuration.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using system environment variables")
	}

	AppPort = getEnv("APP_PORT", "8080")
	BaseURL = getEnv("BASE_URL", "http://localhost:8080")

	DBDriver = getEnv("DB_DRIVER", "sqlite")
	DBPath = getEnv("DB_PATH", "pos.db")
	DBDSN = getEnv("DB_DSN", "")

	JWTSecret = getEnv("JWT_SECRET", "")
	if JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	JWTExpiration = getEnvAsInt("JWT_EXPIRATION", 86400)

	AdminUsername = getEnv("ADMIN_USERNAME", "admin")
	AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")
	if AdminPasswordHash == "" {
		// ADMIN_PASSWORD is a bootstrap convenience; the hash form is
		// what belongs in a deployed .env.
		plain := getEnv("ADMIN_PASSWORD", "")
		if plain == "" {
			log.Fatal("ADMIN_PASSWORD_HASH (or ADMIN_PASSWORD) is required")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		AdminPasswordHash = string(hash)
	}

	GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
