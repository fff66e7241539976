package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	StoreDriver        string
	StoreDBPath        string
	FirestoreProjectID string
	FirestoreCredsFile string

	TelegramToken string
	AdminPassword string
	GeminiAPIKey  string
	GeminiModel   string

	LogLevel string
	LogFile  string
	LogJSON  bool
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		StoreDriver:        DriverSQLite,
		StoreDBPath:        "data/catalog.db",
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCredsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogFile:            os.Getenv("LOG_FILE"),
	}

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		config.StoreDriver = strings.ToLower(strings.TrimSpace(driver))
	}
	if dbPath := os.Getenv("STORE_DB_PATH"); dbPath != "" {
		config.StoreDBPath = dbPath
	}

	if rawJSON := os.Getenv("LOG_JSON"); rawJSON != "" {
		parsed, err := strconv.ParseBool(rawJSON)
		if err != nil {
			return nil, fmt.Errorf("LOG_JSON noto'g'ri formatda: %v", err)
		}
		config.LogJSON = parsed
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate store sozlamalarini tekshirish
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.StoreDBPath == "" {
			return fmt.Errorf("STORE_DB_PATH environment variable bo'sh")
		}
	case DriverFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID environment variable bo'sh")
		}
	default:
		return fmt.Errorf("STORE_DRIVER noma'lum: %q (memory, sqlite, firestore)", c.StoreDriver)
	}
	return nil
}

// ValidateBot bot uchun majburiy sozlamalar
func (c *Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD environment variable bo'sh")
	}
	return nil
}
