package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port             string
	DatabaseURL      string
	DataPath         string
	JWTSecret        string
	APIMasterSecret  string
	AdminUsername    string
	AdminPassword    string
	LogLevel         string
	GinMode          string
	DefaultRateLimit int
}

// LoadEnvFile loads the first .env found in the working directory or its parents
func LoadEnvFile() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads the configuration from the environment, applying defaults
func Load() Config {
	return Config{
		Port:             getenv("PORT", "8000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DataPath:         getenv("DATA_PATH", "staffing.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		APIMasterSecret:  os.Getenv("API_MASTER_SECRET"),
		AdminUsername:    getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getenv("ADMIN_PASSWORD", "admin123"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		GinMode:          os.Getenv("GIN_MODE"),
		DefaultRateLimit: getenvInt("DEFAULT_RATE_LIMIT", 10000),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
