package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Storage StorageConfig
	Payment PaymentConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// BackendConfig points at the external REST/OData API this app
// consumes. All tour, order, payment and auth data lives there.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret string
}

type StorageConfig struct {
	Dir      string
	RedisURL string
}

type PaymentConfig struct {
	HomeURL string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_API_URL", "http://localhost:5000/api"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
		},
		Storage: StorageConfig{
			Dir:      getEnv("STORAGE_DIR", "./data"),
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Payment: PaymentConfig{
			HomeURL: getEnv("PAYMENT_HOME_URL", "/"),
		},
	}

	return config, nil
}

// IsProduction reports whether the app runs with production settings
// (secure cookies, HTTPS assumptions).
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
