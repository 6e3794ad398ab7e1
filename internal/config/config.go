package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Insecure defaults that must never reach production
var insecureDefaults = map[string]bool{
	"your-secret-key-change-in-production": true,
	"secret": true,
	"":       true,
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	// Token lifetimes in hours. Access tokens default to 7 days,
	// refresh tokens to 30.
	AccessTTLHours  int
	RefreshTTLHours int
}

// ClientConfig configures the admin CLI side: where the backend lives and
// where the session file (tokens + cached profile) is persisted.
type ClientConfig struct {
	BaseURL     string
	SessionFile string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "monline"),
			Password: getEnv("DB_PASSWORD", "monline"),
			DBName:   getEnv("DB_NAME", "monline_billing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET_KEY", ""),
			AccessTTLHours:  getEnvInt("JWT_ACCESS_TTL_HOURS", 7*24),
			RefreshTTLHours: getEnvInt("JWT_REFRESH_TTL_HOURS", 30*24),
		},
		Client: ClientConfig{
			BaseURL:     getEnv("MONLINE_API_URL", "http://localhost:8080/api/v1"),
			SessionFile: getEnv("MONLINE_SESSION_FILE", defaultSessionFile()),
		},
	}

	return cfg
}

// Validate checks server-side settings. The CLI does not call this; it only
// needs Client values, which always have usable defaults.
func (c *Config) Validate() error {
	if insecureDefaults[c.JWT.SecretKey] {
		return fmt.Errorf("JWT_SECRET_KEY must be set to a secure value (current value is insecure or empty)")
	}
	if len(c.JWT.SecretKey) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters long")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("[config] cannot resolve home directory: %v", err)
		return ".monline-session.json"
	}
	return filepath.Join(home, ".config", "monline", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
