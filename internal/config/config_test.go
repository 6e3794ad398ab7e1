package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 7*24, cfg.JWT.AccessTTLHours)
	assert.Equal(t, 30*24, cfg.JWT.RefreshTTLHours)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.Client.BaseURL)
	assert.NotEmpty(t, cfg.Client.SessionFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL_HOURS", "48")
	t.Setenv("MONLINE_API_URL", "https://api.monline.net.bd/api/v1")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 48, cfg.JWT.AccessTTLHours)
	assert.Equal(t, "https://api.monline.net.bd/api/v1", cfg.Client.BaseURL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate(), "empty secret must be rejected")

	cfg.JWT.SecretKey = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate(), "known placeholder must be rejected")

	cfg.JWT.SecretKey = "short"
	assert.Error(t, cfg.Validate(), "short secret must be rejected")

	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5432", User: "monline",
		Password: "pw", DBName: "billing", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://monline:pw@db:5432/billing?sslmode=disable", c.DSN())
}
