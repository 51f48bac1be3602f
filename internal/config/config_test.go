package config_test

import (
	"testing"
	"time"

	"github.com/opsarc/tenantd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.JWT.ExpiryPeriod)

	// No SMTP_HOST means no SMTP providers at all.
	assert.Empty(t, cfg.SMTP)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_SECONDS", "120")

	cfg := config.Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Minute, cfg.JWT.ExpiryPeriod)
}

func TestLoadSMTP(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "hunter2")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg := config.Load()

	require.Contains(t, cfg.SMTP, "smtp")
	smtp := cfg.SMTP["smtp"]
	assert.Equal(t, "mail.example.com", smtp.Host)
	assert.Equal(t, 2525, smtp.Port)
	assert.Equal(t, "mailer", smtp.Username)
	assert.Equal(t, "hunter2", smtp.Password)
	assert.Equal(t, "noreply@example.com", smtp.From)
}

func TestLoadSMTPDefaultPort(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.com")

	cfg := config.Load()

	require.Contains(t, cfg.SMTP, "smtp")
	assert.Equal(t, 587, cfg.SMTP["smtp"].Port)
}
