package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("EVENT_STORE", "")
	t.Setenv("WIZARD_SESSION_TTL", "")
	t.Setenv("PAYMENT_DELAY_SCALE", "")

	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, CatalogMock, cfg.CatalogSource)
	assert.Equal(t, EventStoreMemory, cfg.EventStore)
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, 2*time.Hour, cfg.Wizard.SessionTTL)
	assert.Equal(t, 1.0, cfg.Payment.DelayScale)
	assert.Equal(t, "/v1/auth/login", cfg.Auth.LoginURL)
}

func TestLoad_PortFallbackAndOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("WIZARD_SESSION_TTL", "15m")
	t.Setenv("PAYMENT_DELAY_SCALE", "0")
	t.Setenv("NATS_EMBEDDED", "true")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, CatalogPostgres, cfg.CatalogSource)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, 15*time.Minute, cfg.Wizard.SessionTTL)
	assert.Equal(t, 0.0, cfg.Payment.DelayScale)
	assert.True(t, cfg.NATS.Enabled())
}

func TestEnvList_TrimsAndDropsEmpty(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://a.example ,, http://localhost:5173 ")

	assert.Equal(t, []string{"https://a.example", "http://localhost:5173"}, envList("ALLOWED_ORIGINS", ""))
}

func TestEnvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("WIZARD_SESSION_TTL", "soon")

	assert.Equal(t, time.Minute, envDuration("WIZARD_SESSION_TTL", time.Minute))
}
