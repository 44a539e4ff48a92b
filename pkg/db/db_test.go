package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voyage/pkg/config"
)

func TestRuntimeConnString_PrefersDatabaseURL(t *testing.T) {
	cfg := config.Config{
		DatabaseURL: "postgres://pooler/voyage?pgbouncer=true",
		DB:          config.DBConfig{Host: "db", Port: "5432", Name: "voyage", User: "u", Password: "p"},
	}
	assert.Equal(t, cfg.DatabaseURL, runtimeConnString(cfg))
}

func TestDSN_DefaultsSSLMode(t *testing.T) {
	got := dsn(config.DBConfig{Host: "db", Port: "5432", Name: "voyage", User: "u", Password: "p"})
	assert.Equal(t, "postgres://u:p@db:5432/voyage?sslmode=disable", got)
}

func TestMigrationConnString_UsesDirectURL(t *testing.T) {
	cfg := config.Config{DatabaseURL: "postgres://pooler/x", DirectURL: "postgres://direct/x"}
	assert.Equal(t, "postgres://direct/x", migrationConnString(cfg))

	cfg.DirectURL = " "
	assert.Equal(t, "postgres://pooler/x", migrationConnString(cfg))
}
