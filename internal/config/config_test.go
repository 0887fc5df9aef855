package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BANK_DATA_DIR", "APP_PORT", "BANK_STORE", "BANK_SESSIONS",
		"DATABASE_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "LOGIN_RATE_LIMIT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, SessionsStore, cfg.Sessions)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_DATA_DIR", "/var/lib/bank")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BANK_STORE", StorePostgres)
	t.Setenv("BANK_SESSIONS", SessionsRedis)
	t.Setenv("DATABASE_DSN", "postgres://bank@localhost/bank?sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOGIN_RATE_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/bank", cfg.DataDir)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 0, cfg.LoginRateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadRateLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGIN_RATE_LIMIT", "lots")

	_, err := Load()
	assert.ErrorContains(t, err, "LOGIN_RATE_LIMIT")
}

func TestValidate(t *testing.T) {
	base := Config{DataDir: "data", AppPort: "8080", Store: StoreFile, Sessions: SessionsStore}

	cases := []struct {
		name string
		mod  func(*Config)
		want string
	}{
		{"unknown store", func(c *Config) { c.Store = "sqlite" }, `unknown store "sqlite"`},
		{"postgres without dsn", func(c *Config) { c.Store = StorePostgres }, "DATABASE_DSN is required"},
		{"redis without addr", func(c *Config) { c.Sessions = SessionsRedis }, "REDIS_ADDR is required"},
		{"unknown sessions", func(c *Config) { c.Sessions = "memcached" }, `unknown sessions backend "memcached"`},
		{"negative limit", func(c *Config) { c.LoginRateLimit = -1 }, "must not be negative"},
		{"bad port", func(c *Config) { c.AppPort = "http" }, `invalid port "http"`},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data directory is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mod(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}
