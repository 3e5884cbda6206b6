package main

import (
	"context"
	"path/filepath"
	"testing"

	"go-wigstore-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:       "wigstore-test",
		AppEnv:        "test",
		DBDriver:      "sqlite",
		DatabaseURL:   filepath.Join(t.TempDir(), "store.db"),
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		JWTSecret:     "test-secret",
	}
}

func TestRunReturnsConnectError(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "oracle"

	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connect")
}

func TestRunReturnsListenError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := testConfig(t)
	cfg.Port = "not-a-port"

	err := run(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on :not-a-port")
}
