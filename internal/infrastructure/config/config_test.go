package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/cashi/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"CASHI_API_URL", "CASHI_CONNECT_TIMEOUT", "CASHI_READ_TIMEOUT", "CASHI_STORE", "HTTP_ADDR", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, config.StoreBadger, cfg.Store)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CASHI_API_URL", "http://10.0.2.2:3000")
	t.Setenv("CASHI_READ_TIMEOUT", "5s")
	t.Setenv("CASHI_CONNECT_TIMEOUT", "not-a-duration")
	t.Setenv("CASHI_STORE", config.StoreRedis)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "4000")

	cfg := config.Load()

	assert.Equal(t, "http://10.0.2.2:3000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, ":4000", cfg.HTTPAddr)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	for _, key := range []string{"CASHI_STORE", "PAYMOCK_DB_PATH"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CASHI_STORE=memory\nPAYMOCK_DB_PATH=/tmp/db.json\n"), 0o600))

	cfg := config.Load()

	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, "/tmp/db.json", cfg.MockDBPath)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
