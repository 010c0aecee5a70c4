package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env in scope
	for _, key := range []string{"CONFIG_PATH", "APP_PORT", "DB_DRIVER", "DB_PATH", "LOG_LEVEL", "IS_PROD"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "dev.db", cfg.DBPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.IsProd)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	data := []byte("app_port: \"9000\"\ndb_driver: mysql\ndb_host: db.internal\nadmin_email: boss@example.com\nredis_db: 2\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("IS_PROD", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.AppPort)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "db.internal", cfg.DBHost)
	require.Equal(t, "boss@example.com", cfg.AdminEmail)
	require.Equal(t, 2, cfg.RedisDB)
	require.True(t, cfg.IsProd)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("REDIS_DB", "two")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("REDIS_DB", "")
	t.Setenv("DB_DRIVER", "postgres")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "pw", DBHost: "localhost", DBPort: "3306", DBName: "credits"}
	require.Equal(t, "app:pw@tcp(localhost:3306)/credits?parseTime=true", cfg.DSN())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
