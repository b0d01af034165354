package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
db:
  host: db.internal
  port: 5432
  user: app
  password: secret
  name: portfoliohub
mq:
  url: amqp://guest:guest@mq:5672/
redis:
  addr: redis:6379
jwt:
  secret: file-secret
server:
  port: "8080"
storage:
  base_url: http://storage:9000
  api_key: file-key
  bucket: docs
`

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, testYAML)

	cfg := Load()

	if cfg.DB.Host != "db.internal" || cfg.DB.Port != 5432 {
		t.Errorf("db = %s:%d", cfg.DB.Host, cfg.DB.Port)
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Errorf("jwt secret = %q", cfg.JWT.Secret)
	}
	if cfg.Storage.Bucket != "docs" {
		t.Errorf("bucket = %q", cfg.Storage.Bucket)
	}
	// Unset cadence falls back to daily.
	if cfg.Worker.SweepIntervalHours != 24 {
		t.Errorf("sweep interval = %d, want 24", cfg.Worker.SweepIntervalHours)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, testYAML)
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("STORAGE_URL", "http://other:9000")

	cfg := Load()

	if cfg.DB.Host != "override.internal" {
		t.Errorf("db host = %q, want env override", cfg.DB.Host)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("jwt secret = %q, want env override", cfg.JWT.Secret)
	}
	if cfg.Storage.BaseURL != "http://other:9000" {
		t.Errorf("storage url = %q, want env override", cfg.Storage.BaseURL)
	}
	// Values without overrides keep the file's settings.
	if cfg.DB.Name != "portfoliohub" {
		t.Errorf("db name = %q", cfg.DB.Name)
	}
}
