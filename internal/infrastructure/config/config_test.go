package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileBytes)
	assert.Equal(t, "pdf", cfg.Certificate.Format)
	assert.Equal(t, "BagCheck Expert", cfg.Certificate.DefaultExpertName)
	assert.Equal(t, 5, cfg.Idempotency.TestEmailTTL)
	assert.Equal(t, 40_000_000, cfg.Upload.MaxPixels)
	assert.Equal(t, "http://localhost:8080", cfg.Server.GetAPIBaseURL())
	assert.Same(t, cfg, Get())
}

func TestLoadFrom_EnvironmentOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
server:
  port: 9090
  public_base_url: https://bagcheck.example/
certificate:
  format: html
`)
	writeConfig(t, dir, "config.production.yaml", `
server:
  mode: release
database:
  driver: sqlite
  sqlite_path: /tmp/bagcheck.db
`)

	cfg, err := LoadFrom("production", dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "https://bagcheck.example", cfg.Server.GetPublicBaseURL())
	assert.Equal(t, "html", cfg.Certificate.Format)
	assert.True(t, cfg.Database.IsSQLite())
	assert.Equal(t, "/tmp/bagcheck.db?_foreign_keys=on", cfg.Database.GetDSN())
}

func TestLoadFrom_EnvVariables(t *testing.T) {
	t.Setenv("BAGCHECK_SERVER_PORT", "7070")
	t.Setenv("BAGCHECK_EMAIL_FROM_NAME", "Atelier")

	cfg, err := LoadFrom("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "Atelier", cfg.Email.FromName)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown certificate format", content: "certificate:\n  format: docx\n"},
		{name: "unknown storage driver", content: "storage:\n  driver: s3\n"},
		{name: "gcs without bucket", content: "storage:\n  driver: gcs\n"},
		{name: "zero upload limit", content: "upload:\n  max_files: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.yaml", tt.content)

			_, err := LoadFrom("", dir)
			assert.Error(t, err)
		})
	}
}
