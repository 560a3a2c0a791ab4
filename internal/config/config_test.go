package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "mongo", cfg.StorageBackend)
	assert.Equal(t, "oneclick", cfg.MongoDatabase)
	assert.Equal(t, 1025, cfg.SMTPPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")
	_, err := Load()
	assert.Error(t, err)
}
