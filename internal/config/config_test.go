package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `csv: exports/activities.csv
database: out/cdm.db
backend: postgres
org_uid: 0b5f8c1e-4a0e-4c55-8a3e-9b6d1f2a7c10
timeout: 2m
dates:
  strict: true
connection:
  host: warehouse.internal
  port: 5433
  username: ingest
  database: warehouse
  sslmode: require
  auth_method: aws
  aws_region: eu-west-1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "exports/activities.csv", cfg.CSV)
	assert.Equal(t, "out/cdm.db", cfg.Database)
	assert.Equal(t, "postgres", cfg.Backend)
	assert.Equal(t, "0b5f8c1e-4a0e-4c55-8a3e-9b6d1f2a7c10", cfg.OrgUID)
	assert.True(t, cfg.Dates.Strict)
	assert.Equal(t, "warehouse.internal", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "ingest", cfg.Connection.Username)
	assert.Equal(t, "warehouse", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "aws", cfg.Connection.AuthMethod)
	assert.Equal(t, "eu-west-1", cfg.Connection.AWSRegion)
	assert.False(t, cfg.Connection.IsEmpty())

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, timeout)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("database: local.db\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "local.db", cfg.Database)
	assert.Equal(t, "", cfg.CSV)
	assert.True(t, cfg.Connection.IsEmpty())

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, FileConfig{}, *cfg)
}

func TestTimeoutDuration_Invalid(t *testing.T) {
	cfg := FileConfig{Timeout: "soon"}
	_, err := cfg.TimeoutDuration()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "soon")
}
