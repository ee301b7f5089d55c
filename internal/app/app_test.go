package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(dir string) *config.Config {
	return &config.Config{
		App:           config.AppConfig{Name: "gradebook", Environment: config.EnvDevelopment},
		Storage:       config.StorageConfig{Backend: config.BackendFile, DataDir: dir},
		Observability: config.ObservabilityConfig{LogLevel: "info"},
	}
}

func TestNew_FileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ctx := context.Background()

	a, err := New(ctx, fileConfig(dir), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.FileExists(t, filepath.Join(dir, "students_master.txt"))
	assert.FileExists(t, filepath.Join(dir, "grades_transactions.txt"))

	_, ok, err := a.Auth.AuthenticateAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Records.AddStudent(ctx, "S1", "Ann", "ann", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	p, ok, err := a.Auth.AuthenticateStudent(ctx, "ann", "pw")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "S1", p.Student.StudentID)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := fileConfig(t.TempDir())
	cfg.Storage.Backend = "sqlite"

	_, err := New(context.Background(), cfg, nil)

	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := fileConfig(t.TempDir())
	cfg.Observability.LogLevel = "warn"

	log := NewLogger(cfg)

	assert.False(t, log.Enabled(logger.LevelInfo))
	assert.True(t, log.Enabled(logger.LevelWarn))
}
