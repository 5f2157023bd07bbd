package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/pkg/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantErr bool
	}{
		{
			name: "in-memory sqlite",
			cfg:  config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		},
		{
			name: "file sqlite creates directory",
			cfg:  config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "test.db")},
		},
		{
			name: "empty driver defaults to sqlite",
			cfg:  config.DatabaseConfig{Path: ":memory:"},
		},
		{
			name:    "unsupported driver",
			cfg:     config.DatabaseConfig{Driver: "oracle"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Open(tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer conn.Close()

			assert.Equal(t, "sqlite", conn.Dialector.Name())
			assert.NoError(t, conn.HealthCheck(context.Background()))
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func() (*DB, func())
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(":memory:", false)
				return conn, func() { conn.Close() }
			},
		},
		{
			name: "closed connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(":memory:", false)
				conn.Close()
				return conn, func() {}
			},
			wantErr: true,
		},
		{
			name: "nil connection",
			setupConn: func() (*DB, func()) {
				return nil, func() {}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, cleanup := tt.setupConn()
			defer cleanup()

			err := conn.HealthCheck(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDB_MigrateAndDrop(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	status, err := conn.Status()
	require.NoError(t, err)
	require.Len(t, status, len(models.AllModels()))
	for _, s := range status {
		assert.False(t, s.Exists, s.Table)
	}

	require.NoError(t, conn.Migrate())
	status, err = conn.Status()
	require.NoError(t, err)
	tables := make([]string, 0, len(status))
	for _, s := range status {
		assert.True(t, s.Exists, s.Table)
		tables = append(tables, s.Table)
	}
	assert.ElementsMatch(t, []string{"documents", "blocks", "captions", "annotation_snapshots"}, tables)

	require.NoError(t, conn.Migrate(), "migrations are repeatable")

	require.NoError(t, conn.DropAll())
	status, err = conn.Status()
	require.NoError(t, err)
	for _, s := range status {
		assert.False(t, s.Exists, s.Table)
	}
}

func TestDB_Transaction(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Migrate())

	t.Run("rollback on error", func(t *testing.T) {
		err := conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&models.Document{DOI: "10.1/rollback"}).Error; err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		var count int64
		conn.Model(&models.Document{}).Where("doi = ?", "10.1/rollback").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("commit", func(t *testing.T) {
		err := conn.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&models.Document{DOI: "10.1/commit", Title: "Committed"}).Error
		})
		require.NoError(t, err)

		var doc models.Document
		require.NoError(t, conn.First(&doc, "doi = ?", "10.1/commit").Error)
		assert.Equal(t, "Committed", doc.Title)
	})
}
