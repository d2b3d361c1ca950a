package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/killallgit/fortune-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: InMemory},
		{name: "file database in a nested directory", dbPath: filepath.Join(t.TempDir(), "nested", "fortunes.db")},
		{name: "empty path creates in-memory database", dbPath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NotNil(t, conn.DB)
			assert.NoError(t, conn.HealthCheck(context.Background()))
		})
	}
}

func TestOpen_InMemorySharesOneConnection(t *testing.T) {
	conn, err := Open(InMemory, false, PoolSettings{MaxOpenConns: 50, MaxIdleConns: 10})
	require.NoError(t, err)
	defer conn.Close()

	sqlDB, err := conn.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
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
				conn, _ := Initialize(InMemory, false)
				return conn, func() {
					if conn != nil {
						conn.Close()
					}
				}
			},
			wantErr: false,
		},
		{
			name: "closed connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(InMemory, false)
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

func TestDB_AutoMigrate(t *testing.T) {
	conn, err := Initialize(InMemory, false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.AutoMigrate(&models.Fortune{}))

	var count int64
	err = conn.DB.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='fortunes'").Scan(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A second run is a no-op
	assert.NoError(t, conn.AutoMigrate(&models.Fortune{}))
	assert.NoError(t, conn.AutoMigrate())
}
