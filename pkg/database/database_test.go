package database

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/hashicorp-forge/medialoc/pkg/models"
)

func TestConfig_Dialector(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"default driver is sqlite", Config{Path: ":memory:"}, "sqlite", false},
		{"sqlite", Config{Driver: DriverSQLite, Path: "media.db"}, "sqlite", false},
		{"sqlite without path", Config{Driver: DriverSQLite}, "", true},
		{"postgres", Config{Driver: DriverPostgres, Host: "localhost", Port: 5432, DBName: "medialoc"}, "postgres", false},
		{"unknown driver", Config{Driver: "mysql"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.cfg.Dialector()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: ":memory:"}, nil)
	require.NoError(t, err)

	stats, err := GetPoolStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections, ":memory: must use a single connection")

	mf := &models.MediaFile{Source: "/sdcard/a.png", MimeType: "image/png", VolumeName: "external"}
	require.NoError(t, mf.Create(db))
	assert.True(t, db.Migrator().HasTable(&models.MediaFile{}))
}

func TestConnect_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medialoc.db")

	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info})

	db, err := Connect(Config{Path: path, MaxOpenConns: 3}, log)
	require.NoError(t, err)

	stats, err := GetPoolStats(db)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.MaxOpenConnections)
	assert.Contains(t, buf.String(), "connected to database")
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle"}, nil)
	assert.Error(t, err)
}

func TestGetPoolStats(t *testing.T) {
	db, err := Connect(Config{Path: ":memory:"}, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM files").Scan(&count).Error)
	assert.Zero(t, count)

	poolStats, err := GetPoolStats(db)
	require.NoError(t, err)
	assert.Equal(t, poolStats.OpenConnections, poolStats.InUse+poolStats.Idle, "open = in-use + idle")
	assert.GreaterOrEqual(t, poolStats.WaitDuration, time.Duration(0))
}

func TestGormLogger(t *testing.T) {
	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
	ctx := context.Background()

	t.Run("failed query logs error", func(t *testing.T) {
		buf.Reset()
		l := NewGormLogger(log)
		l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
		assert.Contains(t, buf.String(), "database query failed")
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		buf.Reset()
		l := NewGormLogger(log).LogMode(logger.Silent)
		l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
		l.Error(ctx, "ignored")
		assert.Empty(t, buf.String())
	})

	t.Run("slow query warns", func(t *testing.T) {
		buf.Reset()
		l := NewGormLogger(log)
		l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
		assert.Contains(t, buf.String(), "slow database query")
	})
}
