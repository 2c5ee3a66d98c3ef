package base

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/medialoc/internal/config"
	"github.com/hashicorp-forge/medialoc/pkg/bridge"
	"github.com/hashicorp-forge/medialoc/pkg/database"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore/sqlstore"
)

// Runtime holds the components a command works with.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Store  *sqlstore.Store
	Bridge *bridge.Bridge
}

// LoadConfig loads the configuration at path and applies its log level.
func (c *Command) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Log.SetLevel(cfg.Level())
	return cfg, nil
}

// OpenRuntime loads the configuration at path, connects to the database and
// wires the store and bridge. Callers must Close the runtime.
func (c *Command) OpenRuntime(path string) (*Runtime, error) {
	cfg, err := c.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.DatabaseConfig(), c.Log)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store, err := sqlstore.New(sqlstore.Config{
		DB:           db,
		Fs:           c.Fs,
		Logger:       c.Log,
		Volume:       cfg.Storage.Volume,
		DownloadsDir: cfg.Storage.DownloadsDir,
	})
	if err != nil {
		return nil, err
	}

	b, err := bridge.New(bridge.Config{
		Provider:     store,
		Capabilities: cfg.Capabilities(),
		Fs:           c.Fs,
		Logger:       c.Log,
	})
	if err != nil {
		return nil, err
	}

	args := []interface{}{
		"era", cfg.Capabilities().Era().String(),
		"sdk_version", cfg.Platform.SDKVersion,
		"driver", cfg.Database.Driver,
	}
	if stats, err := database.GetPoolStats(db); err == nil {
		args = append(args, stats.LogArgs()...)
	}
	c.Log.Debug("runtime ready", args...)

	return &Runtime{
		Config: cfg,
		DB:     db,
		Store:  store,
		Bridge: b,
	}, nil
}

// Close releases the database connection.
func (r *Runtime) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
