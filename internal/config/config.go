// Package config loads the medialoc HCL configuration file.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/medialoc/pkg/database"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
)

// Defaults applied to settings the configuration file leaves out.
const (
	DefaultLogLevel     = "info"
	DefaultSDKVersion   = 33
	DefaultExternalRoot = "/storage/emulated/0"
	DefaultDatabasePath = "medialoc.db"
)

// Config is the root of the configuration file.
type Config struct {
	// LogLevel is one of trace, debug, info, warn or error.
	LogLevel string `hcl:"log_level,optional"`

	Platform *Platform `hcl:"platform,block"`
	Storage  *Storage  `hcl:"storage,block"`
	Database *Database `hcl:"database,block"`
}

// Platform configures the emulated platform.
type Platform struct {
	// SDKVersion selects the platform era and its capabilities.
	SDKVersion int `hcl:"sdk_version,optional"`
}

// Storage configures the storage layout.
type Storage struct {
	// ExternalRoot is the shared external storage root ("primary" volume).
	ExternalRoot string `hcl:"external_root,optional"`

	// AppPicturesDir is the application's private pictures directory, which
	// replaces ExternalRoot for document resolution under scoped storage.
	AppPicturesDir string `hcl:"app_pictures_dir,optional"`

	// CacheDir receives copy-on-read output.
	CacheDir string `hcl:"cache_dir,optional"`

	// DownloadsDir marks indexed files as downloads. Defaults to
	// ExternalRoot/Download.
	DownloadsDir string `hcl:"downloads_dir,optional"`

	// Volume is recorded on indexed rows. Defaults to "external".
	Volume string `hcl:"volume,optional"`
}

// Database configures the metadata store database.
type Database struct {
	Driver   string `hcl:"driver,optional"`
	Path     string `hcl:"path,optional"`
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load decodes the HCL file at path, applies defaults and validates the
// result. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	var c Config
	if err := hclsimple.DecodeFile(path, nil, &c); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.Platform == nil {
		c.Platform = &Platform{}
	}
	if c.Platform.SDKVersion == 0 {
		c.Platform.SDKVersion = DefaultSDKVersion
	}

	if c.Storage == nil {
		c.Storage = &Storage{}
	}
	if c.Storage.ExternalRoot == "" {
		c.Storage.ExternalRoot = DefaultExternalRoot
	}
	if c.Storage.CacheDir == "" {
		c.Storage.CacheDir = filepath.Join(os.TempDir(), "medialoc")
	}
	if c.Storage.DownloadsDir == "" {
		c.Storage.DownloadsDir = path.Join(c.Storage.ExternalRoot, "Download")
	}
	if c.Storage.Volume == "" {
		c.Storage.Volume = mediastore.VolumeExternal
	}

	if c.Database == nil {
		c.Database = &Database{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = database.DriverSQLite
	}
	if c.Database.Driver == database.DriverSQLite && c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("log_level %q is not a valid level", c.LogLevel))
	}

	if c.Platform == nil || c.Platform.SDKVersion < 1 {
		result = multierror.Append(result,
			fmt.Errorf("platform.sdk_version must be positive"))
	}

	if c.Storage == nil {
		result = multierror.Append(result, fmt.Errorf("storage block is missing"))
	} else {
		for name, dir := range map[string]string{
			"storage.external_root":    c.Storage.ExternalRoot,
			"storage.app_pictures_dir": c.Storage.AppPicturesDir,
			"storage.cache_dir":        c.Storage.CacheDir,
			"storage.downloads_dir":    c.Storage.DownloadsDir,
		} {
			if dir != "" && !path.IsAbs(filepath.ToSlash(dir)) {
				result = multierror.Append(result,
					fmt.Errorf("%s must be an absolute path, got %q", name, dir))
			}
		}
		if c.Storage.ExternalRoot == "" {
			result = multierror.Append(result, fmt.Errorf("storage.external_root is required"))
		}
	}

	if c.Database == nil {
		result = multierror.Append(result, fmt.Errorf("database block is missing"))
	} else {
		switch c.Database.Driver {
		case database.DriverSQLite:
			if c.Database.Path == "" {
				result = multierror.Append(result,
					fmt.Errorf("database.path is required for the sqlite driver"))
			}
		case database.DriverPostgres:
			if c.Database.Host == "" {
				result = multierror.Append(result,
					fmt.Errorf("database.host is required for the postgres driver"))
			}
			if c.Database.DBName == "" {
				result = multierror.Append(result,
					fmt.Errorf("database.dbname is required for the postgres driver"))
			}
			if c.Database.Port <= 0 {
				result = multierror.Append(result,
					fmt.Errorf("database.port must be positive for the postgres driver"))
			}
		default:
			result = multierror.Append(result,
				fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
		}
	}

	return result.ErrorOrNil()
}

// Level returns the configured log level.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

// Environment returns the storage layout for platform.Detect.
func (c *Config) Environment() platform.Environment {
	return platform.Environment{
		ExternalRoot:   c.Storage.ExternalRoot,
		AppPicturesDir: c.Storage.AppPicturesDir,
		CacheDir:       c.Storage.CacheDir,
	}
}

// Capabilities runs platform detection for the configured SDK version.
func (c *Config) Capabilities() platform.Capabilities {
	return platform.Detect(c.Platform.SDKVersion, c.Environment())
}

// DatabaseConfig returns the connection settings for database.Connect.
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Driver:   c.Database.Driver,
		Path:     c.Database.Path,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.DBName,
		SSLMode:  c.Database.SSLMode,
	}
}
