package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/medialoc/pkg/database"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, hclog.Info, c.Level())
	assert.Equal(t, DefaultSDKVersion, c.Platform.SDKVersion)
	assert.Equal(t, DefaultExternalRoot, c.Storage.ExternalRoot)
	assert.Equal(t, "/storage/emulated/0/Download", c.Storage.DownloadsDir)
	assert.Equal(t, "external", c.Storage.Volume)
	assert.Equal(t, database.DriverSQLite, c.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, c.Database.Path)
	assert.Equal(t, platform.EraQ, c.Capabilities().Era())
}

func TestLoad(t *testing.T) {
	p := writeConfig(t, `
log_level = "debug"

platform {
  sdk_version = 28
}

storage {
  external_root    = "/mnt/sdcard"
  app_pictures_dir = "/mnt/sdcard/Android/data/com.example/files/Pictures"
  cache_dir        = "/data/cache"
}

database {
  driver = "sqlite"
  path   = "/var/lib/medialoc/media.db"
}
`)

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, hclog.Debug, c.Level())
	assert.Equal(t, platform.EraKitKat, c.Capabilities().Era())
	assert.Equal(t, platform.Environment{
		ExternalRoot:   "/mnt/sdcard",
		AppPicturesDir: "/mnt/sdcard/Android/data/com.example/files/Pictures",
		CacheDir:       "/data/cache",
	}, c.Environment())
	assert.Equal(t, "/mnt/sdcard/Download", c.Storage.DownloadsDir)
	assert.Equal(t, database.Config{Driver: "sqlite", Path: "/var/lib/medialoc/media.db"}, c.DatabaseConfig())
}

func TestLoad_Postgres(t *testing.T) {
	p := writeConfig(t, `
database {
  driver   = "postgres"
  host     = "localhost"
  port     = 5432
  user     = "medialoc"
  password = "secret"
  dbname   = "medialoc"
  sslmode  = "require"
}
`)

	c, err := Load(p)
	require.NoError(t, err)

	dc := c.DatabaseConfig()
	assert.Equal(t, database.DriverPostgres, dc.Driver)
	assert.Empty(t, dc.Path)
	assert.Equal(t, 5432, dc.Port)
	assert.Equal(t, "require", dc.SSLMode)
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Load(writeConfig(t, `platform {`))
		assert.Error(t, err)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := Load(writeConfig(t, `colour = "blue"`))
		assert.Error(t, err)
	})
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	p := writeConfig(t, `
log_level = "loud"

platform {
  sdk_version = -1
}

storage {
  cache_dir = "relative/cache"
}

database {
  driver = "postgres"
}
`)

	_, err := Load(p)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	// log level, sdk version, cache dir, host, dbname, port
	assert.Len(t, merr.Errors, 6)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "storage.cache_dir")
	assert.Contains(t, err.Error(), "database.host")
}

func TestValidate_UnknownDriver(t *testing.T) {
	c := Default()
	c.Database.Driver = "mysql"
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mysql"`)
}
