// Package cmdtest sets up configuration, storage and a database for command
// tests.
package cmdtest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/pkg/database"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore/sqlstore"
	"github.com/hashicorp-forge/medialoc/pkg/models"
)

// Env is a temporary medialoc installation.
type Env struct {
	ConfigPath     string
	DatabasePath   string
	ExternalRoot   string
	AppPicturesDir string
	CacheDir       string
}

// New writes a configuration for the given SDK version into a temporary
// directory.
func New(t *testing.T, sdk int) *Env {
	t.Helper()
	dir := t.TempDir()

	e := &Env{
		ConfigPath:     filepath.Join(dir, "config.hcl"),
		DatabasePath:   filepath.Join(dir, "medialoc.db"),
		ExternalRoot:   filepath.Join(dir, "storage"),
		AppPicturesDir: filepath.Join(dir, "storage", "Android", "data", "com.example", "files", "Pictures"),
		CacheDir:       filepath.Join(dir, "cache"),
	}

	body := fmt.Sprintf(`
log_level = "error"

platform {
  sdk_version = %d
}

storage {
  external_root    = %q
  app_pictures_dir = %q
  cache_dir        = %q
}

database {
  driver = "sqlite"
  path   = %q
}
`, sdk, e.ExternalRoot, e.AppPicturesDir, e.CacheDir, e.DatabasePath)
	require.NoError(t, os.WriteFile(e.ConfigPath, []byte(body), 0o644))
	return e
}

// WriteFile creates rel beneath the external root and returns its absolute
// path.
func (e *Env) WriteFile(t *testing.T, rel string, data []byte) string {
	t.Helper()
	p := filepath.Join(e.ExternalRoot, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

// Index records p in the database, opaquely when visible is false.
func (e *Env) Index(t *testing.T, p string, visible bool) *models.MediaFile {
	t.Helper()
	db, err := database.Connect(database.Config{Path: e.DatabasePath}, nil)
	require.NoError(t, err)
	defer func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	}()

	store, err := sqlstore.New(sqlstore.Config{DB: db})
	require.NoError(t, err)

	var mf *models.MediaFile
	if visible {
		mf, err = store.Index(context.Background(), p)
	} else {
		mf, err = store.InsertOpaque(context.Background(), p, filepath.Base(p))
	}
	require.NoError(t, err)
	return mf
}

// Command returns a base command writing to a mock UI.
func Command() (*base.Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	return base.NewCommand(hclog.NewNullLogger(), ui), ui
}

// PNG returns an encoded w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}
