// Package sqlstore implements mediastore.Provider over a gorm database.
//
// Rows live in the files table (models.MediaFile) and are addressed with the
// same locators the platform metadata store issues:
//
//	content://media/{volume}/file[/{id}]
//	content://media/{volume}/{images|video|audio}/media[/{id}]
//	content://downloads/public_downloads[/{id}]
//
// The "external" volume addresses every volume.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/models"
)

// Compile-time check that Store implements mediastore.Provider
var _ mediastore.Provider = (*Store)(nil)

// Config configures a Store.
type Config struct {
	// DB must already be migrated (see database.Migrate). Required.
	DB *gorm.DB

	// Fs holds the indexed files. Defaults to the OS filesystem.
	Fs afero.Fs

	Logger hclog.Logger

	// Volume is recorded on indexed rows. Defaults to "external".
	Volume string

	// DownloadsDir marks files indexed beneath it as downloads.
	DownloadsDir string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Store is a SQL-backed metadata-query provider.
type Store struct {
	db           *gorm.DB
	fs           afero.Fs
	logger       hclog.Logger
	volume       string
	downloadsDir string
	now          func() time.Time
}

// New creates a Store.
func New(cfg Config) (*Store, error) {
	if cfg.DB == nil {
		return nil, errors.New("sqlstore: database is required")
	}

	s := &Store{
		db:           cfg.DB,
		fs:           cfg.Fs,
		logger:       cfg.Logger,
		volume:       cfg.Volume,
		downloadsDir: strings.TrimSuffix(cfg.DownloadsDir, "/"),
		now:          cfg.Now,
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	s.logger = s.logger.Named("sqlstore")
	if s.volume == "" {
		s.volume = mediastore.VolumeExternal
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Query implements mediastore.Provider.
func (s *Store) Query(ctx context.Context, loc locator.Locator, spec mediastore.QuerySpec) (mediastore.Cursor, error) {
	r, err := parseRoute(loc)
	if err != nil {
		return nil, err
	}

	projection := spec.Projection
	if len(projection) == 0 {
		projection = mediastore.KnownColumns
	}
	for _, col := range projection {
		if !mediastore.IsKnownColumn(col) {
			return nil, fmt.Errorf("sqlstore: unknown column %q in projection", col)
		}
	}

	columns, err := mediastore.ParseSelection(spec.Selection)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	if len(columns) != len(spec.SelectionArgs) {
		return nil, fmt.Errorf("sqlstore: selection has %d placeholders but %d args",
			len(columns), len(spec.SelectionArgs))
	}

	order, err := parseSortOrder(spec.SortOrder)
	if err != nil {
		return nil, err
	}

	tx := r.scope(s.db.WithContext(ctx).Model(&models.MediaFile{}))
	for i, col := range columns {
		if col == mediastore.ColumnData {
			// Rows with withheld paths never match a path selection.
			tx = tx.Where("_data <> ''")
		}
		tx = tx.Where(col+" = ?", bindArg(col, spec.SelectionArgs[i]))
	}

	rows, err := tx.Select(projection).Order(order).Rows()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", loc, err)
	}

	names, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqlstore: columns: %w", err)
	}
	return &cursor{rows: rows, columns: names}, nil
}

// Open implements mediastore.Provider. loc must address a single row.
func (s *Store) Open(ctx context.Context, loc locator.Locator) (io.ReadCloser, error) {
	r, err := parseRoute(loc)
	if err != nil {
		return nil, err
	}
	if !r.hasID {
		return nil, fmt.Errorf("sqlstore: %s does not address a single row", loc)
	}

	var mf models.MediaFile
	if err := r.scope(s.db.WithContext(ctx).Model(&models.MediaFile{})).First(&mf).Error; err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", loc, err)
	}

	f, err := s.fs.Open(mf.Source)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", loc, err)
	}
	return f, nil
}

// Locator returns the files-table locator of mf.
func Locator(mf *models.MediaFile) locator.Locator {
	return mediastore.FilesLocator.WithVolume(mf.VolumeName).WithAppendedID(mf.ID)
}

var numericColumns = map[string]bool{
	mediastore.ColumnID:           true,
	mediastore.ColumnWidth:        true,
	mediastore.ColumnHeight:       true,
	mediastore.ColumnMediaType:    true,
	mediastore.ColumnDateAdded:    true,
	mediastore.ColumnDateModified: true,
	mediastore.ColumnDuration:     true,
}

// bindArg converts selection args for integer columns so drivers with strict
// typing compare like with like.
func bindArg(col, v string) interface{} {
	if numericColumns[col] {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return v
}

func parseSortOrder(order string) (clause.OrderByColumn, error) {
	fields := strings.Fields(order)
	if len(fields) == 0 {
		return clause.OrderByColumn{Column: clause.Column{Name: mediastore.ColumnID}}, nil
	}
	if len(fields) > 2 || !mediastore.IsKnownColumn(fields[0]) {
		return clause.OrderByColumn{}, fmt.Errorf("sqlstore: unsupported sort order %q", order)
	}

	desc := false
	if len(fields) == 2 {
		switch strings.ToUpper(fields[1]) {
		case "ASC":
		case "DESC":
			desc = true
		default:
			return clause.OrderByColumn{}, fmt.Errorf("sqlstore: unsupported sort order %q", order)
		}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: fields[0]}, Desc: desc}, nil
}

// cursor adapts *sql.Rows to mediastore.Cursor. NULL values are left out of
// the row.
type cursor struct {
	rows    *sql.Rows
	columns []string
}

func (c *cursor) Next() bool {
	return c.rows.Next()
}

func (c *cursor) Row() (mediastore.Row, error) {
	values := make([]sql.NullString, len(c.columns))
	dest := make([]interface{}, len(c.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("sqlstore: scan: %w", err)
	}

	row := make(mediastore.Row, len(c.columns))
	for i, col := range c.columns {
		if values[i].Valid {
			row[col] = values[i].String
		}
	}
	return row, nil
}

func (c *cursor) Err() error {
	return c.rows.Err()
}

func (c *cursor) Close() error {
	return c.rows.Close()
}
