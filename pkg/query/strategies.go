package query

import (
	"math"
	"strconv"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
)

const dataSelection = mediastore.ColumnData + " = ?"

// MediaInfoArity is the length of every Result produced by MediaInfo and
// MediaInfoByLocator.
const MediaInfoArity = 8

var mediaInfoProjection = []string{
	mediastore.ColumnID,
	mediastore.ColumnWidth,
	mediastore.ColumnHeight,
	mediastore.ColumnMimeType,
	mediastore.ColumnMediaType,
	mediastore.ColumnDateAdded,
	mediastore.ColumnDateModified,
	mediastore.ColumnDuration,
}

// Compile-time checks.
var (
	_ Strategy = RowIdentity{}
	_ Strategy = MediaInfo{}
	_ Strategy = MediaInfoByLocator{}
	_ Strategy = ColumnLookup{}
)

// RowIdentity resolves the row id and volume name for an absolute path.
// Result: [rowId, volumeName].
type RowIdentity struct {
	scoped bool
}

// NewRowIdentity builds a RowIdentity for the platform era. From Q on the
// volume name is read from the row; before that the external volume is
// assumed.
func NewRowIdentity(caps platform.Capabilities) RowIdentity {
	return RowIdentity{scoped: platform.HasScopedStorage(caps)}
}

func (s RowIdentity) Spec(_ locator.Locator, path string) mediastore.QuerySpec {
	projection := []string{mediastore.ColumnID}
	if s.scoped {
		projection = append(projection, mediastore.ColumnVolumeName)
	}
	return mediastore.QuerySpec{
		Projection:    projection,
		Selection:     dataSelection,
		SelectionArgs: []string{path},
	}
}

func (s RowIdentity) Keyed() bool { return true }

func (s RowIdentity) Extract(_ locator.Locator, _ string, row mediastore.Row) (Result, error) {
	id, err := rowID(row)
	if err != nil {
		return nil, err
	}

	volume := mediastore.VolumeExternal
	if s.scoped {
		if v, ok := row.Get(mediastore.ColumnVolumeName); ok && v != "" {
			volume = v
		}
	}
	return Result{strconv.FormatInt(id, 10), volume}, nil
}

// MediaInfo extracts media attributes for an absolute path.
// Result: [rowId, width, height, mimeType, mediaType, dateAdded, dateModified, duration].
type MediaInfo struct{}

func (MediaInfo) Spec(_ locator.Locator, path string) mediastore.QuerySpec {
	return mediastore.QuerySpec{
		Projection:    mediaInfoProjection,
		Selection:     dataSelection,
		SelectionArgs: []string{path},
	}
}

func (MediaInfo) Keyed() bool { return true }

func (MediaInfo) Extract(_ locator.Locator, _ string, row mediastore.Row) (Result, error) {
	return extractMediaInfo(row)
}

// MediaInfoByLocator extracts the same attributes as MediaInfo for the row
// the locator itself addresses.
type MediaInfoByLocator struct{}

func (MediaInfoByLocator) Spec(locator.Locator, string) mediastore.QuerySpec {
	return mediastore.QuerySpec{Projection: mediaInfoProjection}
}

func (MediaInfoByLocator) Keyed() bool { return false }

func (MediaInfoByLocator) Extract(_ locator.Locator, _ string, row mediastore.Row) (Result, error) {
	return extractMediaInfo(row)
}

// ColumnLookup reads a single column. With Key set the row is selected by
// "Key = ?" bound to the lookup key; otherwise the locator addresses the row.
// Result: [value].
type ColumnLookup struct {
	Column string
	Key    string
}

// Common column lookups.
var (
	DataByLocator        = ColumnLookup{Column: mediastore.ColumnData}
	DataByID             = ColumnLookup{Column: mediastore.ColumnData, Key: mediastore.ColumnID}
	DisplayNameByLocator = ColumnLookup{Column: mediastore.ColumnDisplayName}
	MimeTypeByLocator    = ColumnLookup{Column: mediastore.ColumnMimeType}
)

func (s ColumnLookup) Spec(_ locator.Locator, key string) mediastore.QuerySpec {
	spec := mediastore.QuerySpec{Projection: []string{s.Column}}
	if s.Key != "" {
		spec.Selection = s.Key + " = ?"
		spec.SelectionArgs = []string{key}
	}
	return spec
}

func (s ColumnLookup) Keyed() bool { return s.Key != "" }

func (s ColumnLookup) Extract(_ locator.Locator, _ string, row mediastore.Row) (Result, error) {
	v, ok := row.Get(s.Column)
	if !ok || v == "" {
		return nil, locator.NewError("extract", locator.ErrNoRow, s.Column+" is empty")
	}
	return Result{v}, nil
}

func rowID(row mediastore.Row) (int64, error) {
	raw, ok := row.Get(mediastore.ColumnID)
	if !ok {
		return 0, locator.NewError("extract", locator.ErrMalformed, "row has no _id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, locator.NewError("extract", locator.ErrMalformed, "row id is not an integer: "+raw)
	}
	return id, nil
}

func extractMediaInfo(row mediastore.Row) (Result, error) {
	id, err := rowID(row)
	if err != nil {
		return nil, err
	}
	mime, _ := row.Get(mediastore.ColumnMimeType)
	dateAdded, _ := row.Get(mediastore.ColumnDateAdded)
	dateModified, _ := row.Get(mediastore.ColumnDateModified)

	return Result{
		strconv.FormatInt(id, 10),
		numeric(row, mediastore.ColumnWidth),
		numeric(row, mediastore.ColumnHeight),
		mime,
		numeric(row, mediastore.ColumnMediaType),
		dateAdded,
		dateModified,
		numeric(row, mediastore.ColumnDuration),
	}, nil
}

// numeric returns the column as a base-10 integer string, "0" when absent or
// unparsable. Fractional values are truncated; NaN, infinities and values
// outside the int64 range count as unparsable.
func numeric(row mediastore.Row, column string) string {
	raw, ok := row.Get(column)
	if !ok {
		return "0"
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && inInt64Range(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return "0"
}

func inInt64Range(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	// 2^63 is exactly representable; MaxInt64 is not.
	return f >= math.MinInt64 && f < -math.MinInt64
}
