package mediastore

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
)

// Columns served by the metadata store.
const (
	ColumnID           = "_id"
	ColumnData         = "_data"
	ColumnDisplayName  = "_display_name"
	ColumnWidth        = "width"
	ColumnHeight       = "height"
	ColumnMimeType     = "mime_type"
	ColumnMediaType    = "media_type"
	ColumnDateAdded    = "date_added"
	ColumnDateModified = "date_modified"
	ColumnDuration     = "duration"

	// ColumnVolumeName exists from Q on.
	ColumnVolumeName = "volume_name"
)

// KnownColumns lists every column a projection or selection may name.
var KnownColumns = []string{
	ColumnID,
	ColumnData,
	ColumnDisplayName,
	ColumnWidth,
	ColumnHeight,
	ColumnMimeType,
	ColumnMediaType,
	ColumnDateAdded,
	ColumnDateModified,
	ColumnDuration,
	ColumnVolumeName,
}

// IsKnownColumn reports whether col is in KnownColumns.
func IsKnownColumn(col string) bool {
	for _, k := range KnownColumns {
		if k == col {
			return true
		}
	}
	return false
}

// Media type codes stored in the media_type column.
const (
	MediaTypeNone  = 0
	MediaTypeImage = 1
	MediaTypeAudio = 2
	MediaTypeVideo = 3
)

// VolumeExternal is the well-known external volume name.
const VolumeExternal = "external"

// Base locators of the metadata store.
var (
	FilesLocator     = locator.New(locator.SchemeContent, locator.AuthorityMedia, VolumeExternal, "file")
	ImagesLocator    = locator.New(locator.SchemeContent, locator.AuthorityMedia, VolumeExternal, "images", "media")
	VideoLocator     = locator.New(locator.SchemeContent, locator.AuthorityMedia, VolumeExternal, "video", "media")
	AudioLocator     = locator.New(locator.SchemeContent, locator.AuthorityMedia, VolumeExternal, "audio", "media")
	DownloadsLocator = locator.New(locator.SchemeContent, locator.AuthorityDownloadsStore, "public_downloads")
)

// MediaBase maps a media document type ("image", "video", "audio") to the
// metadata store table that holds it.
func MediaBase(mediaType string) (locator.Locator, bool) {
	switch mediaType {
	case "image":
		return ImagesLocator, true
	case "video":
		return VideoLocator, true
	case "audio":
		return AudioLocator, true
	default:
		return locator.Locator{}, false
	}
}

// ParseSelection splits a selection of the form "a = ? AND b = ?" into its
// column names, checking each against KnownColumns. An empty selection yields
// no columns.
func ParseSelection(selection string) ([]string, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, nil
	}

	var columns []string
	for _, term := range strings.Split(selection, " AND ") {
		fields := strings.Fields(term)
		if len(fields) != 3 || fields[1] != "=" || fields[2] != "?" {
			return nil, fmt.Errorf("unsupported selection term: %q", term)
		}
		if !IsKnownColumn(fields[0]) {
			return nil, fmt.Errorf("unknown column in selection: %q", fields[0])
		}
		columns = append(columns, fields[0])
	}
	return columns, nil
}
