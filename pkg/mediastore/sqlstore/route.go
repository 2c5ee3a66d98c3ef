package sqlstore

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
)

// route is the table subset a locator addresses.
type route struct {
	volume    string // "" matches every volume
	mediaType int    // -1 matches every media type
	downloads bool
	id        int64
	hasID     bool
}

var mediaTables = map[string]int{
	"images": mediastore.MediaTypeImage,
	"video":  mediastore.MediaTypeVideo,
	"audio":  mediastore.MediaTypeAudio,
}

func parseRoute(loc locator.Locator) (route, error) {
	r := route{mediaType: -1}
	if loc.Scheme() != locator.SchemeContent {
		return r, fmt.Errorf("sqlstore: unsupported locator %s", loc)
	}

	segments := loc.Segments()
	var idSegment []string

	switch loc.Authority() {
	case locator.AuthorityMedia:
		if len(segments) < 2 {
			return r, fmt.Errorf("sqlstore: unknown locator %s", loc)
		}
		if segments[0] != mediastore.VolumeExternal {
			r.volume = segments[0]
		}
		switch {
		case segments[1] == "file":
			idSegment = segments[2:]
		case len(segments) >= 3 && segments[2] == "media":
			mt, ok := mediaTables[segments[1]]
			if !ok {
				return r, fmt.Errorf("sqlstore: unknown locator %s", loc)
			}
			r.mediaType = mt
			idSegment = segments[3:]
		default:
			return r, fmt.Errorf("sqlstore: unknown locator %s", loc)
		}

	case locator.AuthorityDownloadsStore:
		if len(segments) < 1 || segments[0] != "public_downloads" {
			return r, fmt.Errorf("sqlstore: unknown locator %s", loc)
		}
		r.downloads = true
		idSegment = segments[1:]

	default:
		return r, fmt.Errorf("sqlstore: unsupported authority %q", loc.Authority())
	}

	switch len(idSegment) {
	case 0:
	case 1:
		id, err := strconv.ParseInt(idSegment[0], 10, 64)
		if err != nil {
			return r, fmt.Errorf("sqlstore: invalid row id in %s", loc)
		}
		r.id, r.hasID = id, true
	default:
		return r, fmt.Errorf("sqlstore: unknown locator %s", loc)
	}
	return r, nil
}

func (r route) scope(tx *gorm.DB) *gorm.DB {
	if r.volume != "" {
		tx = tx.Where("volume_name = ?", r.volume)
	}
	if r.mediaType >= 0 {
		tx = tx.Where("media_type = ?", r.mediaType)
	}
	if r.downloads {
		tx = tx.Where("is_download = ?", true)
	}
	if r.hasID {
		tx = tx.Where("_id = ?", r.id)
	}
	return tx
}
