package query

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// MediaInfoRecord is the typed view of a MediaInfo Result.
type MediaInfoRecord struct {
	ID           int64  `mapstructure:"id" yaml:"id"`
	Width        int64  `mapstructure:"width" yaml:"width"`
	Height       int64  `mapstructure:"height" yaml:"height"`
	MimeType     string `mapstructure:"mime_type" yaml:"mime_type"`
	MediaType    int    `mapstructure:"media_type" yaml:"media_type"`
	DateAdded    string `mapstructure:"date_added" yaml:"date_added"`
	DateModified string `mapstructure:"date_modified" yaml:"date_modified"`
	Duration     int64  `mapstructure:"duration" yaml:"duration"`
}

// ParseMediaInfo converts a MediaInfo Result. It returns false unless r has
// exactly MediaInfoArity elements and a numeric row id.
func ParseMediaInfo(r Result) (MediaInfoRecord, bool) {
	if len(r) != MediaInfoArity {
		return MediaInfoRecord{}, false
	}
	id, err := strconv.ParseInt(r[0], 10, 64)
	if err != nil {
		return MediaInfoRecord{}, false
	}
	return MediaInfoRecord{
		ID:           id,
		Width:        parseInt(r[1]),
		Height:       parseInt(r[2]),
		MimeType:     r[3],
		MediaType:    int(parseInt(r[4])),
		DateAdded:    r[5],
		DateModified: r[6],
		Duration:     parseInt(r[7]),
	}, true
}

// AddedAt parses DateAdded. The store writes epoch seconds but some providers
// return formatted dates; both are accepted. Zero on failure.
func (m MediaInfoRecord) AddedAt() time.Time {
	return parseTime(m.DateAdded)
}

// ModifiedAt parses DateModified like AddedAt.
func (m MediaInfoRecord) ModifiedAt() time.Time {
	return parseTime(m.DateModified)
}

// DurationValue returns the duration column as milliseconds.
func (m MediaInfoRecord) DurationValue() time.Duration {
	return time.Duration(m.Duration) * time.Millisecond
}

func parseTime(s string) time.Time {
	if s == "" || s == "0" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
