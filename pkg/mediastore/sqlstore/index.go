package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/models"
)

const defaultMimeType = "application/octet-stream"

// Extensions the host mime table may not know.
var mediaExtensions = map[string]string{
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".3gp":  "video/3gpp",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
}

// Index records the file at path, replacing any row already indexed for it.
// Image dimensions are read from the file header when the format is known.
func (s *Store) Index(ctx context.Context, path string) (*models.MediaFile, error) {
	return s.insert(ctx, path, filepath.Base(path), true)
}

// InsertOpaque records source without exposing its path, the way scoped
// storage hides paths of files the caller does not own. The row's bytes are
// still available through Open. displayName may be empty.
func (s *Store) InsertOpaque(ctx context.Context, source, displayName string) (*models.MediaFile, error) {
	return s.insert(ctx, source, displayName, false)
}

func (s *Store) insert(ctx context.Context, path, displayName string, visible bool) (*models.MediaFile, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("sqlstore: index %q: path must be absolute", path)
	}
	path = filepath.Clean(path)

	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: index %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlstore: index %q: is a directory", path)
	}

	mimeType := mimeTypeOf(path)
	mf := &models.MediaFile{
		Source:       path,
		DisplayName:  displayName,
		MimeType:     mimeType,
		MediaType:    mediaTypeOf(mimeType),
		DateAdded:    s.now().Unix(),
		DateModified: info.ModTime().Unix(),
		VolumeName:   s.volume,
		IsDownload:   s.isDownload(path),
	}
	if visible {
		mf.Data = path
	}
	if mf.MediaType == mediastore.MediaTypeImage {
		mf.Width, mf.Height = s.dimensions(path)
	}

	if err := mf.Upsert(s.db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("sqlstore: index %q: %w", path, err)
	}

	s.logger.Debug("indexed file",
		"path", path,
		"id", mf.ID,
		"mime_type", mf.MimeType,
		"visible", visible,
	)
	return mf, nil
}

func (s *Store) dimensions(path string) (int64, int64) {
	f, err := s.fs.Open(path)
	if err != nil {
		s.logger.Debug("unable to open image", "path", path, "error", err)
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		if !errors.Is(err, image.ErrFormat) {
			s.logger.Debug("unable to read image header", "path", path, "error", err)
		}
		return 0, 0
	}
	return int64(cfg.Width), int64(cfg.Height)
}

func (s *Store) isDownload(path string) bool {
	return s.downloadsDir != "" && strings.HasPrefix(path, s.downloadsDir+"/")
}

func mimeTypeOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return defaultMimeType
	}
	if t, ok := mediaExtensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return defaultMimeType
}

func mediaTypeOf(mimeType string) int {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return mediastore.MediaTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return mediastore.MediaTypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return mediastore.MediaTypeAudio
	default:
		return mediastore.MediaTypeNone
	}
}
