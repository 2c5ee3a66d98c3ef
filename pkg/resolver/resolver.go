// Package resolver decodes document-provider locators into filesystem paths.
//
// Each document provider encodes its ids differently:
//
//   - External storage: "type:relativePath", e.g. "primary:DCIM/a.jpg"
//   - Downloads: a decimal row id, or "raw:/absolute/path"
//   - Media: "mediaType:rowId", e.g. "image:42"
//
// Ids that carry a path are joined onto a storage root; ids that carry a row
// id become a secondary query against the metadata store.
package resolver

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
	"github.com/hashicorp-forge/medialoc/pkg/query"
)

const (
	primaryVolume = "primary"
	rawPrefix     = "raw:"
)

// Resolver decodes document locators. It holds no per-call state.
type Resolver struct {
	caps   platform.Capabilities
	engine *query.Engine
	logger hclog.Logger
}

// New creates a Resolver for the given platform capabilities.
func New(caps platform.Capabilities, engine *query.Engine, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{
		caps:   caps,
		engine: engine,
		logger: logger.Named("resolver"),
	}
}

// Resolve returns the filesystem path behind a content locator. It applies
// only once document locators exist (KitKat on). GooglePhotos and
// unclassified locators fall through to a _data lookup on the locator itself.
//
// Errors wrap the locator sentinels; nothing panics past this call.
func (r *Resolver) Resolve(ctx context.Context, loc locator.Locator) (string, error) {
	dc, ok := r.caps.(platform.DocumentCapabilities)
	if !ok {
		return "", locator.NewError("resolve", locator.ErrUnsupported,
			"document locators need "+platform.EraKitKat.String()+" or later")
	}
	if loc.Scheme() != locator.SchemeContent {
		return "", locator.NewError("resolve", locator.ErrUnsupported, "not a content locator: "+loc.String())
	}

	var (
		p   string
		err error
	)
	switch loc.Kind() {
	case locator.KindExternalStorageDocument:
		p, err = r.externalStorage(dc, loc)
	case locator.KindDownloadsDocument:
		p, err = r.downloads(ctx, loc)
	case locator.KindMediaDocument:
		p, err = r.media(ctx, loc)
	default:
		p, err = r.lookup(ctx, query.DataByLocator, loc, "")
	}

	if err != nil {
		r.logger.Debug("document locator unresolved",
			"locator", loc.String(),
			"kind", loc.Kind().String(),
			"reason", locator.Classify(err),
		)
		return "", err
	}
	return p, nil
}

func (r *Resolver) externalStorage(dc platform.DocumentCapabilities, loc locator.Locator) (string, error) {
	volume, rel, err := splitDocumentID(loc)
	if err != nil {
		return "", err
	}

	// TODO: resolve non-primary volumes once mounted volume roots are exposed
	// through platform.Environment.
	if volume != primaryVolume {
		return "", locator.NewError("resolve", locator.ErrUnsupported, fmt.Sprintf("volume %q", volume))
	}

	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", locator.NewError("resolve", locator.ErrMalformed, "relative path must name a file beneath the volume root")
	}

	root := dc.PrimaryStorageRoot()
	if root == "" {
		return "", locator.NewError("resolve", locator.ErrUnsupported, "primary storage root is not configured")
	}
	return path.Join(root, rel), nil
}

func (r *Resolver) downloads(ctx context.Context, loc locator.Locator) (string, error) {
	id, ok := loc.DocumentID()
	if !ok {
		return "", locator.NewError("resolve", locator.ErrMalformed, "missing document id")
	}

	if strings.HasPrefix(id, rawPrefix) {
		return strings.TrimPrefix(id, rawPrefix), nil
	}

	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", locator.NewError("resolve", locator.ErrMalformed, "downloads id is not an integer: "+id)
	}
	return r.lookup(ctx, query.DataByLocator, mediastore.DownloadsLocator.WithAppendedID(rowID), "")
}

func (r *Resolver) media(ctx context.Context, loc locator.Locator) (string, error) {
	mediaType, rawID, err := splitDocumentID(loc)
	if err != nil {
		return "", err
	}

	base, ok := mediastore.MediaBase(mediaType)
	if !ok {
		return "", locator.NewError("resolve", locator.ErrUnsupported, fmt.Sprintf("media type %q", mediaType))
	}
	if _, err := strconv.ParseInt(rawID, 10, 64); err != nil {
		return "", locator.NewError("resolve", locator.ErrMalformed, "media row id is not an integer: "+rawID)
	}
	return r.lookup(ctx, query.DataByID, base, rawID)
}

func (r *Resolver) lookup(ctx context.Context, s query.Strategy, loc locator.Locator, key string) (string, error) {
	res, err := r.engine.Query(ctx, s, loc, key)
	if err != nil {
		return "", err
	}
	return res[0], nil
}

// splitDocumentID splits a "prefix:value" document id into exactly two parts.
func splitDocumentID(loc locator.Locator) (string, string, error) {
	id, ok := loc.DocumentID()
	if !ok {
		return "", "", locator.NewError("resolve", locator.ErrMalformed, "missing document id")
	}
	parts := strings.Split(id, ":")
	if len(parts) != 2 {
		return "", "", locator.NewError("resolve", locator.ErrMalformed, "expected 'type:id', got "+id)
	}
	return parts[0], parts[1], nil
}
