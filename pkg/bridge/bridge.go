// Package bridge translates between absolute file paths and resource
// locators.
//
// It is the top of the resolution stack: PathToLocator mints a metadata store
// locator for an indexed path, and LocatorToPath turns any supported locator
// back into a path, optionally copying the resource into the app cache when
// scoped storage leaves no usable path.
//
// Both directions report failure as ok == false. Every failure is logged
// with its classification and none is returned as an error.
package bridge

import (
	"context"
	"errors"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
	"github.com/hashicorp-forge/medialoc/pkg/query"
	"github.com/hashicorp-forge/medialoc/pkg/resolver"
)

// Config configures a Bridge.
type Config struct {
	// Provider is the metadata-query provider. Required.
	Provider mediastore.Provider

	// Capabilities is the result of platform.Detect. Required.
	Capabilities platform.Capabilities

	// Fs receives copy-on-read output. Defaults to the OS filesystem.
	Fs afero.Fs

	// Logger defaults to a null logger.
	Logger hclog.Logger

	// NameFunc generates file names for copies whose provider supplies no
	// display name. Defaults to a random UUID.
	NameFunc func() string
}

// Bridge orchestrates the classifier, resolver and strategy engine.
type Bridge struct {
	provider mediastore.Provider
	caps     platform.Capabilities
	engine   *query.Engine
	resolver *resolver.Resolver
	fs       afero.Fs
	logger   hclog.Logger
	nameFunc func() string

	rowIdentity query.RowIdentity
}

// New creates a Bridge.
func New(cfg Config) (*Bridge, error) {
	if cfg.Provider == nil {
		return nil, errors.New("bridge: provider is required")
	}
	if cfg.Capabilities == nil {
		return nil, errors.New("bridge: platform capabilities are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	nameFunc := cfg.NameFunc
	if nameFunc == nil {
		nameFunc = randomName
	}

	engine := query.NewEngine(cfg.Provider, logger)
	return &Bridge{
		provider:    cfg.Provider,
		caps:        cfg.Capabilities,
		engine:      engine,
		resolver:    resolver.New(cfg.Capabilities, engine, logger),
		fs:          fs,
		logger:      logger.Named("bridge"),
		nameFunc:    nameFunc,
		rowIdentity: query.NewRowIdentity(cfg.Capabilities),
	}, nil
}

// Engine returns the strategy engine the bridge queries through.
func (b *Bridge) Engine() *query.Engine {
	return b.engine
}

// PathToLocator mints a locator for an indexed absolute path. base selects
// the metadata store table and defaults to mediastore.FilesLocator. The
// result is base with the row id appended. Media store bases are first moved
// to the row's volume; other authorities have no volume segment.
//
// ok is false when the path was never indexed or the provider failed.
func (b *Bridge) PathToLocator(ctx context.Context, path string, base locator.Locator) (locator.Locator, bool) {
	if base.IsZero() {
		base = mediastore.FilesLocator
	}

	res := b.engine.Execute(ctx, b.rowIdentity, base, path)
	if res == nil {
		return locator.Locator{}, false
	}

	id, err := strconv.ParseInt(res[0], 10, 64)
	if err != nil {
		b.logger.Warn("row identity returned a non-numeric id", "path", path, "id", res[0])
		return locator.Locator{}, false
	}
	if base.Authority() == locator.AuthorityMedia {
		base = base.WithVolume(res[1])
	}
	return base.WithAppendedID(id), true
}

// LocatorToPath returns a filesystem path for loc.
//
// When no path can be resolved, scoped storage is in effect and
// copyIfDisallowed is set, the resource is streamed into the app cache
// directory and the copy's path is returned. A failed copy may leave a
// partial file behind.
func (b *Bridge) LocatorToPath(ctx context.Context, loc locator.Locator, copyIfDisallowed bool) (string, bool) {
	p, err := b.resolvePath(ctx, loc)
	if err == nil && p != "" {
		return p, true
	}
	if err != nil {
		b.logFailure("locator has no direct path", loc, err)
	}

	if !copyIfDisallowed || loc.Scheme() != locator.SchemeContent {
		return "", false
	}
	sc, ok := b.caps.(platform.ScopedCapabilities)
	if !ok {
		return "", false
	}

	p, err = b.copyToCache(ctx, sc, loc)
	if err != nil {
		b.logFailure("copy to cache failed", loc, err)
		return "", false
	}
	b.logger.Debug("copied resource into cache", "locator", loc.String(), "path", p)
	return p, true
}

// MediaInfo returns media attributes for an indexed path.
func (b *Bridge) MediaInfo(ctx context.Context, path string) (query.MediaInfoRecord, bool) {
	return query.ParseMediaInfo(b.engine.Execute(ctx, query.MediaInfo{}, mediastore.FilesLocator, path))
}

// MediaInfoByLocator returns media attributes for the row loc addresses.
func (b *Bridge) MediaInfoByLocator(ctx context.Context, loc locator.Locator) (query.MediaInfoRecord, bool) {
	return query.ParseMediaInfo(b.engine.Execute(ctx, query.MediaInfoByLocator{}, loc, ""))
}

// DisplayName returns the provider-supplied display name of loc.
func (b *Bridge) DisplayName(ctx context.Context, loc locator.Locator) (string, bool) {
	res := b.engine.Execute(ctx, query.DisplayNameByLocator, loc, "")
	if res == nil {
		return "", false
	}
	return res[0], true
}

func (b *Bridge) resolvePath(ctx context.Context, loc locator.Locator) (string, error) {
	switch loc.Scheme() {
	case locator.SchemeFile:
		if p := loc.Path(); p != "" {
			return p, nil
		}
		return "", locator.NewError("locator-to-path", locator.ErrMalformed, "file locator has no path")

	case locator.SchemeContent:
		if !platform.HasDocumentLocators(b.caps) {
			if loc.Kind() == locator.KindGooglePhotos {
				return loc.LastSegment(), nil
			}
			return b.dataColumn(ctx, loc)
		}
		if loc.IsDocument() {
			return b.resolver.Resolve(ctx, loc)
		}
		return b.dataColumn(ctx, loc)

	case locator.SchemeUnknown:
		return "", locator.NewError("locator-to-path", locator.ErrMalformed, "unparsable locator: "+loc.String())

	default:
		return "", locator.NewError("locator-to-path", locator.ErrUnsupported, "scheme "+string(loc.Scheme()))
	}
}

func (b *Bridge) dataColumn(ctx context.Context, loc locator.Locator) (string, error) {
	res, err := b.engine.Query(ctx, query.DataByLocator, loc, "")
	if err != nil {
		return "", err
	}
	return res[0], nil
}

func (b *Bridge) logFailure(msg string, loc locator.Locator, err error) {
	kind := locator.Classify(err)
	if errors.Is(err, locator.ErrNoRow) {
		b.logger.Debug(msg, "locator", loc.String(), "kind", kind)
		return
	}
	b.logger.Warn(msg, "locator", loc.String(), "kind", kind, "error", err)
}
