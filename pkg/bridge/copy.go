package bridge

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
	"github.com/hashicorp-forge/medialoc/pkg/query"
)

// copyToCache streams loc into the cache directory under its display name, or
// a generated name when the provider has none.
func (b *Bridge) copyToCache(ctx context.Context, sc platform.ScopedCapabilities, loc locator.Locator) (string, error) {
	dir := sc.CacheDir()
	if dir == "" {
		return "", locator.NewError("copy", locator.ErrUnsupported, "cache directory is not configured")
	}

	name := b.copyName(ctx, loc)
	dst := filepath.Join(dir, name)

	src, err := b.provider.Open(ctx, loc)
	if err != nil {
		return "", locator.NewError("copy", locator.ErrProviderUnavailable, err.Error())
	}
	defer src.Close()

	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return "", locator.NewError("copy", locator.ErrPartialCopy, fmt.Sprintf("create %s: %v", dir, err))
	}
	f, err := b.fs.Create(dst)
	if err != nil {
		return "", locator.NewError("copy", locator.ErrPartialCopy, fmt.Sprintf("create %s: %v", dst, err))
	}

	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", locator.NewError("copy", locator.ErrPartialCopy,
			fmt.Sprintf("%s after %d bytes: %v", dst, n, err))
	}
	return dst, nil
}

func (b *Bridge) copyName(ctx context.Context, loc locator.Locator) string {
	if name, ok := b.DisplayName(ctx, loc); ok {
		if safe := sanitizeName(name); safe != "" {
			return safe
		}
	}

	name := b.nameFunc()
	if res := b.engine.Execute(ctx, query.MimeTypeByLocator, loc, ""); res != nil {
		if exts, err := mime.ExtensionsByType(res[0]); err == nil && len(exts) > 0 {
			name += exts[0]
		}
	}
	return name
}

// sanitizeName keeps only the final element of a provider-supplied name.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}

func randomName() string {
	return uuid.New().String()
}
