// Package platform models the platform eras that change how locators are
// decoded, and exposes one capability interface per era.
//
// Callers run Detect once at startup and pass the result down. Era-specific
// behavior is selected with type assertions on the returned value, never by
// comparing version numbers at call time:
//
//	caps := platform.Detect(cfg.Platform.SDKVersion, env)
//	if dc, ok := caps.(platform.DocumentCapabilities); ok {
//	    root := dc.PrimaryStorageRoot()
//	}
package platform

import "fmt"

// Platform versions that gate behavior.
const (
	SDKKitKat         = 19
	SDKQ              = 29
	SDKUpsideDownCake = 34
)

// Era is an ordinal gate derived from the platform version.
type Era int

const (
	EraPreKitKat Era = iota
	EraKitKat
	EraQ
	EraUpsideDownCake
)

// EraOf maps a platform version to its era.
func EraOf(sdk int) Era {
	switch {
	case sdk >= SDKUpsideDownCake:
		return EraUpsideDownCake
	case sdk >= SDKQ:
		return EraQ
	case sdk >= SDKKitKat:
		return EraKitKat
	default:
		return EraPreKitKat
	}
}

// AtLeast reports whether e is the same as or later than other.
func (e Era) AtLeast(other Era) bool {
	return e >= other
}

func (e Era) String() string {
	switch e {
	case EraPreKitKat:
		return "pre-kitkat"
	case EraKitKat:
		return "kitkat"
	case EraQ:
		return "q"
	case EraUpsideDownCake:
		return "upside-down-cake"
	default:
		return fmt.Sprintf("era(%d)", int(e))
	}
}

// Environment holds the storage roots the platform exposes to the process.
type Environment struct {
	// ExternalRoot is the shared external storage root, e.g. "/storage/emulated/0".
	ExternalRoot string

	// AppPicturesDir is the app-scoped pictures directory used instead of the
	// shared root once scoped storage is enforced.
	AppPicturesDir string

	// CacheDir is the app-private cache directory.
	CacheDir string
}

// Capabilities is implemented by every era.
type Capabilities interface {
	Era() Era
	SDKVersion() int
}

// DocumentCapabilities is implemented from KitKat on, when document-provider
// locators exist.
type DocumentCapabilities interface {
	Capabilities

	// PrimaryStorageRoot is the directory a "primary" external storage
	// document id is relative to.
	PrimaryStorageRoot() string
}

// ScopedCapabilities is implemented from Q on. Direct path access is
// restricted, the metadata store carries a volume name column, and resources
// may be copied into the app cache.
type ScopedCapabilities interface {
	DocumentCapabilities

	CacheDir() string
}

// Detect selects the capability set for a platform version.
func Detect(sdk int, env Environment) Capabilities {
	era := EraOf(sdk)
	switch {
	case era.AtLeast(EraQ):
		return &scopedCaps{documentCaps{legacyCaps{sdk: sdk, era: era}, env}}
	case era.AtLeast(EraKitKat):
		return &documentCaps{legacyCaps{sdk: sdk, era: era}, env}
	default:
		return &legacyCaps{sdk: sdk, era: era}
	}
}

// HasDocumentLocators reports whether document-provider decoding applies.
func HasDocumentLocators(c Capabilities) bool {
	_, ok := c.(DocumentCapabilities)
	return ok
}

// HasScopedStorage reports whether scoped storage restrictions apply.
func HasScopedStorage(c Capabilities) bool {
	_, ok := c.(ScopedCapabilities)
	return ok
}

type legacyCaps struct {
	sdk int
	era Era
}

func (c *legacyCaps) Era() Era        { return c.era }
func (c *legacyCaps) SDKVersion() int { return c.sdk }

type documentCaps struct {
	legacyCaps
	env Environment
}

func (c *documentCaps) PrimaryStorageRoot() string { return c.env.ExternalRoot }

type scopedCaps struct {
	documentCaps
}

// Scoped storage forces app-private storage for primary document ids.
func (c *scopedCaps) PrimaryStorageRoot() string { return c.env.AppPicturesDir }
func (c *scopedCaps) CacheDir() string           { return c.env.CacheDir }
