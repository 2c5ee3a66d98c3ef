package locator

import (
	"net/url"
	"strconv"
	"strings"
)

// Scheme is the addressing scheme of a locator.
type Scheme string

const (
	// SchemeUnknown marks input that did not parse as a supported locator.
	SchemeUnknown Scheme = ""

	// SchemeFile addresses a filesystem path directly.
	SchemeFile Scheme = "file"

	// SchemeContent addresses a row or document owned by a provider.
	SchemeContent Scheme = "content"

	// SchemeResource addresses a packaged platform resource.
	SchemeResource Scheme = "android.resource"
)

// Locator is an immutable, parsed resource locator. Paths are held in one
// canonical escaped form, so two locators are equal when their scheme,
// authority and decoded segments are equal, and Locator values may be
// compared with ==.
type Locator struct {
	scheme    Scheme
	authority string
	path      string // canonical escaped form; for SchemeUnknown holds the raw input
}

// Parse parses s into a Locator. It never fails: empty or unparsable input,
// unsupported schemes and content locators without an authority all yield a
// Locator with SchemeUnknown.
func Parse(s string) Locator {
	if s == "" {
		return Locator{}
	}

	u, err := url.Parse(s)
	if err != nil || u.Opaque != "" {
		return Locator{path: s}
	}

	scheme := Scheme(strings.ToLower(u.Scheme))
	switch scheme {
	case SchemeFile:
	case SchemeContent, SchemeResource:
		if u.Host == "" {
			return Locator{path: s}
		}
	default:
		return Locator{path: s}
	}

	segments, ok := decodeSegments(u.EscapedPath())
	if !ok {
		return Locator{path: s}
	}
	return New(scheme, u.Host, segments...)
}

// FromPath builds a file locator for an absolute path.
func FromPath(p string) Locator {
	if p == "" {
		return Locator{}
	}
	return New(SchemeFile, "", strings.Split(p, "/")...)
}

// New builds a locator from decoded path segments. Empty segments are
// dropped and every segment is escaped the same way, so a locator built here
// equals the one Parse returns for its String form.
func New(scheme Scheme, authority string, segments ...string) Locator {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(escapeSegment(s))
	}
	return Locator{
		scheme:    scheme,
		authority: authority,
		path:      b.String(),
	}
}

// decodeSegments splits an escaped path and unescapes each segment.
func decodeSegments(escaped string) ([]string, bool) {
	var segments []string
	for _, raw := range strings.Split(escaped, "/") {
		if raw == "" {
			continue
		}
		seg, err := url.PathUnescape(raw)
		if err != nil {
			return nil, false
		}
		segments = append(segments, seg)
	}
	return segments, true
}

const upperHex = "0123456789ABCDEF"

// escapeSegment percent-encodes every byte outside the RFC 3986 unreserved
// set.
func escapeSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// Scheme returns the locator scheme.
func (l Locator) Scheme() Scheme {
	return l.scheme
}

// Authority returns the provider namespace; empty for file locators.
func (l Locator) Authority() string {
	return l.authority
}

// Kind classifies the locator's authority.
func (l Locator) Kind() ProviderKind {
	if l.scheme == SchemeUnknown {
		return KindUnclassified
	}
	return KindOf(l.authority)
}

// Path returns the decoded path.
func (l Locator) Path() string {
	if l.scheme == SchemeUnknown {
		return ""
	}
	p, err := url.PathUnescape(l.path)
	if err != nil {
		return l.path
	}
	return p
}

// Segments returns the decoded, non-empty path segments. Escaped slashes stay
// inside their segment.
func (l Locator) Segments() []string {
	if l.scheme == SchemeUnknown {
		return nil
	}

	var segments []string
	for _, raw := range strings.Split(l.path, "/") {
		if raw == "" {
			continue
		}
		seg, err := url.PathUnescape(raw)
		if err != nil {
			seg = raw
		}
		segments = append(segments, seg)
	}
	return segments
}

// LastSegment returns the final decoded path segment, or "".
func (l Locator) LastSegment() string {
	segments := l.Segments()
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// DocumentID extracts the opaque document id from "/document/{id}" or
// "/tree/{treeId}/document/{id}" paths.
func (l Locator) DocumentID() (string, bool) {
	segments := l.Segments()
	switch {
	case len(segments) >= 2 && segments[0] == "document":
		return segments[1], true
	case len(segments) >= 4 && segments[0] == "tree" && segments[2] == "document":
		return segments[3], true
	default:
		return "", false
	}
}

// IsDocument reports whether this is a content locator issued by one of the
// document providers.
func (l Locator) IsDocument() bool {
	if l.scheme != SchemeContent || !l.Kind().IsDocumentProvider() {
		return false
	}
	_, ok := l.DocumentID()
	return ok
}

// WithAppendedID returns a copy with id appended as a final segment.
func (l Locator) WithAppendedID(id int64) Locator {
	return l.WithAppendedSegment(strconv.FormatInt(id, 10))
}

// WithAppendedSegment returns a copy with seg appended as a final segment.
func (l Locator) WithAppendedSegment(seg string) Locator {
	segments := append(l.Segments(), seg)
	return New(l.scheme, l.authority, segments...)
}

// WithVolume returns a copy whose first segment (the storage volume for
// metadata store locators) is replaced by volume.
func (l Locator) WithVolume(volume string) Locator {
	segments := l.Segments()
	if len(segments) == 0 || volume == "" {
		return l
	}
	segments[0] = volume
	return New(l.scheme, l.authority, segments...)
}

// IsZero returns true for the zero Locator.
func (l Locator) IsZero() bool {
	return l == Locator{}
}

// Valid returns true if the locator parsed into a supported scheme.
func (l Locator) Valid() bool {
	return l.scheme != SchemeUnknown
}

// Equal returns true if two locators are structurally equal.
func (l Locator) Equal(other Locator) bool {
	return l == other
}

// String returns the canonical "scheme://authority/path" form. Unknown
// locators return the original input.
func (l Locator) String() string {
	if l.scheme == SchemeUnknown {
		return l.path
	}
	return string(l.scheme) + "://" + l.authority + l.path
}
