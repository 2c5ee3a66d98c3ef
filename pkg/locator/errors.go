package locator

import "errors"

// Sentinel errors shared by the resolution layers. Callers compare with
// errors.Is; the public bridge collapses all of them into a "not resolvable"
// result.
var (
	// ErrMalformed means the locator or path could not be parsed.
	ErrMalformed = errors.New("malformed locator")

	// ErrProviderUnavailable means the metadata provider refused or failed the query.
	ErrProviderUnavailable = errors.New("metadata provider unavailable")

	// ErrNoRow means a well-formed query matched nothing.
	ErrNoRow = errors.New("no matching row")

	// ErrPartialCopy means the copy-on-read stream was interrupted.
	ErrPartialCopy = errors.New("partial copy")

	// ErrUnsupported means no decoding branch applies to the locator.
	ErrUnsupported = errors.New("unsupported locator")
)

// Error carries the failing operation alongside a sentinel.
type Error struct {
	Op  string
	Err error
	Msg string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error.
func NewError(op string, err error, msg string) *Error {
	return &Error{Op: op, Err: err, Msg: msg}
}

// Classify returns the sentinel an error wraps, or the error itself when it
// wraps none. Used as a log field.
func Classify(err error) string {
	for _, s := range []error{ErrMalformed, ErrProviderUnavailable, ErrNoRow, ErrPartialCopy, ErrUnsupported} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if err == nil {
		return ""
	}
	return "unknown"
}
