// Package query runs strategies against the metadata-query provider.
//
// A Strategy describes one kind of lookup: the QuerySpec to issue for a
// (locator, key) pair and how to turn the first result row into a fixed-arity
// Result. Strategies are stateless and safe to share across goroutines.
//
// The Engine owns the cursor lifecycle: cursors are closed on every exit path
// and only the first row is ever read.
package query

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
)

// Result is the ordered, fixed-arity output of a strategy. A nil Result means
// the lookup failed or matched nothing.
type Result []string

// Strategy produces a query and extracts a Result from its first row.
type Strategy interface {
	// Spec builds the query for loc keyed by key.
	Spec(loc locator.Locator, key string) mediastore.QuerySpec

	// Keyed reports whether Spec needs a non-empty key for its selection.
	Keyed() bool

	// Extract converts the first result row.
	Extract(loc locator.Locator, key string, row mediastore.Row) (Result, error)
}

// Engine executes strategies against a provider.
type Engine struct {
	provider mediastore.Provider
	logger   hclog.Logger
}

// NewEngine creates an engine over provider.
func NewEngine(provider mediastore.Provider, logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{
		provider: provider,
		logger:   logger.Named("engine"),
	}
}

// Execute runs s and returns its Result, or nil on any failure. Failures are
// logged and never returned.
func (e *Engine) Execute(ctx context.Context, s Strategy, loc locator.Locator, key string) Result {
	res, err := e.Query(ctx, s, loc, key)
	if err != nil {
		e.logFailure(err, loc, key)
		return nil
	}
	return res
}

// Query runs s and returns its Result or a *locator.Error wrapping one of the
// locator sentinels.
func (e *Engine) Query(ctx context.Context, s Strategy, loc locator.Locator, key string) (res Result, err error) {
	if s.Keyed() && key == "" {
		return nil, locator.NewError("query", locator.ErrMalformed, "empty selection key")
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = locator.NewError("query", locator.ErrProviderUnavailable, fmt.Sprintf("panic: %v", r))
		}
	}()

	spec := s.Spec(loc, key)
	cur, err := e.provider.Query(ctx, loc, spec)
	if err != nil {
		return nil, locator.NewError("query", locator.ErrProviderUnavailable, err.Error())
	}
	if cur == nil {
		return nil, locator.NewError("query", locator.ErrProviderUnavailable, "provider returned no cursor")
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil {
			e.logger.Warn("failed to close cursor", "locator", loc.String(), "error", cerr)
		}
	}()

	if !cur.Next() {
		if cerr := cur.Err(); cerr != nil {
			return nil, locator.NewError("query", locator.ErrProviderUnavailable, cerr.Error())
		}
		return nil, locator.NewError("query", locator.ErrNoRow, "")
	}

	row, err := cur.Row()
	if err != nil {
		return nil, locator.NewError("query", locator.ErrProviderUnavailable, err.Error())
	}

	return s.Extract(loc, key, row)
}

func (e *Engine) logFailure(err error, loc locator.Locator, key string) {
	kind := locator.Classify(err)
	if kind == locator.ErrNoRow.Error() {
		e.logger.Debug("query matched no row", "locator", loc.String(), "key", key)
		return
	}
	e.logger.Warn("query failed",
		"locator", loc.String(),
		"key", key,
		"kind", kind,
		"error", err,
	)
}
