// Package mediastore defines the boundary to the metadata-query provider: the
// service that answers structured queries over indexed file metadata and
// streams the bytes behind a locator.
//
// Two implementations live in subpackages: sqlstore (gorm-backed) and fake
// (in-memory, for tests).
package mediastore

import (
	"context"
	"io"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
)

// Provider is the metadata-query provider. Calls block until the provider
// answers or fails.
type Provider interface {
	// Query runs spec against the table addressed by loc. A locator that ends
	// in a row id addresses that single row. The returned cursor must be
	// closed by the caller.
	Query(ctx context.Context, loc locator.Locator, spec QuerySpec) (Cursor, error)

	// Open streams the bytes of the resource addressed by loc.
	Open(ctx context.Context, loc locator.Locator) (io.ReadCloser, error)
}

// QuerySpec describes a single query.
type QuerySpec struct {
	Projection    []string
	Selection     string // "col = ?" terms joined by " AND "
	SelectionArgs []string
	SortOrder     string
}

// Cursor iterates over query results. It starts before the first row.
type Cursor interface {
	Next() bool
	Row() (Row, error)
	Err() error
	Close() error
}

// Row is one result row keyed by column name. NULL columns are absent.
type Row map[string]string

// Get returns a column value and whether it was present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Project returns a copy of r holding only the projected columns. An empty
// projection keeps every column.
func (r Row) Project(projection []string) Row {
	if len(projection) == 0 {
		out := make(Row, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	out := make(Row, len(projection))
	for _, col := range projection {
		if v, ok := r[col]; ok {
			out[col] = v
		}
	}
	return out
}
