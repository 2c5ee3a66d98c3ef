// Package fake provides an in-memory metadata-query provider for tests.
package fake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
)

// Compile-time check that Provider implements mediastore.Provider
var _ mediastore.Provider = (*Provider)(nil)

// ErrStreamInterrupted is returned by readers cut short with FailStreamAfter.
var ErrStreamInterrupted = errors.New("fake: stream interrupted")

// Provider is an in-memory mediastore.Provider. It counts queries and tracks
// cursors that were never closed so tests can assert on both.
type Provider struct {
	mu sync.Mutex

	// Tables stores rows in provider order, keyed by base locator string.
	Tables map[string][]mediastore.Row

	// Streams stores resource bytes keyed by locator string.
	Streams map[string][]byte

	// QueryErr, when set, fails every Query.
	QueryErr error

	// RowErr, when set, fails every Cursor.Row.
	RowErr error

	// FailStreamAfter, when positive, makes readers return
	// ErrStreamInterrupted after that many bytes.
	FailStreamAfter int

	queries int
	cursors []*cursor
}

// New creates an empty fake provider.
func New() *Provider {
	return &Provider{
		Tables:  make(map[string][]mediastore.Row),
		Streams: make(map[string][]byte),
	}
}

// AddRow appends row to the table addressed by base.
func (p *Provider) AddRow(base locator.Locator, row mediastore.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := base.String()
	p.Tables[key] = append(p.Tables[key], row)
}

// SetStream registers the bytes served for loc.
func (p *Provider) SetStream(loc locator.Locator, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Streams[loc.String()] = data
}

// Queries returns the number of Query calls received.
func (p *Provider) Queries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries
}

// OpenCursors returns the number of cursors handed out and not yet closed.
func (p *Provider) OpenCursors() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.cursors {
		if !c.closed {
			n++
		}
	}
	return n
}

// Query implements mediastore.Provider.
func (p *Provider) Query(ctx context.Context, loc locator.Locator, spec mediastore.QuerySpec) (mediastore.Cursor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queries++
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := p.table(loc)
	if err != nil {
		return nil, err
	}

	columns, err := mediastore.ParseSelection(spec.Selection)
	if err != nil {
		return nil, err
	}
	if len(columns) != len(spec.SelectionArgs) {
		return nil, fmt.Errorf("fake: selection has %d placeholders but %d args", len(columns), len(spec.SelectionArgs))
	}

	var matched []mediastore.Row
	for _, row := range rows {
		if matches(row, columns, spec.SelectionArgs) {
			matched = append(matched, row.Project(spec.Projection))
		}
	}
	sortRows(matched, spec.SortOrder)

	c := &cursor{provider: p, rows: matched, pos: -1, rowErr: p.RowErr}
	p.cursors = append(p.cursors, c)
	return c, nil
}

// Open implements mediastore.Provider.
func (p *Provider) Open(ctx context.Context, loc locator.Locator) (io.ReadCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, ok := p.Streams[loc.String()]
	if !ok {
		return nil, fmt.Errorf("fake: no stream for %s", loc)
	}
	if p.FailStreamAfter > 0 && p.FailStreamAfter < len(data) {
		return io.NopCloser(io.MultiReader(
			bytes.NewReader(data[:p.FailStreamAfter]),
			errReader{ErrStreamInterrupted},
		)), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// table finds the rows addressed by loc. A trailing numeric segment selects a
// single row of the parent table.
func (p *Provider) table(loc locator.Locator) ([]mediastore.Row, error) {
	if rows, ok := p.Tables[loc.String()]; ok {
		return rows, nil
	}

	segments := loc.Segments()
	if len(segments) > 0 {
		last := segments[len(segments)-1]
		if _, err := strconv.ParseInt(last, 10, 64); err == nil {
			parent := locator.New(loc.Scheme(), loc.Authority(), segments[:len(segments)-1]...)
			if rows, ok := p.Tables[parent.String()]; ok {
				var out []mediastore.Row
				for _, row := range rows {
					if row[mediastore.ColumnID] == last {
						out = append(out, row)
					}
				}
				return out, nil
			}
		}
	}

	return nil, fmt.Errorf("fake: unknown locator %s", loc)
}

func matches(row mediastore.Row, columns, args []string) bool {
	for i, col := range columns {
		if v, ok := row[col]; !ok || v != args[i] {
			return false
		}
	}
	return true
}

func sortRows(rows []mediastore.Row, order string) {
	fields := strings.Fields(order)
	if len(fields) == 0 {
		return
	}
	col := fields[0]
	desc := len(fields) > 1 && strings.EqualFold(fields[1], "DESC")
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return rows[i][col] > rows[j][col]
		}
		return rows[i][col] < rows[j][col]
	})
}

type cursor struct {
	provider *Provider
	rows     []mediastore.Row
	pos      int
	rowErr   error
	closed   bool
}

func (c *cursor) Next() bool {
	if c.closed || c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) Row() (mediastore.Row, error) {
	if c.rowErr != nil {
		return nil, c.rowErr
	}
	if c.closed || c.pos < 0 || c.pos >= len(c.rows) {
		return nil, errors.New("fake: cursor not positioned on a row")
	}
	return c.rows[c.pos], nil
}

func (c *cursor) Err() error {
	return nil
}

func (c *cursor) Close() error {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	c.closed = true
	return nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
