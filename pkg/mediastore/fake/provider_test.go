package fake

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
)

func seeded() *Provider {
	p := New()
	p.AddRow(mediastore.FilesLocator, mediastore.Row{"_id": "2", "_data": "/b", "width": "20"})
	p.AddRow(mediastore.FilesLocator, mediastore.Row{"_id": "1", "_data": "/a", "width": "10"})
	return p
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("selection and projection", func(t *testing.T) {
		p := seeded()
		cur, err := p.Query(ctx, mediastore.FilesLocator, mediastore.QuerySpec{
			Projection:    []string{"_id"},
			Selection:     "_data = ?",
			SelectionArgs: []string{"/a"},
		})
		require.NoError(t, err)
		require.True(t, cur.Next())
		row, err := cur.Row()
		require.NoError(t, err)
		assert.Equal(t, mediastore.Row{"_id": "1"}, row)
		assert.False(t, cur.Next())

		assert.Equal(t, 1, p.OpenCursors())
		require.NoError(t, cur.Close())
		assert.Equal(t, 0, p.OpenCursors())
		assert.Equal(t, 1, p.Queries())
	})

	t.Run("row by trailing id", func(t *testing.T) {
		p := seeded()
		cur, err := p.Query(ctx, mediastore.FilesLocator.WithAppendedID(2), mediastore.QuerySpec{})
		require.NoError(t, err)
		defer cur.Close()
		require.True(t, cur.Next())
		row, err := cur.Row()
		require.NoError(t, err)
		assert.Equal(t, "/b", row["_data"])
	})

	t.Run("sort order", func(t *testing.T) {
		p := seeded()
		cur, err := p.Query(ctx, mediastore.FilesLocator, mediastore.QuerySpec{SortOrder: "width DESC"})
		require.NoError(t, err)
		defer cur.Close()
		require.True(t, cur.Next())
		row, _ := cur.Row()
		assert.Equal(t, "20", row["width"])
	})

	t.Run("failures", func(t *testing.T) {
		p := seeded()
		_, err := p.Query(ctx, mediastore.ImagesLocator, mediastore.QuerySpec{})
		assert.Error(t, err, "unknown table")

		_, err = p.Query(ctx, mediastore.FilesLocator, mediastore.QuerySpec{Selection: "_data = ?"})
		assert.Error(t, err, "missing arg")

		p.QueryErr = assert.AnError
		_, err = p.Query(ctx, mediastore.FilesLocator, mediastore.QuerySpec{})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 3, p.Queries())
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	p := New()
	loc := mediastore.FilesLocator.WithAppendedID(1)
	p.SetStream(loc, []byte("0123456789"))

	rc, err := p.Open(ctx, loc)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	p.FailStreamAfter = 3
	rc, err = p.Open(ctx, loc)
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	assert.ErrorIs(t, err, ErrStreamInterrupted)
	assert.Equal(t, "012", string(data))

	_, err = p.Open(ctx, mediastore.FilesLocator.WithAppendedID(2))
	assert.Error(t, err)
}
