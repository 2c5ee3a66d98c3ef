package query

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore/fake"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
)

const picturePath = "/storage/emulated/0/Pictures/a.jpg"

func seededProvider() *fake.Provider {
	p := fake.New()
	p.AddRow(mediastore.FilesLocator, mediastore.Row{
		mediastore.ColumnID:           "42",
		mediastore.ColumnData:         picturePath,
		mediastore.ColumnVolumeName:   "external_primary",
		mediastore.ColumnWidth:        "1920",
		mediastore.ColumnHeight:       "1080",
		mediastore.ColumnMimeType:     "image/jpeg",
		mediastore.ColumnMediaType:    "1",
		mediastore.ColumnDateAdded:    "1700000000",
		mediastore.ColumnDateModified: "1700000100",
		mediastore.ColumnDuration:     "0",
	})
	return p
}

func newTestEngine(p mediastore.Provider) *Engine {
	return NewEngine(p, hclog.NewNullLogger())
}

func TestEngine_MediaInfo(t *testing.T) {
	p := seededProvider()
	e := newTestEngine(p)

	res := e.Execute(context.Background(), MediaInfo{}, mediastore.FilesLocator, picturePath)
	require.NotNil(t, res)
	assert.Equal(t, Result{"42", "1920", "1080", "image/jpeg", "1", "1700000000", "1700000100", "0"}, res)
	assert.Equal(t, 1, p.Queries())
	assert.Equal(t, 0, p.OpenCursors())
}

func TestEngine_GuardedExecution(t *testing.T) {
	p := seededProvider()
	e := newTestEngine(p)

	for _, s := range []Strategy{MediaInfo{}, NewRowIdentity(platform.Detect(33, platform.Environment{})), DataByID} {
		res := e.Execute(context.Background(), s, mediastore.FilesLocator, "")
		assert.Nil(t, res)
	}
	assert.Equal(t, 0, p.Queries(), "empty key must not reach the provider")

	_, err := e.Query(context.Background(), MediaInfo{}, mediastore.FilesLocator, "")
	assert.ErrorIs(t, err, locator.ErrMalformed)
}

func TestEngine_UnkeyedStrategyRunsWithoutKey(t *testing.T) {
	p := seededProvider()
	e := newTestEngine(p)

	res := e.Execute(context.Background(), MediaInfoByLocator{}, mediastore.FilesLocator.WithAppendedID(42), "")
	require.Len(t, res, MediaInfoArity)
	assert.Equal(t, "42", res[0])
}

func TestEngine_NoRow(t *testing.T) {
	p := seededProvider()
	e := newTestEngine(p)

	res, err := e.Query(context.Background(), MediaInfo{}, mediastore.FilesLocator, "/missing.jpg")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, locator.ErrNoRow)
	assert.Equal(t, 0, p.OpenCursors())
}

func TestEngine_ProviderFailure(t *testing.T) {
	p := seededProvider()
	p.QueryErr = errors.New("permission denied")
	e := newTestEngine(p)

	res, err := e.Query(context.Background(), MediaInfo{}, mediastore.FilesLocator, picturePath)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, locator.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "permission denied")

	assert.Nil(t, e.Execute(context.Background(), MediaInfo{}, mediastore.FilesLocator, picturePath))
}

func TestEngine_ClosesCursorOnEveryPath(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *fake.Provider)
		key   string
	}{
		{"success", func(*fake.Provider) {}, picturePath},
		{"empty result", func(*fake.Provider) {}, "/nope.jpg"},
		{"row error", func(p *fake.Provider) { p.RowErr = errors.New("cursor window full") }, picturePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := seededProvider()
			tt.setup(p)
			e := newTestEngine(p)

			e.Execute(context.Background(), MediaInfo{}, mediastore.FilesLocator, tt.key)
			assert.Equal(t, 1, p.Queries())
			assert.Equal(t, 0, p.OpenCursors())
		})
	}
}

type panicStrategy struct{ MediaInfo }

func (panicStrategy) Extract(locator.Locator, string, mediastore.Row) (Result, error) {
	panic("extract exploded")
}

func TestEngine_RecoversFromPanicAndClosesCursor(t *testing.T) {
	p := seededProvider()
	e := newTestEngine(p)

	res, err := e.Query(context.Background(), panicStrategy{}, mediastore.FilesLocator, picturePath)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, locator.ErrProviderUnavailable)
	assert.Equal(t, 0, p.OpenCursors())
}

func TestEngine_FirstRowWins(t *testing.T) {
	p := fake.New()
	p.AddRow(mediastore.FilesLocator, mediastore.Row{mediastore.ColumnID: "7", mediastore.ColumnData: picturePath})
	p.AddRow(mediastore.FilesLocator, mediastore.Row{mediastore.ColumnID: "8", mediastore.ColumnData: picturePath})
	e := newTestEngine(p)

	for i := 0; i < 3; i++ {
		res := e.Execute(context.Background(), NewRowIdentity(platform.Detect(28, platform.Environment{})), mediastore.FilesLocator, picturePath)
		require.NotNil(t, res)
		assert.Equal(t, "7", res[0])
	}
}
