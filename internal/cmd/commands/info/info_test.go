package info

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/medialoc/internal/cmd/cmdtest"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore/sqlstore"
	"github.com/hashicorp-forge/medialoc/pkg/query"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	b, ui := cmdtest.Command()
	c := &Command{Command: b}
	code := c.Run(args)
	return code, ui.OutputWriter.String(), ui.ErrorWriter.String()
}

func TestRun_Formats(t *testing.T) {
	env := cmdtest.New(t, 33)
	p := env.WriteFile(t, "Pictures/wide.png", cmdtest.PNG(t, 5, 3))
	mf := env.Index(t, p, true)

	t.Run("text", func(t *testing.T) {
		code, out, stderr := run(t, "-config", env.ConfigPath, p)
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, out, fmt.Sprintf("ID:            %d", mf.ID))
		assert.Contains(t, out, "Dimensions:    5x3")
		assert.Contains(t, out, "MIME type:     image/png")
		assert.Contains(t, out, "Duration:      0s")
	})

	t.Run("kv", func(t *testing.T) {
		code, out, stderr := run(t, "-config", env.ConfigPath, "-format", "kv", p)
		require.Equal(t, 0, code, stderr)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, query.MediaInfoArity)
		assert.Equal(t, "date_added="+fmt.Sprint(mf.DateAdded), lines[0])
		assert.Contains(t, lines, "height=3")
		assert.Contains(t, lines, "mime_type=image/png")
		assert.Contains(t, lines, "width=5")
	})

	t.Run("yaml by locator", func(t *testing.T) {
		code, out, stderr := run(t, "-config", env.ConfigPath, "-format", "yaml", sqlstore.Locator(mf).String())
		require.Equal(t, 0, code, stderr)

		var rec query.MediaInfoRecord
		require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
		assert.Equal(t, mf.ID, rec.ID)
		assert.EqualValues(t, 5, rec.Width)
		assert.Equal(t, 1, rec.MediaType)
	})
}

func TestRun_Errors(t *testing.T) {
	env := cmdtest.New(t, 33)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no argument", []string{"-config", env.ConfigPath}, "exactly one path or locator"},
		{"bad format", []string{"-config", env.ConfigPath, "-format", "xml", "/a"}, `unsupported format "xml"`},
		{"unknown path", []string{"-config", env.ConfigPath, "/nowhere.png"}, "no media info for /nowhere.png"},
		{"unknown locator", []string{"-config", env.ConfigPath, "content://media/external/file/77"}, "no media info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}
