package index

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/medialoc/internal/cmd/cmdtest"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	b, ui := cmdtest.Command()
	c := &Command{Command: b}
	code := c.Run(args)
	return code, ui.OutputWriter.String(), ui.ErrorWriter.String()
}

func TestRun(t *testing.T) {
	env := cmdtest.New(t, 33)
	a := env.WriteFile(t, "Pictures/a.png", cmdtest.PNG(t, 1, 1))
	b := env.WriteFile(t, "Music/b.mp3", []byte("ID3"))

	code, out, stderr := run(t, "-config", env.ConfigPath, a, b)
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, fmt.Sprintf("content://media/external/file/1 %s", a), lines[0])
	assert.Equal(t, fmt.Sprintf("content://media/external/file/2 %s", b), lines[1])

	t.Run("reindex keeps row", func(t *testing.T) {
		code, out, stderr := run(t, "-config", env.ConfigPath, a)
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, fmt.Sprintf("content://media/external/file/1 %s", a), strings.TrimSpace(out))
	})
}

func TestRun_Opaque(t *testing.T) {
	env := cmdtest.New(t, 33)
	p := env.WriteFile(t, "Android/data/other.app/files/x.png", cmdtest.PNG(t, 1, 1))

	code, out, stderr := run(t, "-config", env.ConfigPath, "-opaque", "-name", "x.png", p)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "content://media/external/file/1")
}

func TestRun_Errors(t *testing.T) {
	env := cmdtest.New(t, 33)
	good := env.WriteFile(t, "Pictures/ok.png", cmdtest.PNG(t, 1, 1))

	t.Run("no paths", func(t *testing.T) {
		code, _, stderr := run(t, "-config", env.ConfigPath)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "at least one path")
	})

	t.Run("name without opaque", func(t *testing.T) {
		code, _, stderr := run(t, "-config", env.ConfigPath, "-name", "x", good)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "-name is only valid with -opaque")
	})

	t.Run("partial failure", func(t *testing.T) {
		code, out, stderr := run(t, "-config", env.ConfigPath, "/missing/file.png", good)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "error indexing /missing/file.png")
		assert.Contains(t, out, good)
	})
}
