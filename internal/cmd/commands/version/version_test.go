package version

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/medialoc/internal/cmd/cmdtest"
	"github.com/hashicorp-forge/medialoc/internal/version"
)

func TestRun(t *testing.T) {
	b, ui := cmdtest.Command()
	c := &Command{Command: b}

	assert.Equal(t, 0, c.Run(nil))
	assert.Equal(t, "medialoc "+version.Version+"\n", ui.OutputWriter.String())
}
