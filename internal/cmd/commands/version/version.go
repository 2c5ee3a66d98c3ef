package version

import (
	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the medialoc version"
}

func (c *Command) Help() string {
	return `Usage: medialoc version`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("medialoc " + version.Version)
	return 0
}
