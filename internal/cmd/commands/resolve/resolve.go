package resolve

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/pkg/locator"
)

type Command struct {
	*base.Command

	flagConfig string
	flagCopy   bool
}

func (c *Command) Synopsis() string {
	return "Resolve a locator to a filesystem path"
}

func (c *Command) Help() string {
	return `Usage: medialoc resolve [options] LOCATOR

  Resolves a file, content or document locator to an absolute path. With
  -copy on a scoped-storage platform, a resource without a usable path is
  copied into the cache directory and the copy's path is printed.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("resolve", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to medialoc config file",
	)
	f.BoolVar(
		&c.flagCopy, "copy", false,
		"Copy the resource into the cache directory when no path is available.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one locator is required")
		return 1
	}

	rt, err := c.OpenRuntime(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer rt.Close()

	loc := locator.Parse(f.Arg(0))
	p, ok := rt.Bridge.LocatorToPath(context.Background(), loc, c.flagCopy)
	if !ok {
		c.UI.Error(fmt.Sprintf("no path for %s", f.Arg(0)))
		return 1
	}
	c.UI.Output(p)
	return 0
}
