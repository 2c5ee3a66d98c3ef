package locate

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore"
)

type Command struct {
	*base.Command

	flagConfig string
	flagBase   string
}

func (c *Command) Synopsis() string {
	return "Print the content locator of an indexed file"
}

func (c *Command) Help() string {
	return `Usage: medialoc locate [options] PATH

  Looks up an indexed absolute path in the metadata store and prints the
  content locator addressing its row.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("locate", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to medialoc config file",
	)
	f.StringVar(
		&c.flagBase, "base", mediastore.FilesLocator.String(),
		"Table locator the row id is appended to",
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
		c.UI.Error("exactly one path is required")
		return 1
	}

	base := locator.Parse(c.flagBase)
	if !base.Valid() || base.Scheme() != locator.SchemeContent {
		c.UI.Error(fmt.Sprintf("invalid base locator %q", c.flagBase))
		return 1
	}

	rt, err := c.OpenRuntime(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer rt.Close()

	loc, ok := rt.Bridge.PathToLocator(context.Background(), f.Arg(0), base)
	if !ok {
		c.UI.Error(fmt.Sprintf("no locator for %s", f.Arg(0)))
		return 1
	}
	c.UI.Output(loc.String())
	return 0
}
