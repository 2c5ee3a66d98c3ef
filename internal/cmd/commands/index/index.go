package index

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/pkg/mediastore/sqlstore"
	"github.com/hashicorp-forge/medialoc/pkg/models"
)

type Command struct {
	*base.Command

	flagConfig string
	flagOpaque bool
	flagName   string
}

func (c *Command) Synopsis() string {
	return "Add files to the metadata store"
}

func (c *Command) Help() string {
	return `Usage: medialoc index [options] PATH...

  Records each absolute path in the metadata store and prints the locator of
  its row. Re-indexing a path updates its existing row.

  With -opaque the rows withhold their paths, the way scoped storage hides
  files owned by other apps. Such rows resolve only through the copy
  fallback of "medialoc resolve -copy".` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("index", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to medialoc config file",
	)
	f.BoolVar(
		&c.flagOpaque, "opaque", false,
		"Withhold the indexed paths from queries.",
	)
	f.StringVar(
		&c.flagName, "name", "",
		"Display name for opaque rows. Defaults to none.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() == 0 {
		c.UI.Error("at least one path is required")
		return 1
	}
	if c.flagName != "" && !c.flagOpaque {
		c.UI.Error("-name is only valid with -opaque")
		return 1
	}

	rt, err := c.OpenRuntime(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer rt.Close()

	ctx := context.Background()
	failed := 0
	for _, p := range f.Args() {
		var (
			mf  *models.MediaFile
			err error
		)
		if c.flagOpaque {
			mf, err = rt.Store.InsertOpaque(ctx, p, c.flagName)
		} else {
			mf, err = rt.Store.Index(ctx, p)
		}
		if err != nil {
			c.UI.Error(fmt.Sprintf("error indexing %s: %v", p, err))
			failed++
			continue
		}
		c.UI.Output(fmt.Sprintf("%s %s", sqlstore.Locator(mf), p))
	}

	if failed > 0 {
		return 1
	}
	return 0
}
