package classify

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/platform"
)

type Command struct {
	*base.Command

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Parse and classify resource locators"
}

func (c *Command) Help() string {
	return `Usage: medialoc classify [options] LOCATOR...

  Parses each locator and prints its scheme, authority, provider kind and
  whether the configured platform treats it as a document locator.
  Unparsable input is reported with scheme "unknown".` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("classify", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to medialoc config file",
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
		c.UI.Error("at least one locator is required")
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}
	caps := cfg.Capabilities()

	for _, arg := range f.Args() {
		c.UI.Output(describe(locator.Parse(arg), caps))
	}
	return 0
}

func describe(loc locator.Locator, caps platform.Capabilities) string {
	scheme := string(loc.Scheme())
	if scheme == "" {
		scheme = "unknown"
	}

	fields := []string{
		"locator=" + loc.String(),
		"scheme=" + scheme,
		"authority=" + loc.Authority(),
		"kind=" + loc.Kind().String(),
	}

	document := loc.IsDocument() && platform.HasDocumentLocators(caps)
	fields = append(fields, fmt.Sprintf("document=%t", document))
	if id, ok := loc.DocumentID(); ok && document {
		fields = append(fields, "document_id="+id)
	}
	return strings.Join(fields, " ")
}
