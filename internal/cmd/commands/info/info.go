package info

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/pkg/locator"
	"github.com/hashicorp-forge/medialoc/pkg/query"
)

const (
	formatText = "text"
	formatKV   = "kv"
	formatYAML = "yaml"
)

type Command struct {
	*base.Command

	flagConfig string
	flagFormat string
}

func (c *Command) Synopsis() string {
	return "Print media attributes of an indexed file"
}

func (c *Command) Help() string {
	return `Usage: medialoc info [options] PATH|LOCATOR

  Prints the row id, dimensions, mime type, media type, timestamps and
  duration the metadata store holds for a path or content locator.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("info", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to medialoc config file",
	)
	f.StringVar(
		&c.flagFormat, "format", formatText,
		"Output format: text, kv or yaml",
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
		c.UI.Error("exactly one path or locator is required")
		return 1
	}
	switch c.flagFormat {
	case formatText, formatKV, formatYAML:
	default:
		c.UI.Error(fmt.Sprintf("unsupported format %q", c.flagFormat))
		return 1
	}

	rt, err := c.OpenRuntime(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer rt.Close()

	ctx := context.Background()
	arg := f.Arg(0)

	var (
		rec query.MediaInfoRecord
		ok  bool
	)
	if loc := locator.Parse(arg); loc.Scheme() == locator.SchemeContent {
		rec, ok = rt.Bridge.MediaInfoByLocator(ctx, loc)
	} else {
		rec, ok = rt.Bridge.MediaInfo(ctx, arg)
	}
	if !ok {
		c.UI.Error(fmt.Sprintf("no media info for %s", arg))
		return 1
	}

	out, err := render(rec, c.flagFormat)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error rendering media info: %v", err))
		return 1
	}
	c.UI.Output(out)
	return 0
}

func render(rec query.MediaInfoRecord, format string) (string, error) {
	switch format {
	case formatYAML:
		b, err := yaml.Marshal(rec)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(b), "\n"), nil

	case formatKV:
		fields := map[string]interface{}{}
		if err := mapstructure.Decode(rec, &fields); err != nil {
			return "", err
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		return strings.Join(lines, "\n"), nil

	default:
		lines := []string{
			fmt.Sprintf("ID:            %d", rec.ID),
			fmt.Sprintf("Dimensions:    %dx%d", rec.Width, rec.Height),
			fmt.Sprintf("MIME type:     %s", rec.MimeType),
			fmt.Sprintf("Media type:    %d", rec.MediaType),
			fmt.Sprintf("Added:         %s", formatTime(rec, true)),
			fmt.Sprintf("Modified:      %s", formatTime(rec, false)),
			fmt.Sprintf("Duration:      %s", rec.DurationValue()),
		}
		return strings.Join(lines, "\n"), nil
	}
}

func formatTime(rec query.MediaInfoRecord, added bool) string {
	t := rec.ModifiedAt()
	if added {
		t = rec.AddedAt()
	}
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02T15:04:05Z07:00")
}
