package base

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Command is embedded by every medialoc command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs is the filesystem indexed files and cache copies live on. Defaults
	// to the OS filesystem.
	Fs afero.Fs
}

// NewCommand returns a Command writing to ui and logging to log.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		Fs:  afero.NewOsFs(),
	}
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned rather than printed so
// commands can report them through their UI.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		if name != "" {
			fmt.Fprintf(&buf, "\n  -%s=<%s>\n", fl.Name, name)
		} else {
			fmt.Fprintf(&buf, "\n  -%s\n", fl.Name)
		}
		fmt.Fprintf(&buf, "    %s", strings.ReplaceAll(usage, "\n", "\n    "))
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&buf, " (default: %s)", fl.DefValue)
		}
		buf.WriteString("\n")
	})
	return strings.TrimRight(buf.String(), "\n")
}
