package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/medialoc/internal/cmd/base"
	"github.com/hashicorp-forge/medialoc/internal/cmd/commands/classify"
	"github.com/hashicorp-forge/medialoc/internal/cmd/commands/index"
	"github.com/hashicorp-forge/medialoc/internal/cmd/commands/info"
	"github.com/hashicorp-forge/medialoc/internal/cmd/commands/locate"
	"github.com/hashicorp-forge/medialoc/internal/cmd/commands/resolve"
	"github.com/hashicorp-forge/medialoc/internal/cmd/commands/version"
)

// Commands is the mapping of all available medialoc commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"classify": func() (cli.Command, error) {
			return &classify.Command{Command: b}, nil
		},
		"index": func() (cli.Command, error) {
			return &index.Command{Command: b}, nil
		},
		"info": func() (cli.Command, error) {
			return &info.Command{Command: b}, nil
		},
		"locate": func() (cli.Command, error) {
			return &locate.Command{Command: b}, nil
		},
		"resolve": func() (cli.Command, error) {
			return &resolve.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
