package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" default:"trainer.hcl" help:"Path to HCL config file"`
	Debug   bool             `help:"Enable debug logging"`

	Play     PlayCmd     `cmd:"" help:"Play an interactive session against computer opponents"`
	Simulate SimulateCmd `cmd:"" help:"Simulate sessions to benchmark personalities"`
	Server   ServerCmd   `cmd:"" help:"Run the websocket table server"`
	Ranges   RangesCmd   `cmd:"" help:"Show the built-in ranges and personalities"`
	Review   ReviewCmd   `cmd:"" help:"Review a recorded session file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-trainer"),
		kong.Description("Texas hold'em trainer: play, simulate, and review against personality-driven opponents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
