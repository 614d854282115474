package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

const (
	appName = "festwatch"
	appID   = "io.festwatch.app"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", appName, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.HelpName = appName
	app.Usage = "desktop reminders for recurring game events and festivals"
	app.UsageText = "festwatch [global options] [command] [arguments...]"
	app.Version = version
	app.Flags = globalFlags
	app.Action = run
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "start the tray app (default)",
			Action: run,
		},
		{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "print the countdown of every enabled event",
			Action:  list,
			Flags:   listFlags,
		},
		{
			Name:      "check",
			Usage:     "validate a catalog file",
			ArgsUsage: "<catalog.yaml>",
			Action:    check,
		},
		{
			Name:   "autostart",
			Usage:  "start the tray app at login",
			Action: autostart,
			Flags:  autostartFlags,
		},
	}
	return app
}
