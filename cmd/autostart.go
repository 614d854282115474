package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"festwatch/internal/platform"
)

var autostartFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "disable",
		Usage: "remove the login entry",
	},
}

func autostart(c *cli.Context) error {
	service := platform.NewService(appName)

	if c.Bool("disable") {
		if err := service.DisableAutostart(); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "autostart disabled")
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := service.EnableAutostart(execPath, "run"); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "autostart enabled")
	return nil
}
