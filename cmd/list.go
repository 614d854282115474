package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"festwatch/internal/core/countdown"
	"festwatch/internal/core/model"
	"festwatch/internal/core/scheduler"
	"festwatch/internal/notify"
	"festwatch/internal/storage"
)

var listFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "all, a",
		Usage: "include events without reminders",
	},
}

// list prints countdowns without sending notifications, so reminders
// pending for the tray app are left untouched.
func list(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := initLogger(conf.Production)
	if err != nil {
		return fmt.Errorf("unable to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	store, err := storage.Open(ctx, conf.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	fs := afero.NewOsFs()
	catalog, err := loadCatalog(ctx, fs, conf.CatalogPath, store, logger)
	if err != nil {
		return err
	}

	prefs, err := storage.LoadFilePreferences(fs, conf.PrefsPath)
	if err != nil {
		logger.Warnw("ignoring preference file", "path", conf.PrefsPath, "err", err)
	}

	keeper := scheduler.New(scheduler.Deps{
		Catalog:  catalog,
		Store:    store,
		Prefs:    prefs,
		Notifier: notify.NewLog(logger),
		Logger:   logger,
	}, scheduler.Config{TickInterval: conf.TickInterval})
	keeper.Load(ctx)

	now := time.Now()
	festivals := catalog.FestivalCategoryID()

	writer := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "EVENT\tKIND\tLOCATION\tREMINDER\tIN\tCOUNTDOWN")
	for _, line := range keeper.Preview(now) {
		if !line.Enabled && !c.Bool("all") {
			continue
		}
		kind := "event"
		if line.CategoryID == festivals {
			kind = "festival"
		}
		remaining, text := "-", "no upcoming occurrence"
		if line.Occurrence.Tag != model.TagNone {
			remaining = countdown.Remaining(line.Occurrence.Boundary, now).Round(time.Minute).String()
			text = line.Text
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n", line.Name, kind, line.Location, onOff(line.Enabled), remaining, text)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if err := keeper.Flush(ctx); err != nil {
		return err
	}
	return prefs.Save()
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
