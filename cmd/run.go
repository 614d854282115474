package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"festwatch/internal/core/scheduler"
	"festwatch/internal/notify"
	"festwatch/internal/platform"
	"festwatch/internal/storage"
	"festwatch/internal/ui/events"
	"festwatch/internal/ui/tray"
	"festwatch/resources"
)

func run(c *cli.Context) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		fmt.Fprintln(c.App.Writer, "festwatch is already running")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	conf, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := initLogger(conf.Production)
	if err != nil {
		return fmt.Errorf("unable to initialize logger: %w", err)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, conf.DBPath)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(ctx, afero.NewOsFs(), conf.CatalogPath, store, logger)
	if err != nil {
		_ = store.Close()
		return err
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		_ = store.Close()
		return errors.New("system tray unsupported on this platform")
	}

	keeper := scheduler.New(scheduler.Deps{
		Catalog:  catalog,
		Store:    store,
		Prefs:    storage.NewFynePreferences(fyneApp.Preferences()),
		Notifier: notify.NewDesktop(fyneApp),
		Logger:   logger,
	}, scheduler.Config{TickInterval: conf.TickInterval})
	keeper.Load(ctx)

	shutdown := shutdownOnce(keeper, logger)

	closer.Bind(func() {
		_ = guard.Release()
	})
	closer.Bind(func() {
		_ = logger.Sync()
	})
	closer.Bind(func() {
		if err := store.Close(); err != nil {
			logger.Errorw("close database", "err", err)
		}
	})
	closer.Bind(shutdown)

	eventsWindow := events.New(fyneApp, catalog, keeper, logger)
	guard.Serve(func() {
		fyne.Do(eventsWindow.Show)
	})

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnOpen: eventsWindow.Show,
		OnLeadTime: func(minutes int) {
			if err := keeper.SetLeadTime(minutes); err != nil {
				logger.Errorw("set lead time", "minutes", minutes, "err", err)
				return
			}
			eventsWindow.SetLeadTime(minutes)
			trayManager.SetLeadTime(minutes)
		},
		OnQuit: func() {
			shutdown()
			fyneApp.Quit()
		},
	}, keeper.LeadTime())
	desktopApp.SetSystemTrayIcon(resources.MustIcon())

	updates := keeper.Subscribe(16)
	go func() {
		for event := range updates {
			event := event
			switch event.Type {
			case scheduler.EventCountdowns:
				next, found := keeper.Next()
				leadTime := keeper.LeadTime()
				fyne.Do(func() {
					eventsWindow.Update(event.Countdowns)
					trayManager.SetNext(next.Name, next.Text, found)
					trayManager.SetLeadTime(leadTime)
				})
			case scheduler.EventStoreError, scheduler.EventTriggerError:
				logger.Warnw("scheduler error", "type", event.Type, "event", event.EventID, "err", event.Message)
			}
		}
	}()

	keeper.Start()
	logger.Infow("festwatch started", "db", conf.DBPath, "tick", conf.TickInterval)
	fyneApp.Run()

	closer.Close()
	return nil
}

type stopFlusher interface {
	Stop()
	Flush(ctx context.Context) error
}

// shutdownOnce stops the scheduler and flushes its state. Both the tray Quit
// item and the closer hook call it; only the first call does the work.
func shutdownOnce(keeper stopFlusher, logger *zap.SugaredLogger) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			keeper.Stop()
			if err := keeper.Flush(context.Background()); err != nil {
				logger.Errorw("flush notify states", "err", err)
			}
		})
	}
}
