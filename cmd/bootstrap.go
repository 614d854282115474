package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"festwatch/internal/config"
	"festwatch/internal/core/model"
	"festwatch/internal/platform"
	"festwatch/internal/storage"
	"festwatch/resources"
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "db",
		Usage: "SQLite database `FILE`",
	},
	cli.StringFlag{
		Name:  "catalog",
		Usage: "event catalog `FILE` replacing the built-in one",
	},
	cli.StringFlag{
		Name:  "prefs",
		Usage: "preference `FILE` used by headless commands",
	},
	cli.DurationFlag{
		Name:  "tick",
		Usage: "countdown refresh interval, at most 1m",
	},
	cli.BoolFlag{
		Name:  "production",
		Usage: "log JSON instead of colored console output",
	},
}

// loadConfig reads the environment and applies global flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configDir, err := platform.NewService(appName).ConfigDir()
	if err != nil {
		return nil, err
	}

	conf, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}

	if c.GlobalIsSet("db") {
		conf.DBPath = c.GlobalString("db")
	}
	if c.GlobalIsSet("catalog") {
		conf.CatalogPath = c.GlobalString("catalog")
	}
	if c.GlobalIsSet("prefs") {
		conf.PrefsPath = c.GlobalString("prefs")
	}
	if c.GlobalIsSet("tick") {
		conf.TickInterval = c.GlobalDuration("tick")
	}
	if c.GlobalIsSet("production") {
		conf.Production = c.GlobalBool("production")
	}
	conf.Normalize(configDir)
	return conf, nil
}

func initLogger(production bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if production {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

// readCatalog returns the configured catalog file, or the built-in catalog.
func readCatalog(fs afero.Fs, path string) ([]byte, error) {
	if path == "" {
		return resources.Catalog(), nil
	}
	return storage.ReadCatalogFile(fs, path)
}

// loadCatalog seeds the store from the catalog source and reads it back.
// Invalid definitions are logged and skipped.
func loadCatalog(ctx context.Context, fs afero.Fs, path string, store *storage.Store, logger *zap.SugaredLogger) (model.Catalog, error) {
	rawData, err := readCatalog(fs, path)
	if err != nil {
		return model.Catalog{}, err
	}

	parsed, err := storage.ParseCatalog(rawData)
	if err != nil && !logConfigurationErrors(logger, err) {
		return model.Catalog{}, err
	}

	if err := store.Seed(ctx, parsed); err != nil {
		return model.Catalog{}, fmt.Errorf("seed catalog: %w", err)
	}

	catalog, err := store.LoadEventDefinitions(ctx)
	if err != nil && !logConfigurationErrors(logger, err) {
		return model.Catalog{}, err
	}

	logger.Infow("catalog loaded",
		"expansions", len(catalog.Expansions),
		"categories", len(catalog.Categories),
		"events", len(catalog.Events),
	)
	return catalog, nil
}

// logConfigurationErrors logs every invalid definition in err. It returns
// false when err holds anything else.
func logConfigurationErrors(logger *zap.SugaredLogger, err error) bool {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return false
	}
	for _, item := range merr.Errors {
		var configErr *model.ConfigurationError
		if !errors.As(item, &configErr) {
			return false
		}
		logger.Warnw("skipping invalid event definition", "event", configErr.EventID, "reason", configErr.Reason)
	}
	return true
}
