package main

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"festwatch/internal/storage"
)

// errInvalidCatalog is returned by check when any definition was rejected.
var errInvalidCatalog = errors.New("catalog has invalid events")

func check(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("check: missing catalog file")
	}

	rawData, err := storage.ReadCatalogFile(afero.NewOsFs(), path)
	if err != nil {
		return err
	}

	catalog, err := storage.ParseCatalog(rawData)
	var invalid *multierror.Error
	if err != nil && !errors.As(err, &invalid) {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "%s: %d expansions, %d categories, %d events\n",
		path, len(catalog.Expansions), len(catalog.Categories), len(catalog.Events))
	if invalid.ErrorOrNil() == nil {
		fmt.Fprintln(out, "ok")
		return nil
	}

	for _, item := range invalid.Errors {
		fmt.Fprintf(out, "  %s\n", item)
	}
	return fmt.Errorf("%w: %d", errInvalidCatalog, len(invalid.Errors))
}
