package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"festwatch/internal/core/model"
)

type yamlCatalog struct {
	Expansions []yamlExpansion `yaml:"expansions"`
}

type yamlExpansion struct {
	ID         int            `yaml:"id"`
	Name       string         `yaml:"name"`
	Categories []yamlCategory `yaml:"categories"`
}

type yamlCategory struct {
	ID         int         `yaml:"id"`
	Name       string      `yaml:"name"`
	Toggleable bool        `yaml:"toggleable"`
	Events     []yamlEvent `yaml:"events"`
}

type yamlEvent struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Map      string       `yaml:"map"`
	Waypoint string       `yaml:"waypoint"`
	Cycle    string       `yaml:"cycle"`
	Offset   string       `yaml:"offset"`
	Active   string       `yaml:"active"`
	Windows  []yamlWindow `yaml:"windows"`
}

type yamlWindow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// ReadCatalogFile reads a catalog file. A missing file yields ErrNotFound.
func ReadCatalogFile(fs afero.Fs, path string) ([]byte, error) {
	rawData, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return rawData, nil
}

// ParseCatalog decodes a YAML catalog. Events whose schedule is malformed, and
// repeats of an event ID already seen, are left out and reported as
// *model.ConfigurationError values inside the returned error; a YAML syntax
// error fails the whole catalog.
func ParseCatalog(rawData []byte) (model.Catalog, error) {
	var catalog model.Catalog

	var fileData yamlCatalog
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return catalog, fmt.Errorf("parse catalog yaml: %w", err)
	}

	var invalid *multierror.Error
	seen := make(map[string]bool)
	for _, expansion := range fileData.Expansions {
		catalog.Expansions = append(catalog.Expansions, model.Expansion{ID: expansion.ID, Name: expansion.Name})

		for _, category := range expansion.Categories {
			catalog.Categories = append(catalog.Categories, model.Category{
				ID:          category.ID,
				ExpansionID: expansion.ID,
				Name:        category.Name,
				Toggleable:  category.Toggleable,
			})

			for _, event := range category.Events {
				def, err := applyYamlEvent(category.ID, event)
				if err != nil {
					invalid = multierror.Append(invalid, err)
					continue
				}
				if seen[def.ID] {
					invalid = multierror.Append(invalid, &model.ConfigurationError{
						EventID: def.ID,
						Reason:  "duplicate event id",
					})
					continue
				}
				seen[def.ID] = true
				catalog.Events = append(catalog.Events, def)
			}
		}
	}
	return catalog, invalid.ErrorOrNil()
}

func applyYamlEvent(categoryID int, event yamlEvent) (model.EventDefinition, error) {
	def := model.EventDefinition{
		ID:           event.ID,
		Name:         event.Name,
		CategoryID:   categoryID,
		MapName:      event.Map,
		WaypointName: event.Waypoint,
	}
	invalid := func(format string, args ...any) error {
		return &model.ConfigurationError{EventID: event.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if len(event.Windows) > 0 {
		schedule := model.WindowSchedule{}
		for i, window := range event.Windows {
			start, err := time.Parse(time.RFC3339, window.Start)
			if err != nil {
				return def, invalid("window %d start: %v", i, err)
			}
			end, err := time.Parse(time.RFC3339, window.End)
			if err != nil {
				return def, invalid("window %d end: %v", i, err)
			}
			schedule.Windows = append(schedule.Windows, model.Window{Start: start.UTC(), End: end.UTC()})
		}
		def.Schedule = schedule
		return def, model.Validate(def)
	}

	cycle, err := time.ParseDuration(event.Cycle)
	if err != nil {
		return def, invalid("cycle: %v", err)
	}
	offset, err := time.Parse(time.RFC3339, event.Offset)
	if err != nil {
		return def, invalid("offset: %v", err)
	}
	var active time.Duration
	if event.Active != "" {
		if active, err = time.ParseDuration(event.Active); err != nil {
			return def, invalid("active: %v", err)
		}
	}

	def.Schedule = model.RecurringSchedule{Cycle: cycle, Offset: offset.UTC(), Active: active}
	return def, model.Validate(def)
}
