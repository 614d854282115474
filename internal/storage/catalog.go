package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"festwatch/internal/core/model"
)

const (
	kindRecurring = "recurring"
	kindWindow    = "window"
)

type expansionDTO struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type categoryDTO struct {
	ID          int    `db:"id"`
	ExpansionID int    `db:"expansion_id"`
	Name        string `db:"name"`
	Toggleable  bool   `db:"toggleable"`
}

type eventDTO struct {
	ID            string `db:"id"`
	CategoryID    int    `db:"category_id"`
	Name          string `db:"name"`
	MapName       string `db:"map_name"`
	WaypointName  string `db:"waypoint_name"`
	Kind          string `db:"kind"`
	CycleSeconds  int64  `db:"cycle_seconds"`
	OffsetUnix    int64  `db:"offset_unix"`
	ActiveSeconds int64  `db:"active_seconds"`
}

type windowDTO struct {
	EventID   string `db:"event_id"`
	StartUnix int64  `db:"start_unix"`
	EndUnix   int64  `db:"end_unix"`
}

// Seed replaces the catalog tables with catalog. Notify states are kept.
func (store *Store) Seed(ctx context.Context, catalog model.Catalog) error {
	return store.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{festivalWindowTable, eventTable, categoryTable, expansionTable} {
			if err := execFn(ctx, tx, SQ.Delete(table)); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for position, expansion := range catalog.Expansions {
			qb := SQ.Insert(expansionTable).
				Columns("id", "name", "position").
				Values(expansion.ID, expansion.Name, position)
			if err := execFn(ctx, tx, qb); err != nil {
				return fmt.Errorf("insert expansion %d: %w", expansion.ID, err)
			}
		}

		for position, category := range catalog.Categories {
			qb := SQ.Insert(categoryTable).
				Columns("id", "expansion_id", "name", "toggleable", "position").
				Values(category.ID, category.ExpansionID, category.Name, category.Toggleable, position)
			if err := execFn(ctx, tx, qb); err != nil {
				return fmt.Errorf("insert category %d: %w", category.ID, err)
			}
		}

		for position, def := range catalog.Events {
			if err := insertEvent(ctx, tx, def, position); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertEvent(ctx context.Context, tx *sql.Tx, def model.EventDefinition, position int) error {
	values := map[string]interface{}{
		"id":            def.ID,
		"category_id":   def.CategoryID,
		"name":          def.Name,
		"map_name":      def.MapName,
		"waypoint_name": def.WaypointName,
		"position":      position,
	}

	var windows []model.Window
	switch schedule := def.Schedule.(type) {
	case model.RecurringSchedule:
		values["kind"] = kindRecurring
		values["cycle_seconds"] = int64(schedule.Cycle / time.Second)
		values["offset_unix"] = schedule.Offset.Unix()
		values["active_seconds"] = int64(schedule.Active / time.Second)
	case model.WindowSchedule:
		values["kind"] = kindWindow
		windows = schedule.Windows
	default:
		return fmt.Errorf("insert event %q: unsupported schedule %T", def.ID, def.Schedule)
	}

	if err := execFn(ctx, tx, SQ.Insert(eventTable).SetMap(values)); err != nil {
		return fmt.Errorf("insert event %q: %w", def.ID, err)
	}

	for _, window := range windows {
		qb := SQ.Insert(festivalWindowTable).
			Columns("event_id", "start_unix", "end_unix").
			Values(def.ID, window.Start.Unix(), window.End.Unix())
		if err := execFn(ctx, tx, qb); err != nil {
			return fmt.Errorf("insert window of %q: %w", def.ID, err)
		}
	}
	return nil
}

// LoadEventDefinitions reads the ordered catalog. Definitions violating their
// schedule invariants are left out and reported together in the returned
// error, which is then a *multierror.Error of *model.ConfigurationError; the
// catalog is still usable in that case.
func (store *Store) LoadEventDefinitions(ctx context.Context) (model.Catalog, error) {
	var catalog model.Catalog

	var expansions []*expansionDTO
	if err := selectFn(ctx, store.db, &expansions, SQ.Select("id", "name").From(expansionTable).OrderBy("position")); err != nil {
		return catalog, fmt.Errorf("load expansions: %w", err)
	}
	for _, dto := range expansions {
		catalog.Expansions = append(catalog.Expansions, model.Expansion{ID: dto.ID, Name: dto.Name})
	}

	var categories []*categoryDTO
	categoryQuery := SQ.Select("c.id AS id", "c.expansion_id AS expansion_id", "c.name AS name", "c.toggleable AS toggleable").
		From(categoryTable+" c").
		Join(expansionTable+" x ON x.id = c.expansion_id").
		OrderBy("x.position", "c.position")
	if err := selectFn(ctx, store.db, &categories, categoryQuery); err != nil {
		return catalog, fmt.Errorf("load categories: %w", err)
	}
	for _, dto := range categories {
		catalog.Categories = append(catalog.Categories, model.Category{
			ID:          dto.ID,
			ExpansionID: dto.ExpansionID,
			Name:        dto.Name,
			Toggleable:  dto.Toggleable,
		})
	}

	windows, err := store.loadWindows(ctx)
	if err != nil {
		return catalog, err
	}

	var events []*eventDTO
	eventQuery := SQ.Select("e.id AS id", "e.category_id AS category_id", "e.name AS name",
		"e.map_name AS map_name", "e.waypoint_name AS waypoint_name", "e.kind AS kind",
		"e.cycle_seconds AS cycle_seconds", "e.offset_unix AS offset_unix", "e.active_seconds AS active_seconds").
		From(eventTable+" e").
		Join(categoryTable+" c ON c.id = e.category_id").
		Join(expansionTable+" x ON x.id = c.expansion_id").
		OrderBy("x.position", "c.position", "e.position")
	if err := selectFn(ctx, store.db, &events, eventQuery); err != nil {
		return catalog, fmt.Errorf("load events: %w", err)
	}

	var invalid *multierror.Error
	for _, dto := range events {
		def := mapToEventDefinition(dto, windows[dto.ID])
		if err := model.Validate(def); err != nil {
			invalid = multierror.Append(invalid, err)
			continue
		}
		catalog.Events = append(catalog.Events, def)
	}
	return catalog, invalid.ErrorOrNil()
}

func (store *Store) loadWindows(ctx context.Context) (map[string][]model.Window, error) {
	var dtos []*windowDTO
	qb := SQ.Select("event_id", "start_unix", "end_unix").
		From(festivalWindowTable).
		OrderBy("event_id", "start_unix")
	if err := selectFn(ctx, store.db, &dtos, qb); err != nil {
		return nil, fmt.Errorf("load festival windows: %w", err)
	}

	windows := make(map[string][]model.Window)
	for _, dto := range dtos {
		windows[dto.EventID] = append(windows[dto.EventID], model.Window{
			Start: time.Unix(dto.StartUnix, 0).UTC(),
			End:   time.Unix(dto.EndUnix, 0).UTC(),
		})
	}
	return windows, nil
}

func mapToEventDefinition(dto *eventDTO, windows []model.Window) model.EventDefinition {
	def := model.EventDefinition{
		ID:           dto.ID,
		Name:         dto.Name,
		CategoryID:   dto.CategoryID,
		MapName:      dto.MapName,
		WaypointName: dto.WaypointName,
	}

	switch dto.Kind {
	case kindRecurring:
		def.Schedule = model.RecurringSchedule{
			Cycle:  time.Duration(dto.CycleSeconds) * time.Second,
			Offset: time.Unix(dto.OffsetUnix, 0).UTC(),
			Active: time.Duration(dto.ActiveSeconds) * time.Second,
		}
	case kindWindow:
		def.Schedule = model.WindowSchedule{Windows: windows}
	}
	return def
}
