package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"festwatch/internal/core/model"
)

type notifyStateDTO struct {
	EventID      string `db:"event_id"`
	Enabled      bool   `db:"enabled"`
	LastNotified int64  `db:"last_notified"`
}

func mapToNotifyState(dto *notifyStateDTO) model.NotifyState {
	return model.NotifyState{
		EventID:      dto.EventID,
		Enabled:      dto.Enabled,
		LastNotified: model.Token(dto.LastNotified),
	}
}

var notifyStateQuery = SQ.
	Select("event_id", "enabled", "last_notified").
	From(notifyStateTable)

// LoadNotifyState returns the stored state of an event; the bool is false when absent.
func (store *Store) LoadNotifyState(ctx context.Context, eventID string) (model.NotifyState, bool, error) {
	var dtos []*notifyStateDTO
	if err := selectFn(ctx, store.db, &dtos, notifyStateQuery.Where(sq.Eq{"event_id": eventID})); err != nil {
		return model.NotifyState{}, false, fmt.Errorf("load notify state %q: %w", eventID, err)
	}
	if len(dtos) == 0 {
		return model.NotifyState{}, false, nil
	}
	return mapToNotifyState(dtos[0]), true, nil
}

// SaveNotifyState inserts or replaces the state of an event.
func (store *Store) SaveNotifyState(ctx context.Context, state model.NotifyState) error {
	qb := SQ.
		Insert(notifyStateTable).
		Columns("event_id", "enabled", "last_notified").
		Values(state.EventID, state.Enabled, int64(state.LastNotified)).
		Suffix("ON CONFLICT(event_id) DO UPDATE SET enabled = excluded.enabled, last_notified = excluded.last_notified")

	if err := execFn(ctx, store.db, qb); err != nil {
		return fmt.Errorf("save notify state %q: %w", state.EventID, err)
	}
	return nil
}
