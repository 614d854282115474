package notify

import (
	"errors"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

// ErrEmptyTitle is returned for notifications without a title.
var ErrEmptyTitle = errors.New("notification title is empty")

// Desktop shows notifications through the fyne app.
type Desktop struct {
	app fyne.App
}

func NewDesktop(app fyne.App) *Desktop {
	return &Desktop{app: app}
}

// Notify queues the notification on the fyne goroutine and returns without
// waiting for it to be shown. It may be called from any goroutine.
func (desktop *Desktop) Notify(title, body string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	notification := fyne.NewNotification(title, body)
	fyne.Do(func() {
		desktop.app.SendNotification(notification)
	})
	return nil
}

// Log writes notifications to the logger. Used by headless runs.
type Log struct {
	logger *zap.SugaredLogger
}

func NewLog(logger *zap.SugaredLogger) *Log {
	return &Log{logger: logger}
}

func (log *Log) Notify(title, body string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	log.logger.Infow("reminder", "title", title, "body", body)
	return nil
}
