package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"festwatch/internal/core/countdown"
	"festwatch/internal/core/model"
	"festwatch/internal/core/occurrence"
	"festwatch/internal/core/tracker"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

const (
	defaultTickInterval = 30 * time.Second
	maxTickInterval     = time.Minute
)

var (
	// ErrUnknownEvent indicates a toggle for an event missing from the catalog.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrInvalidLeadTime indicates a lead time outside model.LeadTimeOptions.
	ErrInvalidLeadTime = errors.New("invalid lead time")
)

// StateStore is the authoritative NotifyState storage.
type StateStore interface {
	LoadNotifyState(ctx context.Context, eventID string) (model.NotifyState, bool, error)
	SaveNotifyState(ctx context.Context, state model.NotifyState) error
}

// PreferenceCache is the fast-path preference storage mirrored on shutdown.
type PreferenceCache interface {
	LeadTime() int
	SetLeadTime(minutes int)
	Enabled(eventID string) (enabled bool, ok bool)
	SetEnabled(eventID string, enabled bool)
}

// Notifier delivers a desktop notification. Notify runs on the ticking
// goroutine with the scheduler lock held, so it must be safe to call from any
// goroutine and must not block on the UI.
type Notifier interface {
	Notify(title, body string) error
}

// Deps holds the collaborators of a Scheduler.
type Deps struct {
	Catalog  model.Catalog
	Store    StateStore
	Prefs    PreferenceCache
	Notifier Notifier
	Logger   *zap.SugaredLogger
}

// Config contains runtime options for the Scheduler.
type Config struct {
	TickInterval time.Duration
}

// Scheduler recomputes every event occurrence on a fixed tick, publishes
// countdowns and fires at most one notification per occurrence.
type Scheduler struct {
	mu         sync.Mutex
	deps       Deps
	options    Config
	tracker    *tracker.Tracker
	leadTime   int
	countdowns []Countdown
	events     []chan Event
	// unread holds events whose stored state could not be read yet.
	unread  map[string]bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a Scheduler with the provided collaborators.
func New(deps Deps, options Config) *Scheduler {
	if options.TickInterval <= 0 {
		options.TickInterval = defaultTickInterval
	}
	if options.TickInterval > maxTickInterval {
		options.TickInterval = maxTickInterval
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}

	return &Scheduler{
		deps:     deps,
		options:  options,
		tracker:  tracker.New(),
		leadTime: model.DefaultLeadTime,
		unread:   make(map[string]bool),
	}
}

// Load reads the lead time and every persisted NotifyState before the first
// tick. Missing states are created from the preference cache, or disabled.
// A state that cannot be read is retried on later ticks; until then the event
// never fires and its stored row is left untouched.
func (scheduler *Scheduler) Load(ctx context.Context) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if minutes := scheduler.deps.Prefs.LeadTime(); model.ValidLeadTime(minutes) {
		scheduler.leadTime = minutes
	}

	for _, def := range scheduler.deps.Catalog.Events {
		state, found, err := scheduler.deps.Store.LoadNotifyState(ctx, def.ID)
		if err != nil {
			scheduler.deps.Logger.Errorw("load notify state", "event", def.ID, "err", err)
			scheduler.tracker.Put(scheduler.cachedStateLocked(def.ID))
			scheduler.unread[def.ID] = true
			continue
		}
		if !found {
			scheduler.tracker.Put(scheduler.cachedStateLocked(def.ID))
			scheduler.tracker.MarkDirty(def.ID)
			continue
		}
		scheduler.tracker.Put(state)
	}

	scheduler.persistDirtyLocked(ctx, time.Now())
	scheduler.deps.Logger.Infow("notify states loaded",
		"events", len(scheduler.deps.Catalog.Events),
		"unread", len(scheduler.unread),
		"lead_time_minutes", scheduler.leadTime,
	)
}

func (scheduler *Scheduler) cachedStateLocked(eventID string) model.NotifyState {
	state := model.NotifyState{EventID: eventID}
	if enabled, ok := scheduler.deps.Prefs.Enabled(eventID); ok {
		state.Enabled = enabled
	}
	return state
}

// rereadLocked retries every state that Load could not read. A stored row
// replaces the in-memory one but keeps a toggle made in the meantime.
func (scheduler *Scheduler) rereadLocked(ctx context.Context) {
	for eventID := range scheduler.unread {
		stored, found, err := scheduler.deps.Store.LoadNotifyState(ctx, eventID)
		if err != nil {
			scheduler.deps.Logger.Debugw("reread notify state", "event", eventID, "err", err)
			continue
		}
		delete(scheduler.unread, eventID)

		current, _ := scheduler.tracker.State(eventID)
		if !found {
			scheduler.tracker.MarkDirty(eventID)
			continue
		}
		scheduler.tracker.Put(stored)
		if current.Enabled != stored.Enabled {
			scheduler.tracker.SetEnabled(eventID, current.Enabled)
		}
	}
}

// Subscribe registers a new observer channel.
func (scheduler *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	scheduler.mu.Lock()
	scheduler.events = append(scheduler.events, ch)
	scheduler.mu.Unlock()
	return ch
}

// Start launches the ticking loop. The first tick runs immediately.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	if scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = true
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	scheduler.stopCh = stopCh
	scheduler.doneCh = doneCh
	scheduler.mu.Unlock()

	go scheduler.run(stopCh, doneCh)
}

// Stop terminates the ticking loop after the running tick completes and
// closes observers.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	if !scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = false
	close(scheduler.stopCh)
	doneCh := scheduler.doneCh
	scheduler.mu.Unlock()

	<-doneCh

	scheduler.mu.Lock()
	events := scheduler.events
	scheduler.events = nil
	scheduler.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// SetEnabled applies a user toggle. It is visible to the next tick.
func (scheduler *Scheduler) SetEnabled(eventID string, enabled bool) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if !scheduler.knownLocked(eventID) {
		return fmt.Errorf("set enabled %q: %w", eventID, ErrUnknownEvent)
	}
	scheduler.toggleLocked(eventID, enabled)
	scheduler.persistDirtyLocked(context.Background(), time.Now())
	return nil
}

// SetCategoryEnabled applies a toggle to every event of a category.
func (scheduler *Scheduler) SetCategoryEnabled(categoryID int, enabled bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	for _, def := range scheduler.deps.Catalog.EventsOf(categoryID) {
		scheduler.toggleLocked(def.ID, enabled)
	}
	scheduler.persistDirtyLocked(context.Background(), time.Now())
}

// Enabled reports whether notifications are on for an event.
func (scheduler *Scheduler) Enabled(eventID string) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	state, _ := scheduler.tracker.State(eventID)
	return state.Enabled
}

// SetLeadTime changes the lead time used from the next tick on.
func (scheduler *Scheduler) SetLeadTime(minutes int) error {
	if !model.ValidLeadTime(minutes) {
		return fmt.Errorf("set lead time %d: %w", minutes, ErrInvalidLeadTime)
	}
	scheduler.mu.Lock()
	scheduler.leadTime = minutes
	scheduler.mu.Unlock()

	scheduler.deps.Prefs.SetLeadTime(minutes)
	return nil
}

// LeadTime returns the lead time in minutes.
func (scheduler *Scheduler) LeadTime() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.leadTime
}

// Countdowns returns the countdowns computed by the latest tick.
func (scheduler *Scheduler) Countdowns() []Countdown {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return append([]Countdown(nil), scheduler.countdowns...)
}

// Preview computes countdowns at now without firing or recording anything.
func (scheduler *Scheduler) Preview(now time.Time) []Countdown {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	countdowns := make([]Countdown, 0, len(scheduler.deps.Catalog.Events))
	for _, def := range scheduler.deps.Catalog.Events {
		countdowns = append(countdowns, scheduler.countdownLocked(def, now))
	}
	return countdowns
}

// Next returns the enabled countdown with the nearest boundary.
func (scheduler *Scheduler) Next() (Countdown, bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	var next Countdown
	found := false
	for _, line := range scheduler.countdowns {
		if !line.Enabled || line.Occurrence.Tag == model.TagNone {
			continue
		}
		if !found || line.Occurrence.Boundary.Before(next.Occurrence.Boundary) {
			next = line
			found = true
		}
	}
	return next, found
}

// Tick evaluates every event at now.
func (scheduler *Scheduler) Tick(now time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.tickLocked(now)
}

// Flush persists pending states and mirrors every enabled flag and the lead
// time into the preference cache. It blocks until done.
func (scheduler *Scheduler) Flush(ctx context.Context) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	err := scheduler.persistDirtyLocked(ctx, time.Now())
	for _, state := range scheduler.tracker.States() {
		scheduler.deps.Prefs.SetEnabled(state.EventID, state.Enabled)
	}
	scheduler.deps.Prefs.SetLeadTime(scheduler.leadTime)
	return err
}

func (scheduler *Scheduler) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(scheduler.options.TickInterval)
	defer ticker.Stop()

	scheduler.Tick(time.Now())
	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			scheduler.Tick(tickTime)
		}
	}
}

func (scheduler *Scheduler) tickLocked(now time.Time) {
	ctx := context.Background()
	lead := model.LeadTimeDuration(scheduler.leadTime)
	countdowns := make([]Countdown, 0, len(scheduler.deps.Catalog.Events))

	scheduler.rereadLocked(ctx)
	for _, def := range scheduler.deps.Catalog.Events {
		line := scheduler.countdownLocked(def, now)
		countdowns = append(countdowns, line)

		if scheduler.unread[def.ID] {
			continue
		}
		decision := scheduler.tracker.Observe(def.ID, line.Occurrence, now, lead)
		if decision.Fire {
			scheduler.fireLocked(line, now)
		}
	}

	scheduler.persistDirtyLocked(ctx, now)
	scheduler.countdowns = countdowns
	scheduler.emitLocked(Event{
		Type:       EventCountdowns,
		Countdowns: countdowns,
		At:         now,
	})
}

func (scheduler *Scheduler) countdownLocked(def model.EventDefinition, now time.Time) Countdown {
	categoryName := ""
	if category, ok := scheduler.deps.Catalog.Category(def.CategoryID); ok {
		categoryName = category.Name
	}
	name, location := def.Label(categoryName)
	state, _ := scheduler.tracker.State(def.ID)

	line := Countdown{
		EventID:    def.ID,
		CategoryID: def.CategoryID,
		Name:       name,
		Location:   location,
		Enabled:    state.Enabled,
		Occurrence: occurrence.Next(def.Schedule, now),
	}
	if line.Occurrence.Tag != model.TagNone {
		line.Text = countdown.Format(line.Occurrence.Boundary, now, line.Occurrence.Ongoing())
	}
	return line
}

// fireLocked delivers a notification. The occurrence is already recorded as
// notified, so a delivery failure is logged and not retried.
func (scheduler *Scheduler) fireLocked(line Countdown, now time.Time) {
	if err := scheduler.deps.Notifier.Notify(line.Name, line.Text); err != nil {
		scheduler.deps.Logger.Errorw("notification failed", "event", line.EventID, "err", err)
		scheduler.emitLocked(Event{
			Type:    EventTriggerError,
			EventID: line.EventID,
			Title:   line.Name,
			Message: err.Error(),
			At:      now,
		})
		return
	}

	scheduler.deps.Logger.Infow("notification sent",
		"event", line.EventID,
		"boundary", line.Occurrence.Boundary,
		"text", line.Text,
	)
	scheduler.emitLocked(Event{
		Type:    EventNotified,
		EventID: line.EventID,
		Title:   line.Name,
		Message: line.Text,
		At:      now,
	})
}

func (scheduler *Scheduler) toggleLocked(eventID string, enabled bool) {
	state, changed := scheduler.tracker.SetEnabled(eventID, enabled)
	if !changed {
		return
	}
	scheduler.deps.Logger.Debugw("notify state toggled", "event", eventID, "enabled", state.Enabled)
	scheduler.emitLocked(Event{
		Type:    EventToggled,
		EventID: eventID,
		Enabled: state.Enabled,
		At:      time.Now(),
	})
}

// persistDirtyLocked writes every unsaved state. Failed writes stay dirty and
// are carried by a later call.
func (scheduler *Scheduler) persistDirtyLocked(ctx context.Context, now time.Time) error {
	var result *multierror.Error
	for _, state := range scheduler.tracker.Dirty() {
		if scheduler.unread[state.EventID] {
			continue
		}
		if err := scheduler.deps.Store.SaveNotifyState(ctx, state); err != nil {
			result = multierror.Append(result, fmt.Errorf("save notify state %q: %w", state.EventID, err))
			scheduler.deps.Logger.Errorw("save notify state", "event", state.EventID, "err", err)
			scheduler.emitLocked(Event{
				Type:    EventStoreError,
				EventID: state.EventID,
				Message: err.Error(),
				At:      now,
			})
			continue
		}
		scheduler.tracker.MarkClean(state.EventID)
	}
	return result.ErrorOrNil()
}

func (scheduler *Scheduler) knownLocked(eventID string) bool {
	for _, def := range scheduler.deps.Catalog.Events {
		if def.ID == eventID {
			return true
		}
	}
	return false
}

func (scheduler *Scheduler) emitLocked(event Event) {
	events := append([]chan Event(nil), scheduler.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
