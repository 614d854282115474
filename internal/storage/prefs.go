package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"festwatch/internal/core/model"
)

const (
	leadTimeKey       = "notify_minutes"
	notifyStatePrefix = "notify_state."
)

// FynePreferences keeps the preference cache in the fyne app preferences.
type FynePreferences struct {
	prefs fyne.Preferences
}

// NewFynePreferences wraps the preferences of a fyne app.
func NewFynePreferences(prefs fyne.Preferences) *FynePreferences {
	return &FynePreferences{prefs: prefs}
}

// LeadTime returns the cached lead time in minutes.
func (cache *FynePreferences) LeadTime() int {
	return cache.prefs.IntWithFallback(leadTimeKey, model.DefaultLeadTime)
}

// SetLeadTime caches the lead time in minutes.
func (cache *FynePreferences) SetLeadTime(minutes int) {
	cache.prefs.SetInt(leadTimeKey, minutes)
}

// Enabled returns the cached enabled flag of an event.
func (cache *FynePreferences) Enabled(eventID string) (bool, bool) {
	raw := cache.prefs.StringWithFallback(notifyStatePrefix+eventID, "")
	if raw == "" {
		return false, false
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return enabled, true
}

// SetEnabled caches the enabled flag of an event.
func (cache *FynePreferences) SetEnabled(eventID string, enabled bool) {
	cache.prefs.SetString(notifyStatePrefix+eventID, strconv.FormatBool(enabled))
}

type yamlPreferences struct {
	NotifyMinutes int             `yaml:"notify_minutes"`
	NotifyStates  map[string]bool `yaml:"notify_states"`
}

// FilePreferences keeps the preference cache in a YAML file. Changes stay in
// memory until Save.
type FilePreferences struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	data yamlPreferences
}

// LoadFilePreferences reads the YAML preference file at path.
// If the file does not exist, empty preferences are returned.
func LoadFilePreferences(fs afero.Fs, path string) (*FilePreferences, error) {
	cache := &FilePreferences{
		fs:   fs,
		path: path,
		data: yamlPreferences{NotifyStates: make(map[string]bool)},
	}

	rawData, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cache, nil
		}
		return cache, fmt.Errorf("read preferences file: %w", err)
	}

	if err := yaml.Unmarshal(rawData, &cache.data); err != nil {
		return cache, fmt.Errorf("parse preferences yaml: %w", err)
	}
	if cache.data.NotifyStates == nil {
		cache.data.NotifyStates = make(map[string]bool)
	}
	return cache, nil
}

// LeadTime returns the cached lead time, or the default when unset.
func (cache *FilePreferences) LeadTime() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.data.NotifyMinutes == 0 {
		return model.DefaultLeadTime
	}
	return cache.data.NotifyMinutes
}

// SetLeadTime caches the lead time in minutes.
func (cache *FilePreferences) SetLeadTime(minutes int) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.data.NotifyMinutes = minutes
}

// Enabled returns the cached enabled flag of an event.
func (cache *FilePreferences) Enabled(eventID string) (bool, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	enabled, ok := cache.data.NotifyStates[eventID]
	return enabled, ok
}

// SetEnabled caches the enabled flag of an event.
func (cache *FilePreferences) SetEnabled(eventID string, enabled bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.data.NotifyStates[eventID] = enabled
}

// Save writes the preferences to disk.
func (cache *FilePreferences) Save() error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if err := cache.fs.MkdirAll(filepath.Dir(cache.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	serialized, err := yaml.Marshal(cache.data)
	if err != nil {
		return fmt.Errorf("marshal preferences yaml: %w", err)
	}

	if err := afero.WriteFile(cache.fs, cache.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write preferences file: %w", err)
	}
	return nil
}
