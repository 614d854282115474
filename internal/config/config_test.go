package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FESTWATCH_PRODUCTION", "")
	t.Setenv("FESTWATCH_DB_PATH", "")
	t.Setenv("FESTWATCH_CATALOG_PATH", "")
	t.Setenv("FESTWATCH_PREFS_PATH", "")
	t.Setenv("FESTWATCH_TICK_INTERVAL", "")

	dir := t.TempDir()
	conf, err := Load(dir)
	require.NoError(t, err)

	assert.False(t, conf.Production)
	assert.Equal(t, filepath.Join(dir, "festwatch.db"), conf.DBPath)
	assert.Equal(t, filepath.Join(dir, "preferences.yaml"), conf.PrefsPath)
	assert.Empty(t, conf.CatalogPath)
	assert.Equal(t, 30*time.Second, conf.TickInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FESTWATCH_PRODUCTION", "true")
	t.Setenv("FESTWATCH_DB_PATH", "/var/lib/festwatch/events.db")
	t.Setenv("FESTWATCH_CATALOG_PATH", "/etc/festwatch/catalog.yaml")
	t.Setenv("FESTWATCH_PREFS_PATH", "/tmp/prefs.yaml")
	t.Setenv("FESTWATCH_TICK_INTERVAL", "10s")

	conf, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.True(t, conf.Production)
	assert.Equal(t, "/var/lib/festwatch/events.db", conf.DBPath)
	assert.Equal(t, "/etc/festwatch/catalog.yaml", conf.CatalogPath)
	assert.Equal(t, "/tmp/prefs.yaml", conf.PrefsPath)
	assert.Equal(t, 10*time.Second, conf.TickInterval)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("FESTWATCH_TICK_INTERVAL", "soon")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestNormalizeClampsTickInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{name: "zero", interval: 0, want: 30 * time.Second},
		{name: "negative", interval: -time.Second, want: 30 * time.Second},
		{name: "within bound", interval: 45 * time.Second, want: 45 * time.Second},
		{name: "too slow", interval: 5 * time.Minute, want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Config{TickInterval: tt.interval}
			conf.Normalize("/cfg")
			assert.Equal(t, tt.want, conf.TickInterval)
		})
	}
}
