//go:build linux

package platform

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(fs afero.Fs) *platformService {
	return &platformService{
		appName:       "Fest Watch",
		fs:            fs,
		userConfigDir: func() (string, error) { return "/home/tyria/.config", nil },
		userHomeDir:   func() (string, error) { return "/home/tyria", nil },
	}
}

func TestConfigDir(t *testing.T) {
	service := newTestService(afero.NewMemMapFs())

	dir, err := service.ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tyria/.config/fest-watch", dir)

	service.userConfigDir = func() (string, error) { return "", errors.New("no XDG_CONFIG_HOME") }
	dir, err = service.ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tyria/.config/fest-watch", dir)
}

func TestAutostartDesktopEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	service := newTestService(fs)
	entryPath := "/home/tyria/.config/autostart/fest-watch.desktop"

	require.NoError(t, service.EnableAutostart("/opt/fest watch/festwatch", "run"))

	content, err := afero.ReadFile(fs, entryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=Fest Watch\n")
	assert.Contains(t, string(content), `Exec="/opt/fest watch/festwatch" run`)

	require.NoError(t, service.DisableAutostart())
	exists, err := afero.Exists(fs, entryPath)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, service.DisableAutostart())
}

func TestEnableAutostartRequiresExecPath(t *testing.T) {
	service := newTestService(afero.NewMemMapFs())
	assert.Error(t, service.EnableAutostart(""))
}
