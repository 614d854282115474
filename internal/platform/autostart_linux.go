//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

func (service *platformService) EnableAutostart(execPath string, args ...string) error {
	if service.appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	entryPath, err := service.desktopEntryPath()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	if err := service.fs.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	entry := buildDesktopEntry(service.appName, commandLine(execPath, args))
	if err := afero.WriteFile(service.fs, entryPath, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) DisableAutostart() error {
	if service.appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	entryPath, err := service.desktopEntryPath()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}

	if err := service.fs.Remove(entryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) desktopEntryPath() (string, error) {
	baseDir, err := service.baseConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, "autostart", appSlug(service.appName)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func buildDesktopEntry(appName, execLine string) string {
	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Comment=Event reminders in the system tray
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		appName,
		execLine,
	)
}
