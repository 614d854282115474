package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	// ConfigDir returns the directory holding the app database and preferences.
	ConfigDir() (string, error)
	EnableAutostart(execPath string, args ...string) error
	DisableAutostart() error
}

type platformService struct {
	appName       string
	fs            afero.Fs
	userConfigDir func() (string, error)
	userHomeDir   func() (string, error)
}

// NewService returns a platform-specific implementation for appName.
func NewService(appName string) Service {
	return &platformService{
		appName:       appName,
		fs:            afero.NewOsFs(),
		userConfigDir: os.UserConfigDir,
		userHomeDir:   os.UserHomeDir,
	}
}

func (service *platformService) ConfigDir() (string, error) {
	baseDir, err := service.baseConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, appSlug(service.appName)), nil
}

func (service *platformService) baseConfigDir() (string, error) {
	configDir, err := service.userConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := service.userHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func appSlug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "festwatch"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

func quoteArg(arg string) string {
	if strings.Contains(arg, " ") && !strings.HasPrefix(arg, `"`) {
		return `"` + arg + `"`
	}
	return arg
}

func commandLine(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(execPath))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}
