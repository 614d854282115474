//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func (service *platformService) EnableAutostart(execPath string, args ...string) error {
	if service.appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	plistPath, label, err := service.launchAgentPath()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	if err := service.fs.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}

	content := buildLaunchAgentPlist(label, append([]string{execPath}, args...))
	if err := afero.WriteFile(service.fs, plistPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}

	return nil
}

func (service *platformService) DisableAutostart() error {
	if service.appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	plistPath, _, err := service.launchAgentPath()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}

	if err := service.fs.Remove(plistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}

	return nil
}

func (service *platformService) launchAgentPath() (string, string, error) {
	homeDir, err := service.userHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get home dir: %w", err)
	}
	label := "com.festwatch." + appSlug(service.appName)
	return filepath.Join(homeDir, "Library", "LaunchAgents", label+".plist"), label, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func buildLaunchAgentPlist(label string, programArgs []string) string {
	var arguments strings.Builder
	for _, arg := range programArgs {
		arguments.WriteString("\t\t<string>" + xmlEscape(arg) + "</string>\n")
	}

	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`,
		xmlEscape(label),
		arguments.String(),
	)
}

func xmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}
