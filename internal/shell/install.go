// Package shell handles shell plugin installation and rc file hooks.
package shell

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Supported lists the shells with a plugin.
var Supported = []string{"bash", "zsh"}

// rcMarker opens the block EnableRC appends to an rc file.
const rcMarker = "# CCO Hook - Copy Command Output"

// Plugin returns the plugin source for shell.
func Plugin(shell string) (string, error) {
	switch shell {
	case "zsh":
		return ZshPlugin, nil
	case "bash":
		return BashPlugin, nil
	}
	return "", fmt.Errorf("unsupported shell for plugin: %s (supported: %s)", shell, strings.Join(Supported, ", "))
}

// ConfigDir returns $XDG_CONFIG_HOME/cco, defaulting to ~/.config/cco.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := HomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cco"), nil
}

// PluginPath returns the path where the plugin file should be written.
func PluginPath(shell string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cco.plugin."+shell), nil
}

// Install writes the plugin file for the given shell and returns its path.
func Install(shell string) (string, error) {
	content, err := Plugin(shell)
	if err != nil {
		return "", err
	}
	path, err := PluginPath(shell)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing plugin file: %w", err)
	}
	return path, nil
}

// Uninstall removes the plugin file. A missing file is not an error.
func Uninstall(shell string) error {
	path, err := PluginPath(shell)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing plugin file: %w", err)
	}
	return nil
}

// IsInstalled reports whether the plugin file exists on disk.
func IsInstalled(shell string) bool {
	path, err := PluginPath(shell)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// HomeDir returns the invoking user's home, looking through sudo so that
// `sudo cco enable` edits the caller's rc file rather than root's.
func HomeDir() (string, error) {
	if name := os.Getenv("SUDO_USER"); name != "" && name != "root" {
		if u, err := user.Lookup(name); err == nil && u.HomeDir != "" {
			return u.HomeDir, nil
		}
	}
	return os.UserHomeDir()
}

// RCPath returns the interactive rc file for shell.
func RCPath(shell string) (string, error) {
	if _, err := Plugin(shell); err != nil {
		return "", err
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+shell+"rc"), nil
}

// DetectShell names the running shell from BASH_VERSION, ZSH_VERSION or SHELL.
func DetectShell(getenv func(string) string) (string, error) {
	switch {
	case getenv("BASH_VERSION") != "":
		return "bash", nil
	case getenv("ZSH_VERSION") != "":
		return "zsh", nil
	}
	sh := getenv("SHELL")
	switch filepath.Base(sh) {
	case "bash":
		return "bash", nil
	case "zsh":
		return "zsh", nil
	}
	return "", fmt.Errorf("unsupported shell %q: cco supports %s", sh, strings.Join(Supported, " and "))
}
