package shell

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// rcBlock is the snippet EnableRC appends.
func rcBlock(pluginPath string) string {
	return fmt.Sprintf("\n%s\nif [[ -f %q ]]; then\n    source %q\nfi\n", rcMarker, pluginPath, pluginPath)
}

// EnableRC appends a block sourcing pluginPath to rcPath, creating the file
// if needed. It reports false when the block is already present.
func EnableRC(rcPath, pluginPath string) (bool, error) {
	data, err := os.ReadFile(rcPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if strings.Contains(string(data), rcMarker) {
		return false, nil
	}

	f, err := os.OpenFile(rcPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, err
	}
	if _, err := f.WriteString(rcBlock(pluginPath)); err != nil {
		f.Close()
		return false, fmt.Errorf("writing %s: %w", rcPath, err)
	}
	return true, f.Close()
}

// DisableRC removes the block written by EnableRC. The previous contents are
// saved to <rcPath>.cco-backup first. It returns the backup path, or "" when
// there was nothing to remove.
func DisableRC(rcPath string) (string, error) {
	data, err := os.ReadFile(rcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	content := string(data)
	if !strings.Contains(content, rcMarker) {
		return "", nil
	}

	backup := rcPath + ".cco-backup"
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	if err := os.WriteFile(rcPath, []byte(stripBlock(content)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", rcPath, err)
	}
	return backup, nil
}

// stripBlock drops every marker line through its closing "fi", plus the
// blank line EnableRC put in front of it.
func stripBlock(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == rcMarker:
			inBlock = true
			if n := len(out); n > 0 && strings.TrimSpace(out[n-1]) == "" {
				out = out[:n-1]
			}
		case inBlock:
			if trimmed == "fi" {
				inBlock = false
			}
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
