// Package sanitize turns raw terminal output into plain text fit for storage.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Strip decodes raw as UTF-8, replacing invalid sequences, and removes
// terminal control sequences. Carriage-return redraws (progress bars) keep
// only the text written last on each line.
func Strip(raw []byte) string {
	s := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	return ansi.Strip(collapseRedraws(s))
}

// Command replaces invalid UTF-8 in a command line, so the text stored for
// it reads back unchanged.
func Command(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// collapseRedraws normalizes CRLF and keeps the text after the last bare
// carriage return of each line.
func collapseRedraws(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !strings.Contains(s, "\r") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if j := strings.LastIndexByte(line, '\r'); j >= 0 {
			line = line[j+1:]
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Truncate keeps the last max bytes of s without splitting a rune. A max of
// zero or less disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
