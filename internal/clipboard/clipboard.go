// Package clipboard delivers retrieved output to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/x/term"
)

// ErrUnavailable is returned when no clipboard backend accepted the text.
var ErrUnavailable = errors.New("no clipboard available")

// Sink receives text destined for the clipboard.
type Sink interface {
	Copy(text string) error
}

// System copies through the platform clipboard utilities (xclip, xsel,
// wl-copy, pbcopy or the Windows API). When none works and Terminal is a
// terminal, it falls back to an OSC 52 escape, which terminals honor over
// SSH as well.
type System struct {
	// Terminal receives the OSC 52 sequence. Nil disables the fallback.
	Terminal *os.File
}

// NewSystem returns a System sink that falls back to OSC 52 on stderr.
func NewSystem() *System {
	return &System{Terminal: os.Stderr}
}

func (s *System) Copy(text string) error {
	var native error
	if clipboard.Unsupported {
		native = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	} else if native = clipboard.WriteAll(text); native == nil {
		return nil
	}

	if s.Terminal != nil && term.IsTerminal(s.Terminal.Fd()) {
		if err := writeOSC52(s.Terminal, text); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, native)
}

// writeOSC52 emits the copy sequence, wrapped for tmux or screen when
// running inside one.
func writeOSC52(w io.Writer, text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}

// Func adapts a function to Sink.
type Func func(text string) error

func (f Func) Copy(text string) error { return f(text) }
