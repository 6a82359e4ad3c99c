package session

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
)

// ttyTimeout bounds the tty(1) query so a wedged terminal never stalls a prompt.
const ttyTimeout = 2 * time.Second

// Env is the ambient process state a session identifier is derived from.
type Env interface {
	Getenv(key string) string
	Getppid() int
	// TTY reports the controlling terminal device path. ok is false when the
	// process has no terminal or the query utility is unavailable.
	TTY() (path string, ok bool)
}

// SystemEnv reads the real process environment and controlling terminal.
type SystemEnv struct{}

func (SystemEnv) Getenv(key string) string { return os.Getenv(key) }

func (SystemEnv) Getppid() int { return os.Getppid() }

// TTY runs tty(1) against the first standard stream attached to a terminal.
// The capture hook feeds output on stdin, so stderr is checked as well.
func (SystemEnv) TTY() (string, bool) {
	for _, f := range []*os.File{os.Stdin, os.Stderr, os.Stdout} {
		if f != nil && term.IsTerminal(f.Fd()) {
			return queryTTY(f)
		}
	}
	return "", false
}

func queryTTY(f *os.File) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), ttyTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tty")
	cmd.Stdin = f
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	path := strings.TrimSpace(string(out))
	if path == "" || path == "not a tty" {
		return "", false
	}
	return path, true
}

// StaticEnv is a fixed environment. Zero PPID and empty Terminal mean
// "unavailable".
type StaticEnv struct {
	Vars     map[string]string
	PPID     int
	Terminal string
}

func (e StaticEnv) Getenv(key string) string { return e.Vars[key] }

func (e StaticEnv) Getppid() int { return e.PPID }

func (e StaticEnv) TTY() (string, bool) { return e.Terminal, e.Terminal != "" }
