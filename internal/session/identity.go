package session

import (
	"slices"
	"strconv"
	"strings"
)

// Placeholders used when a signal is missing. They keep the identifier
// non-empty and stable; unrelated sessions lacking every signal collide.
const (
	unknownPPID     = "unknown"
	noTTY           = "no_tty"
	idPrefix        = "session"
	placeholderTier = "placeholder"
)

// Tier is one step of the terminal discriminator fallback chain.
type Tier struct {
	Name    string
	Extract func(Env) (string, bool)
}

var tiers = []Tier{
	envTier("window", "WINDOWID", "KITTY_WINDOW_ID"),
	envTier("pane", "TMUX_PANE", "ZELLIJ_PANE_ID", "WEZTERM_PANE"),
	envTier("terminal-session", "TERM_SESSION_ID", "ITERM_SESSION_ID", "WT_SESSION"),
	{Name: "tty", Extract: ttyName},
	envTier("shell-level", "BASH_SUBSHELL", "SHLVL"),
}

// Tiers returns the discriminator chain in the order it is tried.
func Tiers() []Tier { return slices.Clone(tiers) }

// DeriveID returns the identifier of the terminal session env belongs to.
// It never fails and never returns an empty string.
func DeriveID(env Env) string {
	id, _ := Explain(env)
	return id
}

// Explain is DeriveID that also names the tier which supplied the terminal
// discriminator.
func Explain(env Env) (id, tier string) {
	disc, tier := noTTY, placeholderTier
	for _, t := range tiers {
		if v, ok := t.Extract(env); ok {
			disc, tier = v, t.Name
			break
		}
	}
	return clean(idPrefix + "_" + parentPID(env) + "_" + disc), tier
}

func parentPID(env Env) string {
	if v := clean(env.Getenv("PPID")); v != "" {
		return v
	}
	if pid := env.Getppid(); pid > 0 {
		return strconv.Itoa(pid)
	}
	return unknownPPID
}

// envTier yields the first variable among keys that survives cleaning.
func envTier(name string, keys ...string) Tier {
	return Tier{
		Name: name,
		Extract: func(env Env) (string, bool) {
			for _, k := range keys {
				if v := clean(env.Getenv(k)); v != "" {
					return v, true
				}
			}
			return "", false
		},
	}
}

// ttyName turns /dev/pts/3 into pts_3.
func ttyName(env Env) (string, bool) {
	path, ok := env.TTY()
	if !ok {
		return "", false
	}
	name := strings.ReplaceAll(strings.ReplaceAll(path, "/dev/", ""), "/", "_")
	if name = clean(name); name == "" {
		return "", false
	}
	return name, true
}

// clean keeps ASCII letters, digits and underscores.
func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ValidID reports whether id could have been produced by DeriveID, which
// also guarantees it is safe to use as a file name.
func ValidID(id string) bool {
	return id != "" && clean(id) == id
}
