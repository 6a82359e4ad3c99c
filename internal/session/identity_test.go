package session_test

import (
	"regexp"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/cco/internal/session"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// signalKeys are every environment variable the deriver consults.
var signalKeys = []string{
	"PPID", "WINDOWID", "KITTY_WINDOW_ID", "TMUX_PANE", "ZELLIJ_PANE_ID",
	"WEZTERM_PANE", "TERM_SESSION_ID", "ITERM_SESSION_ID", "WT_SESSION",
	"BASH_SUBSHELL", "SHLVL",
}

func generateEnv(t *rapid.T) session.StaticEnv {
	vars := map[string]string{}
	for _, k := range signalKeys {
		if rapid.Bool().Draw(t, "has_"+k) {
			vars[k] = rapid.String().Draw(t, k)
		}
	}
	env := session.StaticEnv{
		Vars: vars,
		PPID: rapid.IntRange(-1, 1<<22).Draw(t, "ppid"),
	}
	if rapid.Bool().Draw(t, "has_tty") {
		env.Terminal = rapid.SampledFrom([]string{"/dev/pts/3", "/dev/ttys004", "/dev/tty1", "/dev/", "??"}).Draw(t, "tty")
	}
	return env
}

// Feature: cco, Property: identifiers are non-empty and [A-Za-z0-9_]
func TestDeriveIDAlphabet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := generateEnv(t)
		id := session.DeriveID(env)
		if !idPattern.MatchString(id) {
			t.Fatalf("identifier %q has characters outside [A-Za-z0-9_]", id)
		}
		if !session.ValidID(id) {
			t.Fatalf("identifier %q is not a valid id", id)
		}
	})
}

// Feature: cco, Property: identical environments yield identical identifiers
func TestDeriveIDDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := generateEnv(t)
		if a, b := session.DeriveID(env), session.DeriveID(env); a != b {
			t.Fatalf("non-deterministic: %q vs %q", a, b)
		}
	})
}

func TestDeriveIDTiers(t *testing.T) {
	cases := []struct {
		name     string
		env      session.StaticEnv
		wantID   string
		wantTier string
	}{
		{
			name:     "window id wins over everything",
			env:      session.StaticEnv{Vars: map[string]string{"PPID": "42", "WINDOWID": "8388621", "TMUX_PANE": "%3"}, Terminal: "/dev/pts/1"},
			wantID:   "session_42_8388621",
			wantTier: "window",
		},
		{
			name:     "multiplexer pane",
			env:      session.StaticEnv{Vars: map[string]string{"TMUX_PANE": "%3", "TERM_SESSION_ID": "w0t0p0:ABC"}, PPID: 77},
			wantID:   "session_77_3",
			wantTier: "pane",
		},
		{
			name:     "terminal emulator session",
			env:      session.StaticEnv{Vars: map[string]string{"TERM_SESSION_ID": "w0t0p0:AB-CD"}, PPID: 77},
			wantID:   "session_77_w0t0p0ABCD",
			wantTier: "terminal-session",
		},
		{
			name:     "controlling terminal",
			env:      session.StaticEnv{Vars: map[string]string{"SHLVL": "2"}, PPID: 10, Terminal: "/dev/pts/3"},
			wantID:   "session_10_pts_3",
			wantTier: "tty",
		},
		{
			name:     "shell level",
			env:      session.StaticEnv{Vars: map[string]string{"SHLVL": "2"}, PPID: 10},
			wantID:   "session_10_2",
			wantTier: "shell-level",
		},
		{
			name:     "bash subshell before shlvl",
			env:      session.StaticEnv{Vars: map[string]string{"BASH_SUBSHELL": "0", "SHLVL": "2"}, PPID: 10},
			wantID:   "session_10_0",
			wantTier: "shell-level",
		},
		{
			name:     "nothing available",
			env:      session.StaticEnv{},
			wantID:   "session_unknown_no_tty",
			wantTier: "placeholder",
		},
		{
			name:     "punctuation-only signal is skipped",
			env:      session.StaticEnv{Vars: map[string]string{"TMUX_PANE": "%"}, PPID: 5},
			wantID:   "session_5_no_tty",
			wantTier: "placeholder",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, tier := session.Explain(tc.env)
			if id != tc.wantID {
				t.Errorf("id: got %q, want %q", id, tc.wantID)
			}
			if tier != tc.wantTier {
				t.Errorf("tier: got %q, want %q", tier, tc.wantTier)
			}
		})
	}
}

func TestTiersIndependently(t *testing.T) {
	byName := map[string]session.Tier{}
	for _, tier := range session.Tiers() {
		byName[tier.Name] = tier
	}

	if v, ok := byName["tty"].Extract(session.StaticEnv{Terminal: "/dev/ttys004"}); !ok || v != "ttys004" {
		t.Errorf("tty tier: got %q, %v", v, ok)
	}
	if _, ok := byName["tty"].Extract(session.StaticEnv{}); ok {
		t.Error("tty tier should be absent without a terminal")
	}
	if v, ok := byName["window"].Extract(session.StaticEnv{Vars: map[string]string{"KITTY_WINDOW_ID": "1"}}); !ok || v != "1" {
		t.Errorf("window tier: got %q, %v", v, ok)
	}
	if _, ok := byName["pane"].Extract(session.StaticEnv{Vars: map[string]string{"WINDOWID": "1"}}); ok {
		t.Error("pane tier should ignore WINDOWID")
	}
}

func TestTiersReturnsCopy(t *testing.T) {
	a := session.Tiers()
	a[0].Name = "mutated"
	if session.Tiers()[0].Name == "mutated" {
		t.Error("Tiers should return a copy")
	}
}

func TestPPIDEnvPreferredOverProcess(t *testing.T) {
	id := session.DeriveID(session.StaticEnv{Vars: map[string]string{"PPID": "123"}, PPID: 999})
	if !strings.HasPrefix(id, "session_123_") {
		t.Errorf("expected PPID variable to win, got %q", id)
	}
}
