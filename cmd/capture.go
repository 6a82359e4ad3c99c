package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cco/internal/sanitize"
	"github.com/fakeyudi/cco/internal/session"
)

var captureCmd = &cobra.Command{
	Use:   "capture [--] <command...>",
	Short: "Record a command and its output (called by the shell hook)",
	Long: `capture stores the given command line together with the output read
from stdin as the latest record of the current terminal session.
Terminal escape sequences are stripped before storing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := sanitize.Command(strings.Join(args, " "))
		if strings.TrimSpace(command) == "" {
			slog.Debug("skipping blank command")
			return nil
		}

		matcher, err := GetConfig().IgnoreMatcher()
		if err != nil {
			return err
		}
		if matcher.Match(command) {
			slog.Debug("skipping ignored command", "command", command)
			return nil
		}

		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read command output: %w", err)
		}
		output := sanitize.Truncate(sanitize.Strip(raw), GetConfig().OutputLimit())

		store, err := openStore()
		if err != nil {
			return err
		}
		id := session.DeriveID(sessionEnv)
		if err := store.Write(id, command, output); err != nil {
			return err
		}
		slog.Debug("captured command", "session", id, "command", command, "bytes", len(output))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
}
