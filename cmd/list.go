package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cco/internal/render"
	"github.com/fakeyudi/cco/internal/session"
	"github.com/fakeyudi/cco/internal/tui"
)

var plainList bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse the latest capture of every session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		records, err := store.List()
		if err != nil {
			return err
		}
		current := session.DeriveID(sessionEnv)

		if plainList || !term.IsTerminal(os.Stdout.Fd()) {
			printRecords(cmd.OutOrStdout(), records, current)
			return nil
		}

		res, err := tui.Run(records, current)
		if err != nil {
			return err
		}
		switch res.Action {
		case tui.ActionCopy, tui.ActionPrint:
			text, err := (&render.TextRenderer{}).Render(res.Record, render.PartAll)
			if err != nil {
				return err
			}
			return deliver(cmd, text, res.Action == tui.ActionPrint)
		}
		return nil
	},
}

// printRecords writes one line per record, newest first. The current
// session is marked with '*'.
func printRecords(w io.Writer, records []session.Record, current string) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no captured output")
		return
	}
	for _, rec := range records {
		mark := " "
		if rec.SessionID == current {
			mark = "*"
		}
		command := rec.Command
		if i := strings.IndexByte(command, '\n'); i >= 0 {
			command = command[:i] + " …"
		}
		fmt.Fprintf(w, "%s %-32s  %-16s  %s\n", mark, rec.SessionID, humanize.Time(rec.Time()), command)
	}
}

func init() {
	listCmd.Flags().BoolVar(&plainList, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(listCmd)
}
