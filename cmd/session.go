package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cco/internal/session"
)

var explainSession bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print the identifier of the current terminal session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, tier := session.Explain(sessionEnv)
		out := cmd.OutOrStdout()
		if !explainSession {
			fmt.Fprintln(out, id)
			return nil
		}
		fmt.Fprintf(out, "Session: %s\n", id)
		fmt.Fprintf(out, "Source:  %s\n", tier)
		return nil
	},
}

func init() {
	sessionCmd.Flags().BoolVar(&explainSession, "explain", false, "Also show which signal identified the terminal")
	rootCmd.AddCommand(sessionCmd)
}
