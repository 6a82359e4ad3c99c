package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print each command as it is captured, from any session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		records, err := store.Watch(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", store.Dir())
		for rec := range records {
			fmt.Fprintf(out, "%s  %s  %s\n", rec.Time().Format("15:04:05"), rec.SessionID, rec.Command)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
