package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cco/internal/shell"
)

var enableCmd = &cobra.Command{
	Use:       "enable [bash|zsh]",
	Short:     "Install the capture hook for your shell",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: shell.Supported,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnable(cmd, firstArg(args))
	},
}

var disableCmd = &cobra.Command{
	Use:       "disable [bash|zsh]",
	Short:     "Remove the capture hook from your shell",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: shell.Supported,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDisable(cmd, firstArg(args))
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func resolveShell(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	return shell.DetectShell(os.Getenv)
}

func runEnable(cmd *cobra.Command, name string) error {
	sh, err := resolveShell(name)
	if err != nil {
		return err
	}
	pluginPath, err := shell.Install(sh)
	if err != nil {
		return err
	}
	rc, err := shell.RCPath(sh)
	if err != nil {
		return err
	}
	added, err := shell.EnableRC(rc, pluginPath)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rc, err)
	}

	out := cmd.OutOrStdout()
	if !added {
		fmt.Fprintf(out, "cco is already enabled for %s\n", sh)
		return nil
	}
	fmt.Fprintf(out, "\n  ✓ Plugin written to %s\n", pluginPath)
	fmt.Fprintf(out, "  ✓ Hook added to %s\n", rc)
	fmt.Fprintf(out, "\n  Restart your shell or run: source %s\n\n", rc)
	return nil
}

func runDisable(cmd *cobra.Command, name string) error {
	sh, err := resolveShell(name)
	if err != nil {
		return err
	}
	rc, err := shell.RCPath(sh)
	if err != nil {
		return err
	}
	backup, err := shell.DisableRC(rc)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rc, err)
	}
	if err := shell.Uninstall(sh); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if backup == "" {
		fmt.Fprintf(out, "cco is not enabled in %s\n", rc)
		return nil
	}
	fmt.Fprintf(out, "cco disabled for %s! Restart your shell to apply changes.\n", sh)
	fmt.Fprintf(out, "Backup saved as: %s\n", backup)
	return nil
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
