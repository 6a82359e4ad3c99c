package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cco/internal/clipboard"
	"github.com/fakeyudi/cco/internal/config"
	"github.com/fakeyudi/cco/internal/render"
	"github.com/fakeyudi/cco/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// sessionEnv and clipboardSink are the process boundaries; tests swap them.
var (
	sessionEnv    session.Env    = session.SystemEnv{}
	clipboardSink clipboard.Sink = clipboard.NewSystem()
)

var (
	printMode   bool
	commandOnly bool
	outputOnly  bool
	formatName  string
	sessionID   string
	debug       bool
	enableMode  bool
	disableMode bool
)

var rootCmd = &cobra.Command{
	Use:   "cco",
	Short: "Copy Command Output - copies the last terminal command output",
	Long: `cco copies the command you just ran and its output to the clipboard.

A shell hook (see 'cco enable') records every command with 'cco capture';
running 'cco' afterwards retrieves the latest capture of the current terminal
session, or the most recent capture of any session when this one has none.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd.ErrOrStderr())

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		env, err := config.LoadEnv()
		if err != nil {
			return fmt.Errorf("loading environment overrides: %w", err)
		}
		cfg = config.Merge(global, env)
		return cfg.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// --enable/--disable are kept as aliases of the subcommands.
		switch {
		case enableMode:
			return runEnable(cmd, "")
		case disableMode:
			return runDisable(cmd, "")
		}
		return runRetrieve(cmd)
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

func runRetrieve(cmd *cobra.Command) error {
	renderer, err := render.ForFormat(formatName)
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}

	id := sessionID
	if id == "" {
		id = session.DeriveID(sessionEnv)
	}
	rec, err := store.ReadLatest(id)
	if err != nil {
		return err
	}
	slog.Debug("retrieved record", "session", rec.SessionID, "current", id, "timestamp", rec.Timestamp)

	text, err := renderer.Render(rec, selectedPart())
	if err != nil {
		return err
	}
	return deliver(cmd, text, printMode)
}

// deliver prints text or copies it to the clipboard. If the clipboard fails
// the text is printed anyway so it is not lost, and the error is returned.
func deliver(cmd *cobra.Command, text []byte, toStdout bool) error {
	out := cmd.OutOrStdout()
	if toStdout || cfg.DefaultSink == config.SinkPrint {
		_, err := out.Write(text)
		return err
	}

	if err := clipboardSink.Copy(string(text)); err != nil {
		cmd.PrintErrf("Failed to copy to clipboard: %v\n", err)
		cmd.PrintErrln("Output:")
		out.Write(text)
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	cmd.PrintErrln("Successfully copied to clipboard")
	return nil
}

func selectedPart() render.Part {
	switch {
	case commandOnly:
		return render.PartCommand
	case outputOnly:
		return render.PartOutput
	}
	return render.PartAll
}

func openStore() (*session.Store, error) {
	if cfg.CacheDir != "" {
		return session.Open(cfg.CacheDir)
	}
	return session.OpenDefault()
}

// setupLogging routes slog to w. Debug output is enabled by --debug or
// CCO_DEBUG; otherwise only warnings are shown.
func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	if debug || os.Getenv("CCO_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func init() {
	rootCmd.Flags().BoolVarP(&printMode, "print", "p", false, "Print to stdout instead of copying to clipboard")
	rootCmd.Flags().BoolVarP(&commandOnly, "command-only", "c", false, "Only show the command, not the output")
	rootCmd.Flags().BoolVarP(&outputOnly, "output-only", "o", false, "Only show the output, not the command")
	rootCmd.Flags().StringVar(&formatName, "format", "text", "Output format: text, markdown, json or yaml")
	rootCmd.Flags().StringVar(&sessionID, "session", "", "Read this session id instead of the current one")
	rootCmd.Flags().BoolVar(&enableMode, "enable", false, "Enable cco shell hooks in the current shell")
	rootCmd.Flags().BoolVar(&disableMode, "disable", false, "Disable cco shell hooks in the current shell")
	rootCmd.MarkFlagsMutuallyExclusive("command-only", "output-only")
	rootCmd.MarkFlagsMutuallyExclusive("enable", "disable")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug information to stderr")
}
