package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/mj1618/producer/internal/config"
	"github.com/mj1618/producer/internal/output"
	"github.com/mj1618/producer/internal/version"
	"github.com/spf13/cobra"
)

var (
	// cfg is the loaded configuration, set in PersistentPreRunE.
	cfg = config.Default()
	// logger carries diagnostics to stderr; stdout is for progress lines.
	logger = newLogger()
)

var rootCmd = &cobra.Command{
	Use:   "producer <script.yaml>",
	Short: "Replay a YAML script of terminal actions for coding videos",
	Long: `producer drives a terminal emulator (iTerm2 by default) on macOS through
AppleScript: it starts the app, types commands, waits, moves windows and quits,
following the steps of a YAML script.

Example script:
  name: Demo
  steps:
    - action: start
      app: iTerm2
    - action: write
      text: clear
    - action: wait
      duration: 0.5
    - action: quit`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScript,
}

// Execute runs the root command and exits 1 on any error.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.String()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/producer/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every AppleScript sent to osascript")
	rootCmd.PersistentFlags().String("format", "", "Print a report after the run: yaml, json (default: none)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print warnings")

	rootCmd.Flags().Bool("dry-run", false, "Print the AppleScript instead of running it")
	rootCmd.Flags().Bool("watch", false, "Re-run the script whenever the file changes")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		debug, _ := rootCmd.PersistentFlags().GetBool("debug")
		if debug {
			logger.SetLevel(log.DebugLevel)
			logger.Debug("debug logging enabled")
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, used, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		if used != "" {
			logger.Debug("loaded config", "path", used)
		}
		return nil
	}
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: config.AppName})
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}
