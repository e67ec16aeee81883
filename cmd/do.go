package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/mj1618/producer/internal/output"
	"github.com/mj1618/producer/internal/platform"
	"github.com/mj1618/producer/internal/script"
	"github.com/mj1618/producer/internal/ui"
	"github.com/spf13/cobra"
)

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute steps piped on stdin",
	Long: `Execute a YAML list of steps read from stdin, without a script file.

Steps run in order against the same interpreter a script uses. By default
every step runs even when an earlier one fails; --stop-on-error stops at the
first step that does not succeed. A report is printed when done (YAML unless
--format says otherwise).

Example:
  producer do <<'EOF'
  - {action: start, app: iTerm2}
  - {action: write, text: "echo hello"}
  - {action: wait, duration: 1}
  - {action: quit}
  EOF`,
	Args: cobra.NoArgs,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().Bool("dry-run", false, "Print the AppleScript instead of running it")
	doCmd.Flags().Bool("stop-on-error", false, "Stop at the first step that fails")
}

func runDo(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	if !dryRun {
		if err := platform.CheckSupported(runtime.GOOS); err != nil {
			return err
		}
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	sc, err := script.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse steps: %w", err)
	}
	steps := sc.Steps()
	if len(steps) == 0 {
		return fmt.Errorf("no steps provided, pipe a YAML list of steps")
	}

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)
	printer.SetQuiet(quiet(cmd))
	s := newSession(newInvoker(dryRun, out), printer)

	report, err := s.interp.RunSteps(cmd.Context(), steps, stopOnError)
	if err != nil {
		return err
	}

	if output.OutputFormat == output.FormatNone {
		return output.PrintYAML(out, report)
	}
	return output.Fprint(out, report)
}
