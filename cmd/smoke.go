package cmd

import (
	"fmt"
	"runtime"

	"github.com/mj1618/producer/internal/platform"
	"github.com/mj1618/producer/internal/script"
	"github.com/mj1618/producer/internal/ui"
	"github.com/spf13/cobra"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Open the default terminal and run clear",
	Long: `Check that producer can drive the default terminal: start it, wait half
a second, then type "clear". Use this after granting Accessibility permission.`,
	Args: cobra.NoArgs,
	RunE: runSmoke,
}

func init() {
	rootCmd.AddCommand(smokeCmd)
	smokeCmd.Flags().Bool("dry-run", false, "Print the AppleScript instead of running it")
}

// smokeScript is the built-in check run by the smoke command.
func smokeScript(app string) *script.Script {
	half := 0.5
	return &script.Script{
		Name: "Smoke test",
		Parts: []script.Part{{
			Steps: []script.Step{
				{Action: script.ActionStart, App: app},
				{Action: script.ActionWait, Duration: &half},
				{Action: script.ActionWrite, Text: "clear"},
			},
		}},
	}
}

func runSmoke(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !dryRun {
		if err := platform.CheckSupported(runtime.GOOS); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)
	printer.SetQuiet(quiet(cmd))
	s := newSession(newInvoker(dryRun, out), printer)

	printer.Title("Smoke test")
	printer.Info("Opening %s and running clear command...", cfg.DefaultApp)
	report, err := s.interp.Run(cmd.Context(), smokeScript(cfg.DefaultApp))
	if err != nil {
		return err
	}
	if !report.OK {
		return fmt.Errorf("smoke test failed: %d/%d steps ok", report.Completed, report.Steps)
	}
	printer.Success("%s automation successful!", cfg.DefaultApp)
	return nil
}
