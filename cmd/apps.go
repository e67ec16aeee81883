package cmd

import (
	"github.com/mj1618/producer/internal/output"
	"github.com/mj1618/producer/internal/ui"
	"github.com/spf13/cobra"
)

// AppEntry is one row of the apps listing.
type AppEntry struct {
	Name    string `yaml:"name"              json:"name"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the apps producer can drive",
	Long: `List the app names with a registered handler. Any other name used in a
script falls back to the default app.`,
	Args: cobra.NoArgs,
	RunE: runApps,
}

func init() {
	rootCmd.AddCommand(appsCmd)
}

func runApps(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	s := newSession(newInvoker(true, nil), ui.Discard())

	def := s.registry.Default().Name()
	names := s.registry.List()
	entries := make([]AppEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, AppEntry{Name: name, Default: name == def})
	}

	if output.OutputFormat != output.FormatNone {
		return output.Fprint(out, entries)
	}
	printer := ui.NewPrinter(out)
	for _, e := range entries {
		if e.Default {
			printer.Info("%s (default)", e.Name)
		} else {
			printer.Info("%s", e.Name)
		}
	}
	return nil
}
