package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/mj1618/producer/internal/output"
	"github.com/mj1618/producer/internal/platform"
	"github.com/mj1618/producer/internal/script"
	"github.com/mj1618/producer/internal/ui"
	"github.com/mj1618/producer/internal/watch"
	"github.com/spf13/cobra"
)

func runScript(cmd *cobra.Command, args []string) error {
	path := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	watchMode, _ := cmd.Flags().GetBool("watch")

	if !dryRun {
		if err := platform.CheckSupported(runtime.GOOS); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)
	printer.SetQuiet(quiet(cmd))
	s := newSession(newInvoker(dryRun, out), printer)

	ctx := cmd.Context()
	err := runFile(ctx, s, path, out)
	if !watchMode {
		return err
	}
	if err != nil {
		logger.Error("run failed", "path", path, "err", err)
	}

	w, err := watch.New(watch.Config{
		Path:   path,
		Logger: logger,
		OnChange: func(ctx context.Context, p string) error {
			// Each re-run starts without an app, like a fresh invocation.
			s.interp.Reset()
			return runFile(ctx, s, p, out)
		},
	})
	if err != nil {
		return err
	}
	printer.Info("👀 Watching %s (Ctrl-C to stop)", path)
	return w.Run(ctx)
}

// runFile loads and runs one script, then prints the report in the
// selected --format.
func runFile(ctx context.Context, s *session, path string, out io.Writer) error {
	sc, err := script.Load(path)
	if err != nil {
		return err
	}

	title := sc.Name
	if title == "" {
		title = filepath.Base(path)
	}
	s.printer.Title(title)
	s.printer.Description(sc.Description)

	report, err := s.interp.Run(ctx, sc)
	if err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}

	if report.OK {
		s.printer.Success("Script completed: %d steps", report.Steps)
	} else {
		s.printer.Success("Script completed with %d warning(s): %d/%d steps ok", report.Warnings, report.Completed, report.Steps)
	}
	return output.Fprint(out, report)
}
