package cmd

import (
	"io"

	"github.com/mj1618/producer/internal/apps"
	"github.com/mj1618/producer/internal/bridge"
	"github.com/mj1618/producer/internal/runner"
	"github.com/mj1618/producer/internal/ui"
)

// session is one wired stack: bridge, app registry and interpreter.
type session struct {
	invoker  bridge.Invoker
	registry *apps.Registry
	interp   *runner.Interpreter
	printer  *ui.Printer
}

// newInvoker returns the osascript runner, or a Recorder echoing every
// script to out when dryRun is set.
func newInvoker(dryRun bool, out io.Writer) bridge.Invoker {
	if dryRun {
		return bridge.NewRecorder(out)
	}
	return bridge.New(cfg.Osascript, logger)
}

func newSession(invoker bridge.Invoker, printer *ui.Printer) *session {
	opts := cfg.TerminalOptions()
	opts.Logger = logger

	def := apps.NewTerminal(cfg.DefaultApp, invoker, opts)
	var regOpts []apps.RegistryOption
	if cfg.WarnOnFallback {
		regOpts = append(regOpts, apps.WithFallbackWarning(logger))
	}
	registry := apps.NewRegistry(def, regOpts...)
	for _, name := range cfg.Terminals {
		if name != "" && name != def.Name() {
			registry.Register(name, apps.NewTerminal(name, invoker, opts))
		}
	}

	interp := runner.New(registry, runner.Options{
		DefaultApp:         cfg.DefaultApp,
		DefaultDuration:    cfg.DefaultDuration,
		CloseClearsCurrent: cfg.CloseClearsCurrent,
		Printer:            printer,
		Logger:             logger,
	})

	return &session{invoker: invoker, registry: registry, interp: interp, printer: printer}
}
