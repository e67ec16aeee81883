// Package runner interprets producer scripts: it walks the steps in order,
// keeps track of the current app, and dispatches each action to it.
//
// The interpreter is a two-state machine. It starts with no active app; a
// start step (or a group with an app binding) makes an app current, and a
// quit step clears it again. Steps that need an app are skipped with a
// warning while none is current. No step failure stops the run.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mj1618/producer/internal/apps"
	"github.com/mj1618/producer/internal/script"
	"github.com/mj1618/producer/internal/ui"
)

// State is the interpreter state.
type State int

const (
	NoActiveApp State = iota
	AppActive
)

func (s State) String() string {
	if s == AppActive {
		return "app-active"
	}
	return "no-active-app"
}

// DefaultDuration is the wait, in seconds, for a wait step without duration.
const DefaultDuration = 0.5

// DefaultPosition is used by position steps without a position.
const DefaultPosition = "center center"

// Resolver looks up the App for a name. *apps.Registry implements it.
type Resolver interface {
	Get(name string) apps.App
}

// Options configures an Interpreter.
type Options struct {
	// DefaultApp is resolved for start steps that name no app.
	DefaultApp string
	// DefaultDuration is the wait for wait steps without duration, in
	// seconds. Zero means DefaultDuration.
	DefaultDuration float64
	// CloseClearsCurrent makes close leave the interpreter with no active
	// app, as quit does. By default the closed app stays current.
	CloseClearsCurrent bool
	// Sleep is used for wait steps while no app is current.
	Sleep   apps.Sleeper
	Printer *ui.Printer
	Logger  *log.Logger
}

// Interpreter runs script steps against apps. It is not safe for
// concurrent use.
type Interpreter struct {
	resolver Resolver
	opts     Options
	current  apps.App
}

// New returns an Interpreter in the NoActiveApp state.
func New(resolver Resolver, opts Options) *Interpreter {
	if opts.DefaultApp == "" {
		opts.DefaultApp = apps.DefaultTerminal
	}
	if opts.DefaultDuration == 0 {
		opts.DefaultDuration = DefaultDuration
	}
	if opts.Sleep == nil {
		opts.Sleep = apps.Sleep
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Interpreter{resolver: resolver, opts: opts}
}

// Current returns the current app, or nil when no app is active.
func (in *Interpreter) Current() apps.App {
	return in.current
}

// State reports whether an app is current.
func (in *Interpreter) State() State {
	if in.current == nil {
		return NoActiveApp
	}
	return AppActive
}

// Reset returns the interpreter to NoActiveApp without touching any app.
func (in *Interpreter) Reset() {
	in.current = nil
}

// Run executes every part of s in order. It only fails when ctx is done;
// step problems are reported in the returned Report.
func (in *Interpreter) Run(ctx context.Context, s *script.Script) (*Report, error) {
	start := time.Now()
	report := &Report{Script: s.Name}
	for _, part := range s.Parts {
		if err := in.RunPart(ctx, part, report); err != nil {
			report.finish(start)
			return report, err
		}
	}
	report.finish(start)
	return report, nil
}

// RunSteps executes loose steps as one unnamed part. With stopOnError it
// stops after the first step that does not succeed.
func (in *Interpreter) RunSteps(ctx context.Context, steps []script.Step, stopOnError bool) (*Report, error) {
	start := time.Now()
	report := &Report{}
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			report.finish(start)
			return report, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		in.opts.Printer.Step(i+1, step.Action)
		res := in.Exec(ctx, step)
		res.Step = i + 1
		report.add(res)
		if stopOnError && !res.OK {
			break
		}
	}
	report.finish(start)
	return report, nil
}

// RunPart executes one part, appending a result per step to report.
func (in *Interpreter) RunPart(ctx context.Context, part script.Part, report *Report) error {
	if part.Name != "" {
		in.opts.Printer.Scene(part.Name, part.App)
	}
	if part.App != "" {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scene %q: %w", part.Name, err)
		}
		res := StepResult{Part: part.Name, Action: script.ActionStart, App: part.App, Implicit: true}
		res.Output, res.OK = in.activate(ctx, part.App)
		report.add(res)
	}

	for i, step := range part.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		in.opts.Printer.Step(i+1, step.Action)
		res := in.Exec(ctx, step)
		res.Part = part.Name
		res.Step = i + 1
		report.add(res)
	}
	return nil
}

// Exec dispatches a single step to the current app.
func (in *Interpreter) Exec(ctx context.Context, step script.Step) StepResult {
	started := time.Now()
	res := StepResult{Action: step.Action}
	in.opts.Logger.Debug("step", "action", step.Action, "state", in.State())

	switch step.Action {
	case script.ActionStart:
		name := step.App
		if name == "" {
			name = in.opts.DefaultApp
		}
		res.Output, res.OK = in.activate(ctx, name)

	case script.ActionWait, script.ActionSleep:
		d := apps.Seconds(step.DurationOr(in.opts.DefaultDuration))
		if in.current != nil {
			in.current.Wait(ctx, d)
		} else {
			in.opts.Sleep(ctx, d)
		}
		res.OK = true

	case script.ActionWrite:
		if in.requireApp(&res, "write to") {
			res.Output, res.OK = in.current.Write(ctx, step.Text, step.Params("action", "text"))
		}

	case script.ActionPosition:
		if in.requireApp(&res, "position") {
			spec := step.Text
			if spec == "" {
				spec = script.StringParam(step.Fields, "position", DefaultPosition)
			}
			res.Output, res.OK = in.current.Position(ctx, spec, step.Params("action", "text"))
		}

	case script.ActionCreateWindow:
		if in.requireApp(&res, "create a window in") {
			wc, ok := in.current.(apps.WindowCreator)
			if !ok {
				res.Warning = fmt.Sprintf("%s cannot create windows", in.current.Name())
				in.opts.Printer.Warn("%s", res.Warning)
				break
			}
			profile := step.Profile
			if profile == "" {
				profile = "default"
			}
			res.Output, res.OK = wc.CreateWindow(ctx, profile)
		}

	case script.ActionClose:
		if in.requireApp(&res, "close") {
			res.Output, res.OK = in.current.Close(ctx, step.Params("action"))
			if in.opts.CloseClearsCurrent {
				in.current = nil
			}
		}

	case script.ActionQuit:
		if in.requireApp(&res, "quit") {
			res.Output, res.OK = in.current.Quit(ctx, step.Params("action"))
			in.current = nil
		}

	default:
		res.Warning = fmt.Sprintf("Unknown action: %s", step.Action)
		in.opts.Printer.Warn("%s", res.Warning)
	}

	if in.current != nil {
		res.App = in.current.Name()
	}
	res.Elapsed = time.Since(started).Round(time.Millisecond).String()
	return res
}

// activate makes the app resolved for name current, starting it unless it
// already is the current app.
func (in *Interpreter) activate(ctx context.Context, name string) (string, bool) {
	app := in.resolver.Get(name)
	if in.current != nil && (in.current == app || in.current.Name() == app.Name()) {
		in.opts.Logger.Debug("app already current", "app", app.Name())
		return "", true
	}
	out, ok := app.Start(ctx)
	in.current = app
	return out, ok
}

// requireApp reports whether an app is current, recording and printing a
// warning when not.
func (in *Interpreter) requireApp(res *StepResult, verb string) bool {
	if in.current != nil {
		return true
	}
	res.Skipped = true
	res.Warning = "No active app to " + verb
	in.opts.Printer.Warn("%s", res.Warning)
	return false
}
