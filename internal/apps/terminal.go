package apps

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mj1618/producer/internal/bridge"
	"github.com/mj1618/producer/internal/platform"
	"github.com/mj1618/producer/internal/script"
)

// DefaultTerminal is the application driven when a script names none.
const DefaultTerminal = "iTerm2"

// keyCodeReturn is the macOS virtual key code for Return.
const keyCodeReturn = 36

const desktopBoundsScript = `tell application "Finder"
    set screenSize to bounds of window of desktop
end tell`

var terminalActions = []string{"start", "write", "wait", "create_window", "position", "close", "quit"}

// TerminalOptions configures a Terminal. Zero values take the defaults noted
// on each field.
type TerminalOptions struct {
	// LaunchDelay is waited after launching an app that could not be
	// activated. Default 2s.
	LaunchDelay time.Duration
	// SettleDelay is always waited before creating the first window. Default 1s.
	SettleDelay time.Duration
	// FallbackScreen is used when the desktop bounds cannot be read.
	// Default 1920x1080.
	FallbackScreen platform.Size
	// WindowSize is applied by Position. Default 800x600.
	WindowSize platform.Size
	// EscapeText escapes backslashes and double quotes before interpolating
	// text into a keystroke command. Off by default: text containing a quote
	// then produces a broken script.
	EscapeText bool

	Sleep  Sleeper
	Logger *log.Logger
}

// Terminal drives iTerm2 (or a compatible terminal emulator) through
// AppleScript and System Events.
type Terminal struct {
	base
	opts TerminalOptions
}

// NewTerminal returns a Terminal bound to name. An empty name binds to
// DefaultTerminal.
func NewTerminal(name string, invoker bridge.Invoker, opts TerminalOptions) *Terminal {
	if name == "" {
		name = DefaultTerminal
	}
	if opts.LaunchDelay == 0 {
		opts.LaunchDelay = 2 * time.Second
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = time.Second
	}
	if opts.FallbackScreen == (platform.Size{}) {
		opts.FallbackScreen = platform.FallbackScreen
	}
	if opts.WindowSize == (platform.Size{}) {
		opts.WindowSize = platform.DefaultWindow
	}
	return &Terminal{
		base: newBase(name, invoker, opts.Sleep, opts.Logger),
		opts: opts,
	}
}

// Start activates the application, launching it first when activation fails,
// then opens a new window with the default profile.
func (t *Terminal) Start(ctx context.Context) (string, bool) {
	if _, ok := t.run(ctx, fmt.Sprintf(`tell application "%s" to activate`, t.name)); !ok {
		t.logger.Warn("could not activate app, trying to launch", "app", t.name)
		t.run(ctx, fmt.Sprintf(`tell application "%s" to launch`, t.name))
		t.Wait(ctx, t.opts.LaunchDelay)
	}

	t.Wait(ctx, t.opts.SettleDelay)

	return t.CreateWindow(ctx, "default")
}

// CreateWindow opens a new window. "default" or "" selects the default
// profile; any other value names an iTerm2 profile.
func (t *Terminal) CreateWindow(ctx context.Context, profile string) (string, bool) {
	if profile == "" || profile == "default" {
		return t.run(ctx, fmt.Sprintf(`tell application "%s" to create window with default profile`, t.name))
	}
	return t.run(ctx, fmt.Sprintf(`tell application "%s" to create window with profile "%s"`, t.name, profile))
}

// Write types text into whatever window has keyboard focus and presses
// Return. Focus is not checked. The "escape" extra overrides
// TerminalOptions.EscapeText for one call.
func (t *Terminal) Write(ctx context.Context, text string, extra map[string]any) (string, bool) {
	if script.BoolParam(extra, "escape", t.opts.EscapeText) {
		text = EscapeString(text)
	}
	return t.run(ctx, fmt.Sprintf(`tell application "System Events"
    keystroke "%s"
    key code %d
end tell`, text, keyCodeReturn))
}

// Position moves and resizes the frontmost window. spec is a layout token
// such as "top right" or an "x y" pair. The "width" and "height" extras
// override the configured window size.
func (t *Terminal) Position(ctx context.Context, spec string, extra map[string]any) (string, bool) {
	screen := t.screenSize(ctx)
	window := platform.Size{
		Width:  script.IntParam(extra, "width", t.opts.WindowSize.Width),
		Height: script.IntParam(extra, "height", t.opts.WindowSize.Height),
	}

	pt, err := platform.ResolvePosition(spec, screen, window)
	if err != nil {
		t.logger.Warn("invalid position format", "position", spec, "layouts", strings.Join(platform.Layouts(), ", "))
		return "", false
	}

	return t.run(ctx, fmt.Sprintf(`tell application "System Events"
    set frontApp to first application process whose frontmost is true
    tell frontApp
        set position of window 1 to {%d, %d}
        set size of window 1 to {%d, %d}
    end tell
end tell`, pt.X, pt.Y, window.Width, window.Height))
}

// screenSize reads the desktop bounds from Finder, falling back to the
// configured screen size.
func (t *Terminal) screenSize(ctx context.Context) platform.Size {
	out, ok := t.run(ctx, desktopBoundsScript)
	if !ok || out == "" {
		return t.opts.FallbackScreen
	}
	b, err := platform.ParseDesktopBounds(out)
	if err != nil {
		t.logger.Debug("using fallback screen size", "err", err)
		return t.opts.FallbackScreen
	}
	return b.Size()
}

// Close closes the application's current window.
func (t *Terminal) Close(ctx context.Context, _ map[string]any) (string, bool) {
	return t.run(ctx, fmt.Sprintf(`tell application "%s"
    close current window
end tell`, t.name))
}

// Quit quits the application.
func (t *Terminal) Quit(ctx context.Context, _ map[string]any) (string, bool) {
	return t.run(ctx, fmt.Sprintf(`tell application "%s" to quit`, t.name))
}

func (t *Terminal) SupportsAction(action string) bool {
	return slices.Contains(terminalActions, action)
}

// EscapeString makes s safe to embed inside an AppleScript string literal.
func EscapeString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
