// Package apps translates script actions into AppleScript for a specific
// target application.
package apps

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mj1618/producer/internal/bridge"
)

// App drives one named application.
//
// Each operation returns the bridge result; the boolean is the only success
// signal. A missing error message does not mean the action took effect.
type App interface {
	// Name is the application name used in AppleScript.
	Name() string
	Start(ctx context.Context) (string, bool)
	Write(ctx context.Context, text string, extra map[string]any) (string, bool)
	Wait(ctx context.Context, d time.Duration)
	Position(ctx context.Context, spec string, extra map[string]any) (string, bool)
	Close(ctx context.Context, extra map[string]any) (string, bool)
	Quit(ctx context.Context, extra map[string]any) (string, bool)
	// SupportsAction reports whether action is in the app's capability set.
	// It is informational; the interpreter does not check it before dispatch.
	SupportsAction(action string) bool
}

// WindowCreator is implemented by apps that can open a new window with a
// named profile.
type WindowCreator interface {
	CreateWindow(ctx context.Context, profile string) (string, bool)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration)

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Seconds converts a script duration in seconds to a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// base carries what every App needs: a name, a bridge and a clock.
type base struct {
	name    string
	invoker bridge.Invoker
	sleep   Sleeper
	logger  *log.Logger
}

func newBase(name string, invoker bridge.Invoker, sleep Sleeper, logger *log.Logger) base {
	if sleep == nil {
		sleep = Sleep
	}
	if logger == nil {
		logger = log.Default()
	}
	return base{name: name, invoker: invoker, sleep: sleep, logger: logger}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Wait(ctx context.Context, d time.Duration) {
	b.sleep(ctx, d)
}

func (b *base) SupportsAction(action string) bool {
	return slices.Contains([]string{"start", "write", "wait"}, action)
}

func (b *base) run(ctx context.Context, script string) (string, bool) {
	return b.invoker.Invoke(ctx, script)
}
