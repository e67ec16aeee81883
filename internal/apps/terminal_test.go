package apps

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mj1618/producer/internal/bridge"
	"github.com/mj1618/producer/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleeps records requested durations without blocking.
type sleeps []time.Duration

func (s *sleeps) sleep(_ context.Context, d time.Duration) {
	*s = append(*s, d)
}

func newTestTerminal(rec *bridge.Recorder, slept *sleeps, logs io.Writer, opts TerminalOptions) *Terminal {
	if logs == nil {
		logs = io.Discard
	}
	opts.Sleep = slept.sleep
	opts.Logger = log.New(logs)
	return NewTerminal("iTerm2", rec, opts)
}

func screenReply(bounds string) func(string) (string, bool) {
	return func(script string) (string, bool) {
		if strings.Contains(script, `tell application "Finder"`) {
			return bounds, true
		}
		return "", true
	}
}

func TestTerminal_StartActivates(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	_, ok := term.Start(context.Background())
	require.True(t, ok)

	assert.Equal(t, []string{
		`tell application "iTerm2" to activate`,
		`tell application "iTerm2" to create window with default profile`,
	}, rec.Scripts())
	assert.Equal(t, sleeps{time.Second}, slept)
}

func TestTerminal_StartLaunchesWhenActivateFails(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	rec.Reply = bridge.FailOn("to activate")
	var slept sleeps
	var logs bytes.Buffer
	term := newTestTerminal(rec, &slept, &logs, TerminalOptions{})

	_, ok := term.Start(context.Background())
	require.True(t, ok)

	assert.Equal(t, []string{
		`tell application "iTerm2" to activate`,
		`tell application "iTerm2" to launch`,
		`tell application "iTerm2" to create window with default profile`,
	}, rec.Scripts())
	assert.Equal(t, sleeps{2 * time.Second, time.Second}, slept)
	assert.Contains(t, logs.String(), "trying to launch")
}

func TestTerminal_StartCustomDelays(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	rec.Reply = bridge.FailOn("to activate")
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{
		LaunchDelay: 3 * time.Second,
		SettleDelay: 250 * time.Millisecond,
	})

	term.Start(context.Background())
	assert.Equal(t, sleeps{3 * time.Second, 250 * time.Millisecond}, slept)
}

func TestTerminal_CreateWindowProfile(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.CreateWindow(context.Background(), "")
	term.CreateWindow(context.Background(), "Hotkey Window")

	assert.Equal(t, []string{
		`tell application "iTerm2" to create window with default profile`,
		`tell application "iTerm2" to create window with profile "Hotkey Window"`,
	}, rec.Scripts())
}

func TestTerminal_Write(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	_, ok := term.Write(context.Background(), "clear", nil)
	require.True(t, ok)

	scripts := rec.Scripts()
	require.Len(t, scripts, 1)
	assert.Contains(t, scripts[0], `tell application "System Events"`)
	assert.Contains(t, scripts[0], `keystroke "clear"`)
	assert.Contains(t, scripts[0], `key code 36`)
}

func TestTerminal_WriteLeavesQuotesUnescapedByDefault(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.Write(context.Background(), `echo "hi"`, nil)

	// Known boundary: the quote terminates the AppleScript string early.
	assert.Contains(t, rec.Scripts()[0], `keystroke "echo "hi""`)
}

func TestTerminal_WriteEscapes(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{EscapeText: true})

	term.Write(context.Background(), `echo "a\b"`, nil)
	assert.Contains(t, rec.Scripts()[0], `keystroke "echo \"a\\b\""`)

	rec.Reset()
	term.Write(context.Background(), `echo "raw"`, map[string]any{"escape": false})
	assert.Contains(t, rec.Scripts()[0], `keystroke "echo "raw""`)
}

func TestTerminal_WriteEscapeExtra(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.Write(context.Background(), `say "x"`, map[string]any{"escape": true})
	assert.Contains(t, rec.Scripts()[0], `keystroke "say \"x\""`)
}

func TestTerminal_PositionFallbackScreen(t *testing.T) {
	tests := []struct {
		spec     string
		position string
	}{
		{"center center", "{560, 240}"},
		{"top left", "{0, 0}"},
		{"top right", "{1120, 0}"},
		{"bottom left", "{0, 480}"},
		{"bottom right", "{1120, 480}"},
		{"10 20", "{10, 20}"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			rec := bridge.NewRecorder(nil)
			rec.Reply = bridge.FailOn(`tell application "Finder"`)
			var slept sleeps
			term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

			_, ok := term.Position(context.Background(), tt.spec, nil)
			require.True(t, ok)

			scripts := rec.Scripts()
			require.Len(t, scripts, 2)
			assert.Contains(t, scripts[0], "bounds of window of desktop")
			assert.Contains(t, scripts[1], "set position of window 1 to "+tt.position)
			assert.Contains(t, scripts[1], "set size of window 1 to {800, 600}")
		})
	}
}

func TestTerminal_PositionReadsScreen(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	rec.Reply = screenReply("0, 0, 1440, 900")
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.Position(context.Background(), "center center", nil)
	assert.Contains(t, rec.Scripts()[1], "set position of window 1 to {320, 150}")
}

func TestTerminal_PositionUnparseableScreen(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	rec.Reply = screenReply("missing value")
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.Position(context.Background(), "top right", nil)
	assert.Contains(t, rec.Scripts()[1], "set position of window 1 to {1120, 0}")
}

func TestTerminal_PositionConfiguredSizes(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{
		FallbackScreen: platform.Size{Width: 2560, Height: 1440},
		WindowSize:     platform.Size{Width: 1280, Height: 720},
	})

	term.Position(context.Background(), "center center", nil)
	assert.Contains(t, rec.Scripts()[1], "set position of window 1 to {640, 360}")
	assert.Contains(t, rec.Scripts()[1], "set size of window 1 to {1280, 720}")

	rec.Reset()
	term.Position(context.Background(), "bottom right", map[string]any{"width": 560, "height": 440})
	assert.Contains(t, rec.Scripts()[1], "set position of window 1 to {2000, 1000}")
	assert.Contains(t, rec.Scripts()[1], "set size of window 1 to {560, 440}")
}

func TestTerminal_PositionInvalidSpec(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	var logs bytes.Buffer
	term := newTestTerminal(rec, &slept, &logs, TerminalOptions{})

	out, ok := term.Position(context.Background(), "somewhere nice", nil)
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.Len(t, rec.Scripts(), 1, "only the screen query should run")
	assert.Contains(t, logs.String(), "invalid position format")
}

func TestTerminal_CloseAndQuit(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.Close(context.Background(), nil)
	term.Quit(context.Background(), nil)

	scripts := rec.Scripts()
	require.Len(t, scripts, 2)
	assert.Contains(t, scripts[0], "close current window")
	assert.Equal(t, `tell application "iTerm2" to quit`, scripts[1])
}

func TestTerminal_WaitUsesSleeper(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	var slept sleeps
	term := newTestTerminal(rec, &slept, nil, TerminalOptions{})

	term.Wait(context.Background(), Seconds(0.5))
	assert.Equal(t, sleeps{500 * time.Millisecond}, slept)
	assert.Empty(t, rec.Scripts())
}

func TestTerminal_SupportsAction(t *testing.T) {
	term := NewTerminal("", bridge.NewRecorder(nil), TerminalOptions{})
	assert.Equal(t, DefaultTerminal, term.Name())

	for _, a := range []string{"start", "write", "wait", "create_window", "position", "close", "quit"} {
		assert.True(t, term.SupportsAction(a), a)
	}
	assert.False(t, term.SupportsAction("scroll"))
}

func TestSleep_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Sleep(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEscapeString(t *testing.T) {
	assert.Equal(t, `plain`, EscapeString(`plain`))
	assert.Equal(t, `say \"hi\"`, EscapeString(`say "hi"`))
	assert.Equal(t, `C:\\tmp`, EscapeString(`C:\tmp`))
}
