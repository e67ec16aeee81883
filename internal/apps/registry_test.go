package apps

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mj1618/producer/internal/bridge"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_DefaultIsSeeded(t *testing.T) {
	term := NewTerminal(DefaultTerminal, bridge.NewRecorder(nil), TerminalOptions{})
	reg := NewRegistry(term)

	assert.Equal(t, []string{"iTerm2"}, reg.List())
	assert.Same(t, term, reg.Get("iTerm2"))
	assert.Same(t, term, reg.Default())
}

func TestRegistry_UnregisteredFallsBackSilently(t *testing.T) {
	var logs bytes.Buffer
	term := NewTerminal(DefaultTerminal, bridge.NewRecorder(nil), TerminalOptions{Logger: log.New(&logs)})
	reg := NewRegistry(term)
	reg.logger = log.New(&logs)

	app := reg.Get("Terminal")
	assert.NotNil(t, app)
	assert.Equal(t, "iTerm2", app.Name())
	assert.Empty(t, logs.String())

	assert.Same(t, term, reg.Get(""))
}

func TestRegistry_FallbackWarning(t *testing.T) {
	var logs bytes.Buffer
	term := NewTerminal(DefaultTerminal, bridge.NewRecorder(nil), TerminalOptions{})
	reg := NewRegistry(term, WithFallbackWarning(log.New(&logs)))

	app := reg.Get("Warp")
	assert.Equal(t, "iTerm2", app.Name())
	assert.Contains(t, logs.String(), "app not registered")
	assert.Contains(t, logs.String(), "Warp")

	// The default app itself and the empty name never warn.
	logs.Reset()
	reg.Get("iTerm2")
	reg.Get("")
	assert.Empty(t, logs.String())
}

func TestRegistry_Register(t *testing.T) {
	rec := bridge.NewRecorder(nil)
	reg := NewRegistry(NewTerminal(DefaultTerminal, rec, TerminalOptions{}))

	iterm := NewTerminal("iTerm", rec, TerminalOptions{})
	reg.Register("iTerm", iterm)
	assert.Same(t, iterm, reg.Get("iTerm"))
	assert.Equal(t, []string{"iTerm", "iTerm2"}, reg.List())

	replacement := NewTerminal("iTerm", rec, TerminalOptions{})
	reg.Register("iTerm", replacement)
	assert.Same(t, replacement, reg.Get("iTerm"))
	assert.Len(t, reg.List(), 2)
}
