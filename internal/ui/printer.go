// Package ui prints the emoji-prefixed progress lines shown while a script
// runs.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	Purple  = lipgloss.Color("#9D61FF")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	DimGray = lipgloss.Color("#9CA3AF")
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	SceneStyle   = lipgloss.NewStyle().Bold(true)
	DimStyle     = lipgloss.NewStyle().Foreground(DimGray)
	WarningStyle = lipgloss.NewStyle().Foreground(Amber)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green).Bold(true)
)

// Printer writes progress lines to an io.Writer. A nil *Printer discards
// everything, which keeps callers free of nil checks.
type Printer struct {
	w     io.Writer
	quiet bool
}

// NewPrinter returns a Printer writing to w, or to stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

// Discard returns a Printer that prints nothing.
func Discard() *Printer {
	return &Printer{w: io.Discard, quiet: true}
}

// SetQuiet suppresses everything except warnings.
func (p *Printer) SetQuiet(quiet bool) {
	if p != nil {
		p.quiet = quiet
	}
}

// Title prints the banner for a script or command.
func (p *Printer) Title(title string) {
	if p == nil || p.quiet {
		return
	}
	fmt.Fprintln(p.w, TitleStyle.Render("🎬 "+title))
}

// Description prints a dimmed description line. Empty text prints nothing.
func (p *Printer) Description(text string) {
	if p == nil || p.quiet || text == "" {
		return
	}
	fmt.Fprintln(p.w, DimStyle.Render("   "+text))
}

// Scene prints a group header, with its app binding when set.
func (p *Printer) Scene(name, app string) {
	if p == nil || p.quiet {
		return
	}
	line := "🎬 Scene: " + name
	if app != "" {
		line += " (App: " + app + ")"
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, SceneStyle.Render(line))
}

// Step prints the line for step n (1-based) of the current part.
func (p *Printer) Step(n int, action string) {
	if p == nil || p.quiet {
		return
	}
	fmt.Fprintf(p.w, "  Part %d: %s\n", n, action)
}

// Warn prints a warning under the current step.
func (p *Printer) Warn(format string, args ...any) {
	if p == nil {
		return
	}
	fmt.Fprintln(p.w, WarningStyle.Render("    ⚠️  "+fmt.Sprintf(format, args...)))
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	if p == nil || p.quiet {
		return
	}
	fmt.Fprintln(p.w, fmt.Sprintf(format, args...))
}

// Success prints a completion line.
func (p *Printer) Success(format string, args ...any) {
	if p == nil || p.quiet {
		return
	}
	fmt.Fprintln(p.w, SuccessStyle.Render("✅ "+fmt.Sprintf(format, args...)))
}
