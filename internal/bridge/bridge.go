// Package bridge runs AppleScript through the osascript command line tool.
//
// Every call spawns one osascript process and blocks until it exits. There is
// no timeout: a hung target application hangs the caller until ctx is
// cancelled.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// DefaultPath is the osascript binary used when none is configured.
const DefaultPath = "osascript"

// Invoker executes a single AppleScript source string.
//
// The boolean result is the only success signal. A failed call has already
// been reported by the Invoker and yields ("", false).
type Invoker interface {
	Invoke(ctx context.Context, script string) (string, bool)
}

// Runner executes AppleScript via osascript -e.
type Runner struct {
	path   string
	logger *log.Logger
}

// New creates a Runner bound to the given osascript binary.
func New(path string, logger *log.Logger) *Runner {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{path: path, logger: logger}
}

// Path returns the osascript binary this runner executes.
func (r *Runner) Path() string {
	return r.path
}

// Run executes script and returns its standard output with trailing
// whitespace removed. A non-zero exit returns an *Error carrying stderr.
func (r *Runner) Run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, r.path, "-e", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{
			Script: script,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return strings.TrimRightFunc(stdout.String(), unicode.IsSpace), nil
}

// Invoke implements Invoker. Failures are logged with the captured stderr
// and reported as an absent result.
func (r *Runner) Invoke(ctx context.Context, script string) (string, bool) {
	r.logger.Debug("osascript", "script", script)

	out, err := r.Run(ctx, script)
	if err != nil {
		var bridgeErr *Error
		if errors.As(err, &bridgeErr) && bridgeErr.Stderr != "" {
			r.logger.Error("AppleScript error", "stderr", bridgeErr.Stderr)
		} else {
			r.logger.Error("AppleScript error", "err", err)
		}
		return "", false
	}
	return out, true
}

// Error represents an osascript failure.
type Error struct {
	Script string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("osascript failed: %v", e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
