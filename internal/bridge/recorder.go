package bridge

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Recorder is an Invoker that never touches the OS. It keeps every script it
// receives, optionally echoes them to Out, and answers with Reply.
//
// It backs --dry-run and stands in for osascript in tests.
type Recorder struct {
	// Reply decides the result of each call. nil means ("", true).
	Reply func(script string) (string, bool)

	// Out, when set, receives a copy of every script.
	Out io.Writer

	mu      sync.Mutex
	scripts []string
}

// NewRecorder returns a Recorder that echoes scripts to out (which may be nil).
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{Out: out}
}

// Invoke implements Invoker.
func (r *Recorder) Invoke(_ context.Context, script string) (string, bool) {
	r.mu.Lock()
	r.scripts = append(r.scripts, script)
	reply := r.Reply
	r.mu.Unlock()

	if r.Out != nil {
		fmt.Fprintf(r.Out, "    🍎 osascript -e %s\n", oneLine(script))
	}
	if reply == nil {
		return "", true
	}
	return reply(script)
}

// Scripts returns a copy of all scripts received so far, in call order.
func (r *Recorder) Scripts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.scripts))
	copy(out, r.scripts)
	return out
}

// Reset forgets all recorded scripts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.scripts = nil
	r.mu.Unlock()
}

// FailOn returns a Reply func that reports an absent result for any script
// containing one of the given fragments and succeeds otherwise.
func FailOn(fragments ...string) func(string) (string, bool) {
	return func(script string) (string, bool) {
		for _, f := range fragments {
			if strings.Contains(script, f) {
				return "", false
			}
		}
		return "", true
	}
}

// oneLine collapses a multi-line script so dry-run output stays readable.
func oneLine(script string) string {
	lines := strings.Split(script, "\n")
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ⏎ ")
}
