// Package script loads producer scripts: YAML documents describing the steps
// to replay against a desktop application.
//
// A script names an ordered list of steps. The steps may be written in three
// shapes, which all reduce to an ordered list of parts:
//
//	steps:                       # flat list
//	  - action: start
//	  - action: write
//	    text: ls
//
//	steps:                       # group name -> steps
//	  setup:
//	    - action: start
//
//	steps:                       # list of groups
//	  - name: setup
//	    app: iTerm2
//	    steps:
//	      - action: write
//	        text: ls
//
// The top-level key "scenes" and the group key "parts" are accepted as
// aliases of "steps".
package script

import "maps"

// Step actions understood by the interpreter.
const (
	ActionStart        = "start"
	ActionWait         = "wait"
	ActionSleep        = "sleep" // alias of wait
	ActionWrite        = "write"
	ActionPosition     = "position"
	ActionCreateWindow = "create_window"
	ActionClose        = "close"
	ActionQuit         = "quit"
)

// Script is a parsed script file.
type Script struct {
	Name        string
	Description string
	Parts       []Part
}

// Part is a named, ordered group of steps. Flat step lists load as a single
// part with an empty Name.
type Part struct {
	Name string
	// App, when set, is started before the part's first step unless it is
	// already the current app.
	App   string
	Steps []Step
}

// Step is one directive. Fields holds every key of the step as written,
// including the ones decoded into the typed fields.
type Step struct {
	Action   string   `mapstructure:"action"`
	App      string   `mapstructure:"app"`
	Text     string   `mapstructure:"text"`
	Duration *float64 `mapstructure:"duration"`
	Target   string   `mapstructure:"target"`
	Profile  string   `mapstructure:"profile"`

	Fields map[string]any `mapstructure:"-"`
}

// Params returns a copy of the step's fields without the given keys.
func (s Step) Params(exclude ...string) map[string]any {
	out := make(map[string]any, len(s.Fields))
	maps.Copy(out, s.Fields)
	for _, k := range exclude {
		delete(out, k)
	}
	return out
}

// DurationOr returns the step duration in seconds, or def when unset.
func (s Step) DurationOr(def float64) float64 {
	if s.Duration == nil {
		return def
	}
	return *s.Duration
}

// Steps returns every step of the script in execution order.
func (s *Script) Steps() []Step {
	var out []Step
	for _, p := range s.Parts {
		out = append(out, p.Steps...)
	}
	return out
}
