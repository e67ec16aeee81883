package runner

import "time"

// StepResult is the outcome of one dispatched step.
type StepResult struct {
	Part     string `yaml:"part,omitempty"     json:"part,omitempty"`
	Step     int    `yaml:"step"               json:"step"`
	Action   string `yaml:"action"             json:"action"`
	App      string `yaml:"app,omitempty"      json:"app,omitempty"`
	OK       bool   `yaml:"ok"                 json:"ok"`
	Implicit bool   `yaml:"implicit,omitempty" json:"implicit,omitempty"`
	Skipped  bool   `yaml:"skipped,omitempty"  json:"skipped,omitempty"`
	Output   string `yaml:"output,omitempty"   json:"output,omitempty"`
	Warning  string `yaml:"warning,omitempty"  json:"warning,omitempty"`
	Elapsed  string `yaml:"elapsed,omitempty"  json:"elapsed,omitempty"`
}

// Report summarizes a script run.
type Report struct {
	Script    string       `yaml:"script,omitempty" json:"script,omitempty"`
	OK        bool         `yaml:"ok"               json:"ok"`
	Steps     int          `yaml:"steps"            json:"steps"`
	Completed int          `yaml:"completed"        json:"completed"`
	Warnings  int          `yaml:"warnings"         json:"warnings"`
	Elapsed   string       `yaml:"elapsed"          json:"elapsed"`
	Results   []StepResult `yaml:"results"          json:"results"`
}

// Actions returns the action of every result, in order.
func (r *Report) Actions() []string {
	out := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, res.Action)
	}
	return out
}

func (r *Report) add(res StepResult) {
	r.Results = append(r.Results, res)
}

func (r *Report) finish(start time.Time) {
	r.Steps = len(r.Results)
	r.Completed = 0
	r.Warnings = 0
	for _, res := range r.Results {
		if res.OK {
			r.Completed++
		}
		if res.Warning != "" {
			r.Warnings++
		}
	}
	r.OK = r.Completed == r.Steps
	r.Elapsed = time.Since(start).Round(time.Millisecond).String()
}
