package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mj1618/producer/internal/output"
	"github.com/mj1618/producer/internal/platform"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fastConfig = `
launch_delay: 1ms
settle_delay: 1ms
terminals: [Terminal]
`

const demoScript = `
name: Demo
description: Prints hello
steps:
  - action: start
    app: iTerm2
  - action: write
    text: echo hello
  - action: wait
    duration: 0
  - action: quit
`

// resetFlags restores every flag to its default; rootCmd is shared between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with a fast config and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	configPath := filepath.Join(dir, "producer.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fastConfig), 0o644))

	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		output.OutputFormat = output.FormatNone
		output.PrettyOutput = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"apps", "do", "serve", "smoke"}
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRun_DryRun(t *testing.T) {
	out, err := execute(t, "", "--dry-run", writeScript(t, demoScript))
	require.NoError(t, err)

	for _, want := range []string{
		"🎬 Demo",
		"Prints hello",
		"  Part 1: start",
		`🍎 osascript -e tell application "iTerm2" to activate`,
		`tell application "iTerm2" to create window with default profile`,
		`keystroke "echo hello"`,
		`tell application "iTerm2" to quit`,
		"Script completed: 4 steps",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "to activate"), strings.Index(out, "to quit"))
}

func TestRun_DryRunWarnings(t *testing.T) {
	out, err := execute(t, "", "--dry-run", writeScript(t, `
steps:
  - {action: write, text: ls}
  - {action: juggle}
`))
	require.NoError(t, err)
	assert.Contains(t, out, "⚠️  No active app to write to")
	assert.Contains(t, out, "⚠️  Unknown action: juggle")
	assert.NotContains(t, out, "osascript")
}

func TestRun_FormatJSON(t *testing.T) {
	out, err := execute(t, "", "--dry-run", "--quiet", "--format", "json", writeScript(t, demoScript))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var report struct {
		Script string `json:"script"`
		OK     bool   `json:"ok"`
		Steps  int    `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &report))
	assert.Equal(t, "Demo", report.Script)
	assert.True(t, report.OK)
	assert.Equal(t, 4, report.Steps)
}

func TestRun_MissingFile(t *testing.T) {
	_, err := execute(t, "", "--dry-run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read script")
}

func TestRun_MalformedFile(t *testing.T) {
	_, err := execute(t, "", "--dry-run", writeScript(t, "steps: [\n"))
	require.Error(t, err)
}

func TestRun_RequiresOneArgument(t *testing.T) {
	_, err := execute(t, "")
	require.Error(t, err)
}

func TestRun_BadFormat(t *testing.T) {
	_, err := execute(t, "", "--dry-run", "--format", "xml", writeScript(t, demoScript))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRun_UnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("osascript is available on darwin")
	}
	_, err := execute(t, "", writeScript(t, demoScript))
	require.Error(t, err)
	assert.True(t, errors.Is(err, platform.ErrUnsupported))
}

func TestDo_DryRun(t *testing.T) {
	out, err := execute(t, `
- {action: start}
- {action: write, text: pwd}
- {action: bogus}
- {action: quit}
`, "do", "--dry-run", "--quiet")
	require.NoError(t, err)

	idx := strings.Index(out, "ok:")
	require.GreaterOrEqual(t, idx, 0, out)
	var report struct {
		Steps     int `yaml:"steps"`
		Completed int `yaml:"completed"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out[idx:]), &report))
	assert.Equal(t, 4, report.Steps)
	assert.Equal(t, 3, report.Completed)
}

func TestDo_StopOnError(t *testing.T) {
	out, err := execute(t, "- {action: bogus}\n- {action: start}\n", "do", "--dry-run", "--quiet", "--stop-on-error")
	require.NoError(t, err)
	assert.Contains(t, out, "steps: 1")
	assert.NotContains(t, out, "activate")
}

func TestDo_EmptyInput(t *testing.T) {
	_, err := execute(t, "", "do", "--dry-run")
	require.Error(t, err)
}

func TestApps(t *testing.T) {
	out, err := execute(t, "", "apps")
	require.NoError(t, err)
	assert.Contains(t, out, "iTerm2 (default)")
	assert.Contains(t, out, "Terminal")

	out, err = execute(t, "", "apps", "--format", "json")
	require.NoError(t, err)
	var entries []AppEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []AppEntry{{Name: "Terminal"}, {Name: "iTerm2", Default: true}}, entries)
}

func TestSmoke_DryRun(t *testing.T) {
	out, err := execute(t, "", "smoke", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Opening iTerm2 and running clear command...")
	assert.Contains(t, out, `keystroke "clear"`)
	assert.Contains(t, out, "iTerm2 automation successful!")
}

func TestSmokeScript(t *testing.T) {
	s := smokeScript("iTerm2")
	var actions []string
	for _, st := range s.Steps() {
		actions = append(actions, st.Action)
	}
	assert.Equal(t, []string{"start", "wait", "write"}, actions)
}

func TestServe_BadTransport(t *testing.T) {
	_, err := execute(t, "", "serve", "--dry-run", "--transport", "smoke-signals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport")
}
