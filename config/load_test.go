package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) string { return "" }

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "LOX_PROMPT":
			return "lox>"
		case "LOX_STEPS":
			return "500"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple substitution",
			input:    "prompt: ${LOX_PROMPT}",
			expected: "prompt: lox>",
		},
		{
			name:     "with default (env set)",
			input:    "prompt: ${LOX_PROMPT:-> }",
			expected: "prompt: lox>",
		},
		{
			name:     "with default (env not set)",
			input:    "locale: ${UNSET_VAR:-en-GB}",
			expected: "locale: en-GB",
		},
		{
			name:     "multiple substitutions",
			input:    "x: ${LOX_PROMPT}${LOX_STEPS}",
			expected: "x: lox>500",
		},
		{
			name:     "unset without default",
			input:    "prompt: ${UNSET_VAR}",
			expected: "prompt: ",
		},
		{
			name:     "no substitution needed",
			input:    "static: value",
			expected: "static: value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "lox.yaml", `
repl:
  prompt: "lox> "
  history_file: .history
interpreter:
  max_steps: ${LOX_STEPS:-2000}
  locale: fr
output:
  errors: json
watch:
  debounce: 1s
`)

	cfg, path, err := LoadWithPath(configPath, noEnv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	absPath, _ := filepath.Abs(configPath)
	if path != absPath {
		t.Errorf("expected path %q, got %q", absPath, path)
	}
	if cfg.BaseDir != dir {
		t.Errorf("expected base dir %q, got %q", dir, cfg.BaseDir)
	}
	if cfg.REPL.Prompt != "lox> " {
		t.Errorf("expected prompt 'lox> ', got %q", cfg.REPL.Prompt)
	}
	if want := filepath.Join(dir, ".history"); cfg.REPL.HistoryFile != want {
		t.Errorf("expected history file %q, got %q", want, cfg.REPL.HistoryFile)
	}
	if cfg.Interpreter.MaxSteps != 2000 {
		t.Errorf("expected max steps 2000, got %d", cfg.Interpreter.MaxSteps)
	}
	if cfg.Interpreter.Locale != "fr" {
		t.Errorf("expected locale fr, got %q", cfg.Interpreter.Locale)
	}
	if cfg.Output.Errors != "json" {
		t.Errorf("expected errors json, got %q", cfg.Output.Errors)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %s", cfg.Watch.Debounce)
	}
}

func TestLoadWithEnvInterpolation(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "lox.yaml", `
interpreter:
  max_call_depth: ${LOX_DEPTH:-64}
`)

	getenv := func(key string) string {
		if key == "LOX_DEPTH" {
			return "300"
		}
		return ""
	}

	cfg, err := Load(configPath, getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Interpreter.MaxCallDepth != 300 {
		t.Errorf("expected max call depth 300, got %d", cfg.Interpreter.MaxCallDepth)
	}

	cfg, err = Load(configPath, noEnv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Interpreter.MaxCallDepth != 64 {
		t.Errorf("expected max call depth 64 (default), got %d", cfg.Interpreter.MaxCallDepth)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"invalid yaml", "repl: [unclosed", "failed to parse config"},
		{"wrong type", "interpreter:\n  max_steps: many\n", "failed to parse config"},
		{"invalid value", "output:\n  errors: xml\n", "configuration errors"},
		{"bad duration", "watch:\n  debounce: soon\n", "failed to parse config"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, "bad"+string(rune('a'+i))+".yaml", tt.content)
			_, err := Load(path, noEnv)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("expected error containing %q, got %q", tt.errSubstr, err.Error())
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	if _, err := resolveConfigPath("/nonexistent/path/lox.yaml", noEnv); err == nil {
		t.Error("expected error for nonexistent path")
	}

	dir := t.TempDir()
	configPath := writeConfig(t, dir, "custom.yaml", "")

	resolved, err := resolveConfigPath(configPath, noEnv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != configPath {
		t.Errorf("expected %q, got %q", configPath, resolved)
	}
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "env.yaml", "")

	getenv := func(key string) string {
		if key == "LOX_CONFIG" {
			return configPath
		}
		return ""
	}
	resolved, err := resolveConfigPath("", getenv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != configPath {
		t.Errorf("expected %q, got %q", configPath, resolved)
	}

	missing := func(key string) string {
		if key == "LOX_CONFIG" {
			return filepath.Join(dir, "missing.yaml")
		}
		return ""
	}
	if _, err := resolveConfigPath("", missing); err == nil || !strings.Contains(err.Error(), "LOX_CONFIG") {
		t.Errorf("expected LOX_CONFIG error, got %v", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", home)

	// Nothing to find: defaults.
	cfg, path, err := LoadWithPath("", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no config path, got %q", path)
	}
	if cfg.REPL.Prompt != Defaults().REPL.Prompt {
		t.Errorf("expected default config, got %+v", cfg)
	}

	// ~/.config/lox/lox.yaml
	xdgDir := filepath.Join(home, ".config", "lox")
	if err := os.MkdirAll(xdgDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, xdgDir, "lox.yaml", "repl:\n  prompt: home\n")
	cfg, err = Load("", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.REPL.Prompt != "home" {
		t.Errorf("expected prompt from home config, got %q", cfg.REPL.Prompt)
	}

	// ./lox.yaml wins over the home config.
	writeConfig(t, dir, "lox.yaml", "repl:\n  prompt: local\n")
	cfg, err = Load("", noEnv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.REPL.Prompt != "local" {
		t.Errorf("expected prompt from ./lox.yaml, got %q", cfg.REPL.Prompt)
	}
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		path     string
		expected string
	}{
		{"hist", filepath.Join("/base", "hist")},
		{"/abs/hist", "/abs/hist"},
		{"~/hist", filepath.Join(home, "hist")},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := resolvePath(tt.path, "/base"); got != tt.expected {
				t.Errorf("resolvePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
