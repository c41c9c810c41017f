package config

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.REPL.Prompt != "> " {
		t.Errorf("expected default prompt '> ', got %q", cfg.REPL.Prompt)
	}
	if cfg.REPL.HistoryLimit != 1000 {
		t.Errorf("expected default history limit 1000, got %d", cfg.REPL.HistoryLimit)
	}
	if cfg.Interpreter.MaxCallDepth != 1024 {
		t.Errorf("expected default max call depth 1024, got %d", cfg.Interpreter.MaxCallDepth)
	}
	if cfg.Interpreter.MaxSteps != 0 {
		t.Errorf("expected unlimited steps by default, got %d", cfg.Interpreter.MaxSteps)
	}
	if cfg.Output.Errors != "text" {
		t.Errorf("expected default error format 'text', got %q", cfg.Output.Errors)
	}
	if cfg.Watch.Debounce != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %s", cfg.Watch.Debounce)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestParseSections(t *testing.T) {
	yamlData := `
repl:
  prompt: "lox> "
  history_limit: 50
interpreter:
  max_steps: 100000
  max_call_depth: 200
  locale: de-DE
output:
  errors: json
watch:
  debounce: 250ms
`
	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(yamlData), cfg); err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if cfg.REPL.Prompt != "lox> " || cfg.REPL.HistoryLimit != 50 {
		t.Errorf("repl = %+v", cfg.REPL)
	}
	if cfg.Interpreter.MaxSteps != 100000 || cfg.Interpreter.MaxCallDepth != 200 {
		t.Errorf("interpreter = %+v", cfg.Interpreter)
	}
	if cfg.Output.Errors != "json" {
		t.Errorf("output.errors = %q", cfg.Output.Errors)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("watch.debounce = %s", cfg.Watch.Debounce)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	base, _ := cfg.Interpreter.LocaleTag().Base()
	if base.String() != "de" {
		t.Errorf("LocaleTag() base = %s, want de", base)
	}
}

func TestPartialSectionKeepsDefaults(t *testing.T) {
	cfg := Defaults()
	if err := yaml.Unmarshal([]byte("interpreter:\n  max_steps: 5\n"), cfg); err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	if cfg.Interpreter.MaxCallDepth != 1024 || cfg.Interpreter.Locale != "en" {
		t.Errorf("defaults lost: %+v", cfg.Interpreter)
	}
	if cfg.REPL.Prompt != "> " {
		t.Errorf("repl prompt = %q", cfg.REPL.Prompt)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"negative history limit", func(c *Config) { c.REPL.HistoryLimit = -1 }, "invalid repl.history_limit"},
		{"negative steps", func(c *Config) { c.Interpreter.MaxSteps = -5 }, "invalid interpreter.max_steps"},
		{"negative depth", func(c *Config) { c.Interpreter.MaxCallDepth = -1 }, "invalid interpreter.max_call_depth"},
		{"bad locale", func(c *Config) { c.Interpreter.Locale = "not a locale!!" }, "invalid interpreter.locale"},
		{"bad error format", func(c *Config) { c.Output.Errors = "xml" }, "invalid output.errors: xml"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "invalid watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), "configuration errors:\n  - ") {
				t.Errorf("unexpected error format: %v", err)
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("expected error containing %q, got %q", tt.errSubstr, err.Error())
			}
		})
	}
}

func TestValidationReportsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Interpreter.MaxSteps = -1
	cfg.Output.Errors = "yaml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n  - "); got != 2 {
		t.Errorf("expected 2 errors, got %d: %v", got, err)
	}
}

func TestLocaleTagFallback(t *testing.T) {
	c := InterpreterConfig{Locale: "not a locale!!"}
	if c.LocaleTag() != language.English {
		t.Errorf("LocaleTag() = %s, want en", c.LocaleTag())
	}
}
