package config

import "time"

// Config represents the complete lox configuration
type Config struct {
	BaseDir     string            `yaml:"-"` // Directory containing config file, for resolving relative paths
	REPL        REPLConfig        `yaml:"repl"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Output      OutputConfig      `yaml:"output"`
	Watch       WatchConfig       `yaml:"watch"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt       string `yaml:"prompt"`        // Main prompt (default: "> ")
	HistoryFile  string `yaml:"history_file"`  // History path, relative to the config file (default: temp dir)
	HistoryLimit int    `yaml:"history_limit"` // Entries kept between sessions, 0 = unlimited (default: 1000)
}

// InterpreterConfig holds evaluation limits and locale
type InterpreterConfig struct {
	MaxSteps     int    `yaml:"max_steps"`      // Statements per run, 0 = unlimited
	MaxCallDepth int    `yaml:"max_call_depth"` // Nested calls before a stack overflow error (default: 1024)
	Locale       string `yaml:"locale"`         // BCP 47 tag used by formatNumber (default: "en")
}

// OutputConfig holds diagnostic output settings
type OutputConfig struct {
	Errors string `yaml:"errors"` // "text" or "json"
}

// WatchConfig holds --watch settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // Quiet period before re-running (default: 100ms)
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:       "> ",
			HistoryLimit: 1000,
		},
		Interpreter: InterpreterConfig{
			MaxSteps:     0,
			MaxCallDepth: 1024,
			Locale:       "en",
		},
		Output: OutputConfig{
			Errors: "text",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}
