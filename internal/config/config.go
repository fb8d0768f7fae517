package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HomeDirName is the per-project directory holding config, logs and history.
const HomeDirName = ".lintsweep"

// DefaultOutputFile is where linter output is appended when no path is given.
const DefaultOutputFile = "golint.log"

// LinterConfig describes the external linter invocation
type LinterConfig struct {
	// Command is the linter binary, looked up in PATH when not absolute
	Command string `yaml:"command"`

	// Args are passed before the target file path
	Args []string `yaml:"args"`
}

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every sweep in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents lintsweep configuration options
type Config struct {
	// Linter is the external tool run once per eligible file
	Linter LinterConfig `yaml:"linter"`

	// Suffix selects eligible source files (e.g. ".go")
	Suffix string `yaml:"suffix"`

	// ExcludeFiles lists filename suffixes that are never linted
	ExcludeFiles []string `yaml:"exclude_files"`

	// ExcludeDirs lists directory names whose contents are never linted
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Suppress lists substrings; diagnostic lines containing one are not counted
	Suppress []string `yaml:"suppress"`

	// Concurrency is the maximum number of linter processes in flight
	Concurrency int `yaml:"concurrency"`

	// Timeout bounds a single linter invocation (0 = no timeout)
	Timeout time.Duration `yaml:"timeout"`

	// SpawnRate limits linter process starts per second (0 = unlimited)
	SpawnRate float64 `yaml:"spawn_rate"`

	// OutputFile receives the appended linter output
	OutputFile string `yaml:"output_file"`

	// SortOutput writes results ordered by path instead of completion order
	SortOutput bool `yaml:"sort_output"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Linter: LinterConfig{
			Command: "golint",
		},
		Suffix:       ".go",
		ExcludeFiles: []string{"bigquery.go", "lint.py"},
		ExcludeDirs:  []string{"vendor"},
		Suppress:     []string{"don't use ALL_CAPS"},
		Concurrency:  4,
		Timeout:      0, // No timeout
		SpawnRate:    0, // Unlimited
		OutputFile:   DefaultOutputFile,
		SortOutput:   false,
		LogLevel:     "info",
		LogDir:       filepath.Join(HomeDirName, "logs"),
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(HomeDirName, "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("30s"), and list fields must replace
	// the defaults only when present, so decode through pointers
	type yamlConfig struct {
		Linter *struct {
			Command string   `yaml:"command"`
			Args    []string `yaml:"args"`
		} `yaml:"linter"`
		Suffix       string    `yaml:"suffix"`
		ExcludeFiles *[]string `yaml:"exclude_files"`
		ExcludeDirs  *[]string `yaml:"exclude_dirs"`
		Suppress     *[]string `yaml:"suppress"`
		Concurrency  int       `yaml:"concurrency"`
		Timeout      string    `yaml:"timeout"`
		SpawnRate    float64   `yaml:"spawn_rate"`
		OutputFile   string    `yaml:"output_file"`
		SortOutput   bool      `yaml:"sort_output"`
		LogLevel     string    `yaml:"log_level"`
		LogDir       string    `yaml:"log_dir"`
		History      *struct {
			Enabled *bool  `yaml:"enabled"`
			DBPath  string `yaml:"db_path"`
		} `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Linter != nil {
		if yamlCfg.Linter.Command != "" {
			cfg.Linter.Command = yamlCfg.Linter.Command
		}
		if yamlCfg.Linter.Args != nil {
			cfg.Linter.Args = yamlCfg.Linter.Args
		}
	}
	if yamlCfg.Suffix != "" {
		cfg.Suffix = yamlCfg.Suffix
	}
	// An explicit empty list clears the default
	if yamlCfg.ExcludeFiles != nil {
		cfg.ExcludeFiles = *yamlCfg.ExcludeFiles
	}
	if yamlCfg.ExcludeDirs != nil {
		cfg.ExcludeDirs = *yamlCfg.ExcludeDirs
	}
	if yamlCfg.Suppress != nil {
		cfg.Suppress = *yamlCfg.Suppress
	}
	if yamlCfg.Concurrency != 0 {
		cfg.Concurrency = yamlCfg.Concurrency
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.SpawnRate != 0 {
		cfg.SpawnRate = yamlCfg.SpawnRate
	}
	if yamlCfg.OutputFile != "" {
		cfg.OutputFile = yamlCfg.OutputFile
	}
	if yamlCfg.SortOutput {
		cfg.SortOutput = yamlCfg.SortOutput
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.History != nil {
		if yamlCfg.History.Enabled != nil {
			cfg.History.Enabled = *yamlCfg.History.Enabled
		}
		if yamlCfg.History.DBPath != "" {
			cfg.History.DBPath = yamlCfg.History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .lintsweep/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, HomeDirName, "config.yaml")
	return LoadConfig(configPath)
}

// Flags carries CLI overrides. Nil fields leave the configuration untouched.
type Flags struct {
	Concurrency *int
	Timeout     *time.Duration
	Linter      *string
	LogDir      *string
	OutputFile  *string
	SortOutput  *bool
	History     *bool
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f Flags) {
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.Linter != nil {
		c.Linter.Command = *f.Linter
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.OutputFile != nil {
		c.OutputFile = *f.OutputFile
	}
	if f.SortOutput != nil {
		c.SortOutput = *f.SortOutput
	}
	if f.History != nil {
		c.History.Enabled = *f.History
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Linter.Command == "" {
		return fmt.Errorf("linter.command cannot be empty")
	}

	if c.Suffix == "" {
		return fmt.Errorf("suffix cannot be empty")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}

	// Timeout can be 0 (no timeout) or positive, negative is invalid
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}

	if c.SpawnRate < 0 {
		return fmt.Errorf("spawn_rate must be >= 0, got %v", c.SpawnRate)
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output_file cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
