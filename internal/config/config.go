package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "./pascal.toml"

type Config struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	Output   Output `toml:"output" yaml:"output"`
	Debug    Debug  `toml:"debug" yaml:"debug"`
	Watch    Watch  `toml:"watch" yaml:"watch"`
	Repl     Repl   `toml:"repl" yaml:"repl"`
}

type Output struct {
	Format string `toml:"format" yaml:"format"` // text, yaml or json
	Color  bool   `toml:"color" yaml:"color"`
}

type Debug struct {
	Tokens  bool `toml:"tokens" yaml:"tokens"`   // log every token
	AST     bool `toml:"ast" yaml:"ast"`         // print the AST before running
	Symbols bool `toml:"symbols" yaml:"symbols"` // log scope define/lookup
}

type Watch struct {
	Debounce    Duration `toml:"debounce" yaml:"debounce"`
	Patterns    []string `toml:"patterns" yaml:"patterns"`
	ExcludeDirs []string `toml:"exclude_dirs" yaml:"exclude_dirs"`
}

type Repl struct {
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	Prompt      string `toml:"prompt" yaml:"prompt"`
}

// Duration decodes "500ms"-style strings from either format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

var (
	Formats = []string{"text", "yaml", "json"}
	Levels  = []string{"debug", "info", "warn", "error"}
)

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Output:   Output{Format: "text", Color: true},
		Watch: Watch{
			Debounce:    Duration{500 * time.Millisecond},
			Patterns:    []string{"*.pas"},
			ExcludeDirs: []string{".git", "node_modules"},
		},
		Repl: Repl{HistoryFile: ".pascal_history", Prompt: "pascal> "},
	}
}

// Load reads a TOML or YAML file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path; a missing DefaultPath yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format)
	}
	if !slices.Contains(Levels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("log_level must be one of %s, got %q", strings.Join(Levels, ", "), c.LogLevel)
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = []string{"*.pas"}
	}
	return nil
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
