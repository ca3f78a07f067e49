package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all converter settings. Values are layered: defaults, then an
// optional TOML file, then environment variables, then command-line flags.
type Config struct {
	InputPath   string `toml:"input"`
	OutputPath  string `toml:"output"`
	Delimiter   string `toml:"delimiter"`
	StrictKeys  bool   `toml:"strict_keys"`
	MetricsFile string `toml:"metrics_file"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		InputPath:  "zip_codes.csv",
		OutputPath: "us_zip_to_coords_map.json",
		Delimiter:  ",",
		LogLevel:   "info",
		LogFormat:  "auto",
	}
}

// Load builds a Config from defaults, the TOML file at path (or
// ZIPCOORDS_CONFIG when path is empty), and environment variables. It does
// not validate: callers layer flags on top and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("ZIPCOORDS_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.InputPath = sharedcfg.EnvOrDefault("ZIPCOORDS_INPUT", c.InputPath)
	c.OutputPath = sharedcfg.EnvOrDefault("ZIPCOORDS_OUTPUT", c.OutputPath)
	c.Delimiter = sharedcfg.EnvOrDefault("ZIPCOORDS_DELIMITER", c.Delimiter)
	c.MetricsFile = sharedcfg.EnvOrDefault("ZIPCOORDS_METRICS_FILE", c.MetricsFile)
	c.LogLevel = sharedcfg.EnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = sharedcfg.EnvOrDefault("LOG_FORMAT", c.LogFormat)

	strict, err := strconv.ParseBool(sharedcfg.EnvOrDefault("ZIPCOORDS_STRICT_KEYS", strconv.FormatBool(c.StrictKeys)))
	if err != nil {
		return errors.New("invalid ZIPCOORDS_STRICT_KEYS")
	}
	c.StrictKeys = strict
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("output path is required")
	}
	if c.InputPath == c.OutputPath {
		return errors.New("input and output paths must differ")
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// DelimiterRune returns the field separator. "tab" and `\t` name the tab
// character; anything else must be exactly one rune.
func (c *Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", c.Delimiter)
	}
	return r, nil
}
