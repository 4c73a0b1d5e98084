package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunmahishi/qmlfix/qmlfix"
	"github.com/bmatcuk/doublestar"
	"gopkg.in/yaml.v3"
)

// FileName is the per-directory configuration file looked up by Resolve.
const FileName = ".qmlfix.yaml"

//go:embed default.yaml
var defaultYAML []byte

// Config is the on-disk configuration of a qualify run.
type Config struct {
	// ID is injected into root objects that lack one.
	ID string `yaml:"id"`

	// IDWindow bounds the search for an existing root id.
	IDWindow int `yaml:"id_window"`

	// Indent is used for the injected id line when the body has none.
	Indent string `yaml:"indent"`

	// Reserved names are never qualified.
	Reserved []string `yaml:"reserved"`

	// Pattern selects files relative to the target directory.
	Pattern string `yaml:"pattern"`

	// IgnoreDirs are directory names skipped during discovery.
	IgnoreDirs []string `yaml:"ignore_dirs"`

	// MaxBytes skips files larger than this. 0 disables the limit.
	MaxBytes int64 `yaml:"max_bytes"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return &cfg
}

// Parse reads YAML on top of the defaults. Keys missing from data keep
// their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the configuration for a run over dir: the explicit path if
// given, else dir/.qmlfix.yaml if it exists, else the defaults. The second
// result names the file used, or is empty for the defaults.
func Resolve(explicit, dir string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		cfg, err := Load(candidate)
		return cfg, candidate, err
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("stat config: %w", err)
	}
	return Default(), "", nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.ID == "" {
		return errors.New("id must not be empty")
	}
	if c.IDWindow <= 0 {
		return fmt.Errorf("id_window must be positive, got %d", c.IDWindow)
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("max_bytes must not be negative, got %d", c.MaxBytes)
	}
	if c.Pattern == "" {
		return errors.New("pattern must not be empty")
	}
	if _, err := doublestar.Match(c.Pattern, "a/b.qml"); err != nil {
		return fmt.Errorf("pattern %q: %w", c.Pattern, err)
	}
	for _, ch := range c.Indent {
		if ch != ' ' && ch != '\t' {
			return fmt.Errorf("indent must be spaces or tabs, got %q", c.Indent)
		}
	}
	return nil
}

// QualifierOptions maps the configuration onto qualifier options.
func (c *Config) QualifierOptions() qmlfix.Options {
	return qmlfix.Options{
		ID:       c.ID,
		IDWindow: c.IDWindow,
		Indent:   c.Indent,
		Reserved: append([]string(nil), c.Reserved...),
	}
}

// IgnoreDirSet returns IgnoreDirs as a set.
func (c *Config) IgnoreDirSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.IgnoreDirs))
	for _, dir := range c.IgnoreDirs {
		set[dir] = struct{}{}
	}
	return set
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}
