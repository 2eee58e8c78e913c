// Package config loads pace26check.toml. The file is optional: without one the
// checker runs with built-in defaults, and command-line flags override
// whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/manpen/pace26checker/internal/track"
)

// FileName is looked up from the working directory upwards.
const FileName = "pace26check.toml"

// Formats accepted by [check].format.
var Formats = []string{"pretty", "short", "json", "msgpack", "sarif", "summary"}

// Config mirrors the file layout.
type Config struct {
	// Path of the loaded file, empty for defaults.
	Path string `toml:"-"`

	Check  CheckConfig      `toml:"check"`
	Cache  CacheConfig      `toml:"cache"`
	Log    LogConfig        `toml:"log"`
	Tracks []track.Override `toml:"track"`
}

// CheckConfig is the [check] table.
type CheckConfig struct {
	Paranoid       bool   `toml:"paranoid"`
	MaxDiagnostics int    `toml:"max_diagnostics" validate:"gte=0"`
	MaxLine        int    `toml:"max_line" validate:"gte=0"`
	Jobs           int    `toml:"jobs" validate:"gte=0"`
	Format         string `toml:"format" validate:"oneof=pretty short json msgpack sarif summary"`
	Color          string `toml:"color" validate:"oneof=auto on off"`
	PathMode       string `toml:"path_mode" validate:"oneof=auto absolute relative basename"`
	Timings        bool   `toml:"timings"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// LogConfig is the [log] table.
type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" validate:"omitempty,oneof=console json"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Check: CheckConfig{
			Format:   "pretty",
			Color:    "auto",
			PathMode: "auto",
		},
		Cache: CacheConfig{Enabled: false},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Find walks up from startDir to locate pace26check.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads explicit if set, otherwise the nearest pace26check.toml
// above startDir, otherwise the defaults.
func Discover(startDir, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes and validates the file at path. Unknown keys are errors, so a
// typo never silently changes a verdict.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		// относительно файла конфигурации
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := describe(validate.Struct(c)); err != nil {
		return err
	}
	for i, t := range c.Tracks {
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Base) == "" {
			return fmt.Errorf("[[track]] #%d: name and base are required", i+1)
		}
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their TOML keys.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		return name
	})
	return v
}

// describe turns validator errors into "[table].key ..." messages.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if table, field, ok := strings.Cut(key, "."); ok {
			key = "[" + table + "]." + field
		}
		switch fe.Tag() {
		case "gte":
			msgs = append(msgs, key+" must not be negative")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q is not one of %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", key, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Registry returns the built-in tracks extended by the [[track]] tables.
func (c *Config) Registry() (*track.Registry, error) {
	r := track.Default()
	if err := r.Apply(c.Tracks); err != nil {
		if c.Path != "" {
			return nil, fmt.Errorf("%s: %w", c.Path, err)
		}
		return nil, err
	}
	return r, nil
}
