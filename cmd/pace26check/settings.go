package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manpen/pace26checker/internal/config"
	"github.com/manpen/pace26checker/internal/diagfmt"
	"github.com/manpen/pace26checker/internal/driver"
	"github.com/manpen/pace26checker/internal/logx"
	"github.com/manpen/pace26checker/internal/prof"
)

const cacheApp = "pace26check"

// settings are the config file merged with the command line.
type settings struct {
	cfg       *config.Config
	opts      driver.Options
	format    string
	color     bool
	pathMode  diagfmt.PathMode
	withNotes bool
	profiles  prof.Options
	log       *logx.Logger
}

// loadSettings discovers the config file and applies flags that were set
// explicitly on top of it.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(".", configPath)
	if err != nil {
		return nil, err
	}

	// флаги перекрывают файл только если заданы явно
	overrideString := func(name string, dst *string) {
		if flags.Changed(name) {
			if v, err := flags.GetString(name); err == nil {
				*dst = strings.ToLower(strings.TrimSpace(v))
			}
		}
	}
	overrideBool := func(name string, dst *bool) {
		if flags.Changed(name) {
			if v, err := flags.GetBool(name); err == nil {
				*dst = v
			}
		}
	}
	overrideInt := func(name string, dst *int) {
		if flags.Changed(name) {
			if v, err := flags.GetInt(name); err == nil {
				*dst = v
			}
		}
	}
	overrideString("format", &cfg.Check.Format)
	overrideString("color", &cfg.Check.Color)
	overrideString("path-mode", &cfg.Check.PathMode)
	overrideBool("paranoid", &cfg.Check.Paranoid)
	overrideBool("timings", &cfg.Check.Timings)
	overrideInt("max-diagnostics", &cfg.Check.MaxDiagnostics)
	overrideInt("max-line", &cfg.Check.MaxLine)
	overrideString("log-level", &cfg.Log.Level)
	overrideString("log-format", &cfg.Log.Format)
	if flags.Lookup("jobs") != nil {
		overrideInt("jobs", &cfg.Check.Jobs)
	}
	if quiet, _ := flags.GetBool("quiet"); quiet {
		cfg.Log.Level = "error"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg, format: cfg.Check.Format}
	s.withNotes, _ = flags.GetBool("with-notes")
	s.pathMode, _ = diagfmt.ParsePathMode(cfg.Check.PathMode)
	s.color = colorEnabled(cfg.Check.Color, cmd.ErrOrStderr())

	s.log, err = logx.New(logx.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
		Color:  s.color,
	})
	if err != nil {
		return nil, err
	}

	tracks, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	s.opts = driver.Options{
		Tracks:         tracks,
		Paranoid:       cfg.Check.Paranoid,
		MaxDiagnostics: cfg.Check.MaxDiagnostics,
		MaxLine:        cfg.Check.MaxLine,
		Timings:        cfg.Check.Timings,
		Jobs:           cfg.Check.Jobs,
		Logger:         s.log,
	}
	if s.opts.Cache, err = openCache(cmd, cfg); err != nil {
		// без кэша проверка всё равно корректна
		s.log.Named("cache").Warn(fmt.Sprintf("cache disabled: %v", err))
	}

	s.profiles.CPU, _ = flags.GetString("cpu-profile")
	s.profiles.Mem, _ = flags.GetString("mem-profile")
	s.profiles.Trace, _ = flags.GetString("runtime-trace")

	if !slices.Contains(config.Formats, s.format) {
		return nil, fmt.Errorf("unsupported format %q", s.format)
	}
	return s, nil
}

func openCache(cmd *cobra.Command, cfg *config.Config) (*driver.DiskCache, error) {
	flags := cmd.Flags()
	if off, _ := flags.GetBool("no-cache"); off {
		return nil, nil
	}
	dir, _ := flags.GetString("cache-dir")
	if dir == "" && !cfg.Cache.Enabled {
		return nil, nil
	}
	if dir == "" {
		dir = cfg.Cache.Dir
	}
	if dir == "" {
		return driver.OpenDiskCache(cacheApp)
	}
	return driver.OpenDiskCacheAt(dir)
}

// colorEnabled resolves auto|on|off for w. NO_COLOR disables auto.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isTerminal(w)
	}
}

// startProfiling starts the requested profiles; the returned stop is never nil.
func (s *settings) startProfiling(stderr io.Writer) (func(), error) {
	if !s.profiles.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(s.profiles)
	if err != nil {
		return nil, err
	}
	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		if err := session.Stop(); err != nil {
			fmt.Fprintf(stderr, "failed to write profiles: %v\n", err)
		}
	}, nil
}
